package artifact

import "context"

// LocalRepositoryManager owns the on-disk cache layout and tracking
// metadata of the local repository. The resolver consults it to
// discover whether an artifact is already cached and to compute paths
// for newly downloaded artifacts; it never interprets the on-disk
// layout itself.
type LocalRepositoryManager interface {
	// Find looks up artifact among the given candidate repositories
	// and reports whether the LRM's tracking metadata considers it
	// installed for one of them.
	Find(ctx context.Context, session *Session, artifact Artifact, repositories []*RepositorySpec) (LocalArtifactResult, error)

	// Add registers that an artifact now exists for a repository,
	// for the given request contexts.
	Add(ctx context.Context, session *Session, registration Registration) error

	// PathForRemoteArtifact computes the path, anchored to the local
	// repository base directory, a downloaded copy of artifact from
	// repository should be written to.
	PathForRemoteArtifact(artifact Artifact, repository *RepositorySpec, requestContext string) (string, error)

	// Repository returns the repository identity the LRM itself
	// represents, used to attribute locally-installed results.
	Repository() *RepositorySpec
}

// WorkspaceReader is an in-process provider of artifacts built by
// sibling modules in the same build (e.g. a multi-module reactor
// build). If it can satisfy a request, no cache or network tier is
// consulted.
type WorkspaceReader interface {
	// FindArtifact returns the file backing artifact if the workspace
	// has already built it, and whether it was found.
	FindArtifact(ctx context.Context, artifact Artifact) (file string, found bool)

	// Repository returns the repository identity attributed to
	// workspace-resolved results.
	Repository() *RepositorySpec
}
