package artifact

import "context"

// RepositoryKind classifies the repository a VersionResolver pins a
// resolution to.
type RepositoryKind int

const (
	// RepositoryKindUnknown means the version resolver did not pin a
	// repository; every candidate repository remains in play.
	RepositoryKindUnknown RepositoryKind = iota
	// RepositoryKindRemote narrows resolution to a single remote
	// repository.
	RepositoryKindRemote
	// RepositoryKindLocal means the version was satisfied from the
	// local repository; no remote candidates remain.
	RepositoryKindLocal
	// RepositoryKindOther covers any repository type the version
	// resolver may pin to that is neither remote nor local (e.g. a
	// workspace reactor build). Like RepositoryKindLocal, it empties
	// the candidate set, so no download is planned. Unlike
	// RepositoryKindLocal, it does not make locallookup.Found accept
	// a cached file the LRM does not track as available — see
	// DESIGN.md Open Question 2.
	RepositoryKindOther
)

// VersionResult is the outcome of resolving a version range or
// coordinate to a concrete version.
type VersionResult struct {
	Version        string
	Repository     *RepositorySpec
	RepositoryKind RepositoryKind
}

// VersionResolver turns a coordinate and/or version range into a
// concrete version, optionally pinning the result to a specific
// repository. Out of scope for this module's core algorithm; consumed
// only through this interface. Package version ships a concrete
// implementation (SemverResolver).
type VersionResolver interface {
	ResolveVersion(ctx context.Context, session *Session, request *ArtifactRequest) (VersionResult, error)
}
