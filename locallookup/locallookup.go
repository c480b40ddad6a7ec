// Package locallookup implements the workspace/local-cache resolution
// tier: consulting an optional in-reactor WorkspaceReader, querying the
// LocalRepositoryManager for a tracked cached copy, and applying the
// "locally installed" predicate that decides whether that cached copy
// may be trusted without a network round trip.
package locallookup

import (
	"context"

	"github.com/c00ler/maven-resolver/artifact"
)

// Workspace consults ws, if configured, for art. It returns the file
// and true if the workspace already built this artifact in the
// current reactor, in which case no further tier is consulted.
func Workspace(ctx context.Context, ws artifact.WorkspaceReader, art artifact.Artifact) (file string, repo *artifact.RepositorySpec, found bool) {
	if ws == nil {
		return "", nil, false
	}
	file, found = ws.FindArtifact(ctx, art)
	if !found {
		return "", nil, false
	}
	return file, ws.Repository(), true
}

// Found is the locally-installed predicate: whether a cached copy
// reported by the LRM may be trusted as the resolution outcome
// without consulting any remote repository.
//
// filterActive reports whether a RemoteRepositoryFilter was consulted
// for this artifact at all (regardless of its verdict) — its mere
// presence changes the rule, because an active filter is authoritative
// over which repository an artifact may have come from, so a
// physically present file with unknown origin is no longer good
// enough.
func Found(filterActive bool, local artifact.LocalArtifactResult, version artifact.VersionResult, repositoryCount int) bool {
	if filterActive {
		return local.Available
	}
	if local.Available {
		return true
	}
	if local.File == "" {
		return false
	}
	if version.RepositoryKind == artifact.RepositoryKindLocal {
		return true
	}
	return version.RepositoryKind == artifact.RepositoryKindUnknown && repositoryCount == 0
}

// RegisterIfInterop implements the simple_lrm_interop legacy behavior:
// when no filter was active, interop is enabled, and the local result
// was not already tracked as installed but a file was nonetheless
// present (the Found predicate accepted it via the version-pinned or
// empty-candidate-set branches), the artifact is registered with the
// LRM after materialization so future lookups see it as tracked.
//
// Ignored whenever a filter is active, since interop exists only to
// paper over gaps in LRM tracking that a filter must not be allowed to
// bypass.
func RegisterIfInterop(ctx context.Context, lrm artifact.LocalRepositoryManager, session *artifact.Session, interopEnabled, filterActive bool, local artifact.LocalArtifactResult, art artifact.Artifact, repo *artifact.RepositorySpec, requestContext string) error {
	if filterActive || !interopEnabled || local.Available {
		return nil
	}
	return lrm.Add(ctx, session, artifact.Registration{
		Artifact:   art,
		Repository: repo,
		Contexts:   []string{requestContext},
	})
}
