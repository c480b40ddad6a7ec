package resolver

import (
	"fmt"
	"strings"

	"github.com/c00ler/maven-resolver/artifact"
	"github.com/c00ler/maven-resolver/synccontext"
)

// Collaborators aggregates every external dependency the Orchestrator
// needs to resolve a batch of requests. Sync, Version, LRM,
// RepositoryManager, and Connectors are required; the rest are
// optional and simply disable the tier or policy they back when left
// nil.
type Collaborators struct {
	// Sync coordinates concurrent resolvers against the same local
	// repository via the two-phase shared/exclusive lock.
	Sync synccontext.Context

	// Version turns a request's version range into a concrete,
	// optionally repository-pinned version.
	Version artifact.VersionResolver

	// Workspace, if configured, is consulted before the local
	// repository and before any remote repository.
	Workspace artifact.WorkspaceReader

	// LRM owns the on-disk local repository cache and its tracking
	// metadata.
	LRM artifact.LocalRepositoryManager

	// FilterManager, if configured, gates which remote repositories
	// may be used for a given artifact.
	FilterManager artifact.FilterManager

	// OfflineController, if configured, rejects repositories the
	// session's offline setting makes unreachable.
	OfflineController artifact.OfflineController

	// RepositoryManager computes the applicable snapshot/release
	// policy for a candidate repository.
	RepositoryManager artifact.RemoteRepositoryManager

	// Connectors produces wire-level transfer connectors.
	Connectors artifact.ConnectorProvider

	// UpdateCheckManager, if configured, short-circuits a retry
	// against a repository whose prior failure is still cached.
	UpdateCheckManager artifact.UpdateCheckManager
}

func (c Collaborators) validate() error {
	var missing []string
	if c.Sync == nil {
		missing = append(missing, "Sync")
	}
	if c.Version == nil {
		missing = append(missing, "Version")
	}
	if c.LRM == nil {
		missing = append(missing, "LRM")
	}
	if c.RepositoryManager == nil {
		missing = append(missing, "RepositoryManager")
	}
	if c.Connectors == nil {
		missing = append(missing, "Connectors")
	}
	if len(missing) > 0 {
		return fmt.Errorf("resolver: missing required collaborators: %s", strings.Join(missing, ", "))
	}
	return nil
}
