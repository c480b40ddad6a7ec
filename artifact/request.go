package artifact

// RepositorySpec describes a remote repository candidate. Two
// RepositorySpec values are compatible — may share a single
// groupscheduler.ResolutionGroup and therefore a single connector
// session — iff they agree on URL, ContentType, and RepositoryManager.
type RepositorySpec struct {
	ID                string
	URL               string
	ContentType       string
	RepositoryManager bool
}

// CompatibleWith reports whether r and o may share a ResolutionGroup.
func (r *RepositorySpec) CompatibleWith(o *RepositorySpec) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.URL == o.URL && r.ContentType == o.ContentType && r.RepositoryManager == o.RepositoryManager
}

// RequestTrace threads observability context (e.g. "resolving
// transitive dependency X for direct dependency Y") through a
// resolution without the orchestrator itself interpreting it.
type RequestTrace struct {
	Parent      *RequestTrace
	Description string
}

// ResolutionErrorPolicy controls whether a cached failure from a
// previous resolution attempt is consulted via the UpdateCheckManager
// before a repository is retried.
type ResolutionErrorPolicy struct {
	// CacheFailures mirrors Maven's "cache failures" resolution error
	// policy bit: when true, a cached "not found" outcome short-circuits
	// a retry until the update-check interval elapses.
	CacheFailures bool
}

// Session is the caller-scoped context for a batch of resolutions: the
// local repository identity, the offline flag, and the resolution
// error policy in effect. It is passed through to every collaborator
// call so that collaborators never need process-global state.
type Session struct {
	LocalRepository *RepositorySpec
	Offline         bool
	ErrorPolicy     ResolutionErrorPolicy
	Properties      map[string]string

	// TransferListener, if set, is attached to every Download built
	// during this session so connectors can report transfer progress.
	TransferListener TransferListener
}

// ArtifactRequest is one artifact to resolve: the artifact itself, an
// ordered list of candidate remote repositories (preference order is
// significant — see groupscheduler), a request-context tag used by the
// LRM to decide which metadata files are relevant, and an optional
// trace for observability.
type ArtifactRequest struct {
	Artifact     Artifact
	Repositories []*RepositorySpec
	Context      string
	Trace        *RequestTrace
}

// Clone returns a deep copy of the request, duplicating the
// repository slice so the orchestrator's own filtering never mutates
// caller-owned state.
func (r *ArtifactRequest) Clone() *ArtifactRequest {
	clone := *r
	clone.Artifact = r.Artifact.Clone()
	if r.Repositories != nil {
		clone.Repositories = append([]*RepositorySpec(nil), r.Repositories...)
	}
	return &clone
}
