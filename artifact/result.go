package artifact

// LocalArtifactResult is the outcome of consulting the local
// repository manager (LRM) for a cached copy of an artifact.
type LocalArtifactResult struct {
	// File is the path the LRM believes the artifact lives at,
	// whether or not it is tracked as installed. May be empty.
	File string

	// Available is true iff the LRM's tracking metadata records this
	// artifact as installed for one of the requested repositories.
	Available bool

	// Repository is the origin repository the LRM attributes the
	// cached file to, or nil if unknown.
	Repository *RepositorySpec
}

// Registration is the payload the orchestrator hands to the LRM's Add
// method once an artifact has been successfully materialized, telling
// the LRM the artifact now exists for the given repository and request
// contexts.
type Registration struct {
	Artifact   Artifact
	Repository *RepositorySpec
	Contexts   []string
}

// ArtifactResult is the 1:1 outcome of resolving one ArtifactRequest.
// It is mutated in place as the pipeline progresses and is the unit
// the orchestrator returns to the caller.
type ArtifactResult struct {
	Request *ArtifactRequest

	// Artifact is the resolved artifact, or nil if resolution never
	// produced one.
	Artifact *Artifact

	// Repository is the repository the artifact was ultimately
	// sourced from (workspace, LRM, or a remote repository).
	Repository *RepositorySpec

	// Exceptions accumulates every non-aborting error encountered
	// while resolving this request (filtered-out repositories, failed
	// download attempts superseded by a later success, and so on).
	Exceptions []error

	// Local is the LocalArtifactResult snapshot recorded during the
	// local-lookup step, preserved for callers that want to know
	// whether the final artifact came from cache.
	Local LocalArtifactResult
}

// Successful reports whether the result carries a resolved artifact
// with a materialized file. A successful result may still carry
// Exceptions (e.g. a transfer error from a repository that was tried
// and superseded by a later, successful one).
func (r *ArtifactResult) Successful() bool {
	return r.Artifact != nil && r.Artifact.File != ""
}

// AddException appends err to the result's exception list. A nil err
// is ignored so call sites can pass through fallible lookups directly.
func (r *ArtifactResult) AddException(err error) {
	if err == nil {
		return
	}
	r.Exceptions = append(r.Exceptions, err)
}
