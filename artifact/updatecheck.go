package artifact

import "context"

// UpdateCheckRequest is the stored decision about whether a
// cached-failure or cached-artifact outcome for one (artifact,
// repository) pair should be re-fetched, based on an elapsed-time
// policy.
type UpdateCheckRequest struct {
	Artifact   Artifact
	Repository *RepositorySpec
	Context    string
	Policy     RepositoryPolicy

	// Required is filled in by CheckArtifact: true means the caller
	// should attempt the download; false means the prior outcome
	// (Exception, if any) is still considered current.
	Required bool
	// Exception carries the prior cached failure, if Required is
	// false because of one, or the outcome of the current attempt
	// once TouchArtifact is called.
	Exception error
}

// UpdateCheckManager persists and consults the elapsed-time policy
// that decides whether a cached outcome (success or failure) for an
// artifact is due for re-fetch.
type UpdateCheckManager interface {
	// CheckArtifact fills in check.Required (and check.Exception, if
	// a cached failure is still current).
	CheckArtifact(ctx context.Context, session *Session, check *UpdateCheckRequest) error

	// TouchArtifact persists the outcome recorded in check.Exception
	// (nil on success) for future CheckArtifact calls.
	TouchArtifact(ctx context.Context, session *Session, check *UpdateCheckRequest) error
}

// OfflineController decides whether a repository may be reached given
// the session's offline setting.
type OfflineController interface {
	// CheckOffline returns nil if repository may be reached, or an
	// error wrapping ErrOffline if the session is offline with
	// respect to repository.
	CheckOffline(ctx context.Context, session *Session, repository *RepositorySpec) error
}
