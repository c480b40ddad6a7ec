package artifact

import "context"

// FilterDecision is the outcome of asking a RemoteRepositoryFilter
// whether a repository may be used for an artifact.
type FilterDecision struct {
	Accepted bool
	Reason   string
}

// Accepted is a convenience constructor for an accepting decision.
func Accepted() FilterDecision { return FilterDecision{Accepted: true} }

// Rejected is a convenience constructor for a rejecting decision
// carrying a human-readable reason.
func Rejected(reason string) FilterDecision { return FilterDecision{Accepted: false, Reason: reason} }

// RemoteRepositoryFilter is a pure decision: given a repository and
// artifact, may this repository be used? Side effects (exception
// accumulation) are the caller's responsibility, not the filter's.
type RemoteRepositoryFilter interface {
	Accept(ctx context.Context, repository *RepositorySpec, artifact Artifact) FilterDecision
}

// FilterManager produces the RemoteRepositoryFilter in effect for a
// session, or nil if no filter is configured. Whether a filter is
// configured at all changes the locally-installed decision (see
// locallookup.Found).
type FilterManager interface {
	FilterFor(ctx context.Context, session *Session) (RemoteRepositoryFilter, error)
}
