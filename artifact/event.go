package artifact

import "context"

// EventType identifies a point in an artifact's resolution lifecycle.
// Per-artifact ordering is RESOLVING -> (DOWNLOADING -> DOWNLOADED)*
// -> RESOLVED; a pre-hosted (local_path) artifact receives only
// RESOLVED.
type EventType int

const (
	EventResolving EventType = iota
	EventDownloading
	EventDownloaded
	EventResolved
)

func (t EventType) String() string {
	switch t {
	case EventResolving:
		return "ARTIFACT_RESOLVING"
	case EventDownloading:
		return "ARTIFACT_DOWNLOADING"
	case EventDownloaded:
		return "ARTIFACT_DOWNLOADED"
	case EventResolved:
		return "ARTIFACT_RESOLVED"
	default:
		return "UNKNOWN"
	}
}

// Event is emitted by the orchestrator at lifecycle points. Dispatch
// is a side effect only: it never influences resolution outcome.
type Event struct {
	Type       EventType
	Artifact   Artifact
	Repository *RepositorySpec
	Exceptions []error
}

// EventDispatcher delivers Events. Dispatch must not panic or block
// indefinitely; a misbehaving dispatcher must never be allowed to
// affect resolution outcome, so implementations and their callers
// should treat Dispatch as best-effort.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// PostProcessor runs over the full result set after resolution
// completes, before failures are aggregated. The registry of
// post-processors is a name -> capability mapping; iteration order
// must be deterministic, so callers supply an ordered slice rather
// than a map.
type PostProcessor interface {
	Name() string
	PostProcess(ctx context.Context, session *Session, results []*ArtifactResult) error
}
