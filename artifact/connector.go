package artifact

import "context"

// RepositoryPolicy is the applicable snapshot-vs-release policy for a
// repository, as computed by a RemoteRepositoryManager.
type RepositoryPolicy struct {
	// Enabled reports whether this repository should be consulted at
	// all for the artifact's snapshot/release kind.
	Enabled bool
	// UpdatePolicy names the update-check cadence ("always", "daily",
	// "interval:<duration>", "never") consulted by the
	// UpdateCheckManager.
	UpdatePolicy string
	// ChecksumPolicy names the checksum policy to attach to a
	// Download. Checksum verification itself is out of scope; the
	// policy is carried through unevaluated for the connector to
	// interpret.
	ChecksumPolicy string
}

// RemoteRepositoryManager computes the applicable RepositoryPolicy for
// a repository and artifact kind.
type RemoteRepositoryManager interface {
	PolicyFor(repository *RepositorySpec, snapshot bool) RepositoryPolicy
}

// TransferListener observes individual transfers. Connectors invoke
// it, when non-nil on a Download, around each transfer they execute;
// the resolver itself only plumbs it through from the Session.
type TransferListener interface {
	TransferStarted(ctx context.Context, download *Download)
	TransferSucceeded(ctx context.Context, download *Download)
	TransferFailed(ctx context.Context, download *Download, err error)
}

// Download is the descriptor the DownloadCoordinator builds for one
// pending artifact fetch and hands to a Connector.
type Download struct {
	Artifact       Artifact
	RequestContext string
	Trace          *RequestTrace
	Listener       TransferListener
	Destination    string
	// ExistenceCheck permits the connector to short-circuit the
	// transfer if the server reports the destination is unchanged.
	ExistenceCheck bool
	// Repositories is the (possibly mirrored) list of repositories
	// the connector may satisfy this download from.
	Repositories []*RepositorySpec
	Policy       RepositoryPolicy
	// Exception is set by the Connector on failure.
	Exception error
}

// Connector performs batched artifact transfers against one remote
// repository (or a compatible group of mirrors). A Connector is scoped
// to a single ResolutionGroup's lifetime: acquired, used for one Get
// call, then closed.
type Connector interface {
	// Get executes every download in the batch, setting Exception on
	// any that fail. It does not return an error for individual
	// transfer failures; only a failure to execute the batch at all
	// (e.g. the connector itself is unusable) is returned here.
	Get(ctx context.Context, downloads []*Download) error

	// Close releases connector resources. Must be safe to call
	// exactly once per Connector returned by ConnectorProvider.
	Close(ctx context.Context) error
}

// ConnectorProvider produces wire-level Connectors for a repository.
type ConnectorProvider interface {
	NewConnector(ctx context.Context, session *Session, repository *RepositorySpec) (Connector, error)
}
