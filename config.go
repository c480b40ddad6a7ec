package resolver

import (
	"github.com/c00ler/maven-resolver/artifact"
	"github.com/c00ler/maven-resolver/event"
	"github.com/c00ler/maven-resolver/pathpolicy"
)

type config struct {
	goRoutineLimit        int
	snapshotNormalization bool
	simpleLRMInterop      bool
	dispatcher            artifact.EventDispatcher
	postProcessors        []artifact.PostProcessor
}

func defaultConfig() config {
	return config{
		snapshotNormalization: true,
		dispatcher:            event.Noop(),
	}
}

func (c config) pathPolicy() pathpolicy.Config {
	return pathpolicy.Config{SnapshotNormalization: c.snapshotNormalization}
}

// Option configures an Orchestrator built by New.
type Option func(*config)

// WithGoRoutineLimit bounds how many ResolutionGroups the
// DownloadCoordinator may execute concurrently within one
// ResolveArtifacts call. Sequential (1) if never set or set <= 0.
func WithGoRoutineLimit(n int) Option {
	return func(c *config) { c.goRoutineLimit = n }
}

// WithSnapshotNormalization toggles the PathPolicy rewrite from a
// timestamped snapshot file to its baseVersion sibling name. Enabled
// by default.
func WithSnapshotNormalization(enabled bool) Option {
	return func(c *config) { c.snapshotNormalization = enabled }
}

// WithSimpleLRMInterop enables the legacy registration behavior
// described on locallookup.RegisterIfInterop. Disabled by default.
func WithSimpleLRMInterop(enabled bool) Option {
	return func(c *config) { c.simpleLRMInterop = enabled }
}

// WithEventDispatcher attaches the dispatcher lifecycle events are
// delivered to. event.Noop() is used if this option is never
// supplied.
func WithEventDispatcher(d artifact.EventDispatcher) Option {
	return func(c *config) { c.dispatcher = d }
}

// WithPostProcessors attaches post-processors run, in order, over the
// full result set once every request has either resolved or
// exhausted its candidates, before failures are aggregated.
func WithPostProcessors(pp ...artifact.PostProcessor) Option {
	return func(c *config) { c.postProcessors = append([]artifact.PostProcessor(nil), pp...) }
}
