// Package resolver resolves opaque artifact coordinates to concrete
// files on the local filesystem.
//
// A caller submits a batch of [ArtifactRequest] values to an
// [Orchestrator]; each request is resolved, in order, by consulting an
// in-process workspace, a local on-disk repository (cache), and the
// request's candidate remote repositories. The orchestrator
// deduplicates concurrent resolutions against the same local
// repository via a two-phase shared/exclusive lock (see package
// synccontext), clusters remote downloads by compatible repository
// (see package groupscheduler), and applies filter, offline, and
// snapshot-normalization policy along the way (see packages filter and
// pathpolicy).
package resolver
