// Package artifact defines the data model, error kinds, and
// collaborator contracts shared by the artifact resolution
// orchestrator and its supporting packages (pathpolicy, filter,
// locallookup, groupscheduler, download, synccontext, event, version).
//
// It intentionally has no dependency on any of those packages: they
// depend on it, not the other way around, so that the top-level
// Orchestrator (package resolver) can wire them together without an
// import cycle.
package artifact
