package artifact

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. The error types below each wrap one of these so
// callers can classify a failure with errors.Is without depending on a
// concrete error type. Failures reported by collaborators (LRM,
// update-check manager, filter manager, sync context, post-processors)
// are wrapped with context only and carry no sentinel.
var (
	// ErrNotFound means no tier (workspace, local cache, remote
	// repository) produced the artifact, offline mode prevented
	// access, or a pre-hosted artifact's file was missing.
	ErrNotFound = errors.New("artifact not found")

	// ErrFilteredOut means a remote repository filter rejected a
	// candidate repository for an artifact.
	ErrFilteredOut = errors.New("repository filtered out")

	// ErrTransfer means a connector failed, a filesystem copy failed,
	// or no connector was available for a repository.
	ErrTransfer = errors.New("transfer failed")

	// ErrVersion means the external version resolver failed.
	ErrVersion = errors.New("version resolution failed")

	// ErrOffline means a repository was reachable only in online mode
	// and the session is offline.
	ErrOffline = errors.New("repository unreachable while offline")

	// ErrNoConnector means the connector provider produced no
	// connector for a repository.
	ErrNoConnector = errors.New("no connector available")
)

// NotFoundError reports that no artifact could be produced for a
// coordinate, optionally attributing the miss to a specific
// repository.
type NotFoundError struct {
	Artifact   Coordinate
	Repository *RepositorySpec
	Reason     string
}

func (e *NotFoundError) Error() string {
	if e.Repository == nil {
		if e.Reason != "" {
			return fmt.Sprintf("artifact %s not found: %s", e.Artifact, e.Reason)
		}
		return fmt.Sprintf("artifact %s not found", e.Artifact)
	}
	if e.Reason != "" {
		return fmt.Sprintf("artifact %s not found in repository %s (%s): %s", e.Artifact, e.Repository.ID, e.Repository.URL, e.Reason)
	}
	return fmt.Sprintf("artifact %s not found in repository %s (%s)", e.Artifact, e.Repository.ID, e.Repository.URL)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// FilteredOutError reports that a repository was excluded from
// consideration for an artifact by a RemoteRepositoryFilter.
type FilteredOutError struct {
	Artifact   Coordinate
	Repository *RepositorySpec
	Reason     string
}

func (e *FilteredOutError) Error() string {
	return fmt.Sprintf("repository %s filtered out for artifact %s: %s", e.Repository.ID, e.Artifact, e.Reason)
}

func (e *FilteredOutError) Unwrap() error { return ErrFilteredOut }

// TransferError reports a connector or filesystem failure while
// materializing an artifact.
type TransferError struct {
	Artifact   Coordinate
	Repository *RepositorySpec
	Cause      error
}

func (e *TransferError) Error() string {
	if e.Repository == nil {
		return fmt.Sprintf("transferring artifact %s failed: %s", e.Artifact, e.Cause)
	}
	return fmt.Sprintf("transferring artifact %s from repository %s failed: %s", e.Artifact, e.Repository.ID, e.Cause)
}

func (e *TransferError) Unwrap() []error { return []error{ErrTransfer, e.Cause} }

// VersionError reports a failure from the external version resolver.
type VersionError struct {
	Artifact Coordinate
	Cause    error
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("resolving version for artifact %s failed: %s", e.Artifact, e.Cause)
}

func (e *VersionError) Unwrap() []error { return []error{ErrVersion, e.Cause} }

// ResolutionFailure is the aggregate error returned when one or more
// requests in a batch failed to resolve. It carries every result,
// successful or not, in request order.
type ResolutionFailure struct {
	Results []*ArtifactResult
}

func (e *ResolutionFailure) Error() string {
	failed := 0
	for _, r := range e.Results {
		if !r.Successful() {
			failed++
		}
	}
	return fmt.Sprintf("artifact resolution failed for %d of %d requests", failed, len(e.Results))
}

// Unresolved returns the subset of e.Results that are not successful.
func (e *ResolutionFailure) Unresolved() []*ArtifactResult {
	var out []*ArtifactResult
	for _, r := range e.Results {
		if !r.Successful() {
			out = append(out, r)
		}
	}
	return out
}
