// Package version implements artifact.VersionResolver against
// semantic-version constraints, delegating the actual enumeration of
// available versions to a pluggable lister (typically backed by
// remote repository metadata).
package version

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/c00ler/maven-resolver/artifact"
)

// VersionLister enumerates the versions a repository advertises for a
// coordinate, without resolving a specific one.
type VersionLister interface {
	ListVersions(ctx context.Context, repository *artifact.RepositorySpec, coordinate artifact.Coordinate) ([]string, error)
}

// SemverResolver implements artifact.VersionResolver by treating a
// request's Version field as a semantic-version constraint (e.g.
// "^1.2", ">=1.0, <2.0") when it fails to parse as an exact version,
// resolving it against the versions listed across the request's
// candidate repositories in order.
//
// A Version that parses as an exact semantic version is returned
// as-is without consulting the lister, pinned to no particular
// repository (RepositoryKindUnknown) so every candidate remains in
// play for the download planning step.
type SemverResolver struct {
	Lister VersionLister
}

func (r *SemverResolver) ResolveVersion(ctx context.Context, _ *artifact.Session, request *artifact.ArtifactRequest) (artifact.VersionResult, error) {
	raw := request.Artifact.Version

	// A strict x.y.z version is a pin, not a range: return it
	// unchanged without consulting the lister or any repository.
	if _, err := semver.StrictNewVersion(raw); err == nil {
		return artifact.VersionResult{Version: raw}, nil
	}

	constraint, err := semver.NewConstraint(raw)
	if err != nil {
		return artifact.VersionResult{}, &artifact.VersionError{
			Artifact: request.Artifact.Coordinate,
			Cause:    fmt.Errorf("%q is neither a version nor a valid constraint: %w", raw, err),
		}
	}

	for _, repo := range request.Repositories {
		versions, err := r.Lister.ListVersions(ctx, repo, request.Artifact.Coordinate)
		if err != nil {
			return artifact.VersionResult{}, &artifact.VersionError{
				Artifact: request.Artifact.Coordinate,
				Cause:    fmt.Errorf("listing versions from repository %s failed: %w", repo.ID, err),
			}
		}

		best, ok := highestMatching(versions, constraint)
		if !ok {
			continue
		}

		return artifact.VersionResult{
			Version:        best,
			Repository:     repo,
			RepositoryKind: artifact.RepositoryKindRemote,
		}, nil
	}

	return artifact.VersionResult{}, &artifact.VersionError{
		Artifact: request.Artifact.Coordinate,
		Cause:    fmt.Errorf("no version satisfying %q found in any candidate repository", raw),
	}
}

func highestMatching(versions []string, constraint *semver.Constraints) (string, bool) {
	var best *semver.Version
	var bestRaw string
	for _, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if !constraint.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}
	return bestRaw, best != nil
}
