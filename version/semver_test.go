package version_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c00ler/maven-resolver/artifact"
	"github.com/c00ler/maven-resolver/version"
)

type staticLister struct {
	versions map[string][]string
	err      error
}

func (l staticLister) ListVersions(_ context.Context, repo *artifact.RepositorySpec, _ artifact.Coordinate) ([]string, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.versions[repo.ID], nil
}

func TestResolveVersionExactPinSkipsLister(t *testing.T) {
	r := &version.SemverResolver{Lister: staticLister{}}
	request := &artifact.ArtifactRequest{
		Artifact: artifact.Artifact{Coordinate: artifact.Coordinate{Version: "1.2.3"}},
	}

	result, err := r.ResolveVersion(context.Background(), &artifact.Session{}, request)
	require.NoError(t, err)
	require.Equal(t, "1.2.3", result.Version)
	require.Nil(t, result.Repository)
	require.Equal(t, artifact.RepositoryKindUnknown, result.RepositoryKind)
}

func TestResolveVersionConstraintPicksHighestMatch(t *testing.T) {
	lister := staticLister{versions: map[string][]string{
		"central": {"1.0.0", "1.5.0", "2.0.0"},
	}}
	r := &version.SemverResolver{Lister: lister}
	request := &artifact.ArtifactRequest{
		Artifact:     artifact.Artifact{Coordinate: artifact.Coordinate{Version: "^1.0.0"}},
		Repositories: []*artifact.RepositorySpec{{ID: "central"}},
	}

	result, err := r.ResolveVersion(context.Background(), &artifact.Session{}, request)
	require.NoError(t, err)
	require.Equal(t, "1.5.0", result.Version)
	require.Equal(t, artifact.RepositoryKindRemote, result.RepositoryKind)
	require.Equal(t, "central", result.Repository.ID)
}

func TestResolveVersionTriesNextRepositoryOnNoMatch(t *testing.T) {
	lister := staticLister{versions: map[string][]string{
		"central":   {"0.9.0"},
		"snapshots": {"1.2.0"},
	}}
	r := &version.SemverResolver{Lister: lister}
	request := &artifact.ArtifactRequest{
		Artifact: artifact.Artifact{Coordinate: artifact.Coordinate{Version: ">=1.0.0"}},
		Repositories: []*artifact.RepositorySpec{
			{ID: "central"},
			{ID: "snapshots"},
		},
	}

	result, err := r.ResolveVersion(context.Background(), &artifact.Session{}, request)
	require.NoError(t, err)
	require.Equal(t, "1.2.0", result.Version)
	require.Equal(t, "snapshots", result.Repository.ID)
}

func TestResolveVersionNoMatchReturnsVersionError(t *testing.T) {
	lister := staticLister{versions: map[string][]string{"central": {"0.1.0"}}}
	r := &version.SemverResolver{Lister: lister}
	request := &artifact.ArtifactRequest{
		Artifact:     artifact.Artifact{Coordinate: artifact.Coordinate{Version: ">=1.0.0"}},
		Repositories: []*artifact.RepositorySpec{{ID: "central"}},
	}

	_, err := r.ResolveVersion(context.Background(), &artifact.Session{}, request)
	require.Error(t, err)
	require.ErrorIs(t, err, artifact.ErrVersion)
}

func TestResolveVersionInvalidConstraintReturnsVersionError(t *testing.T) {
	r := &version.SemverResolver{Lister: staticLister{}}
	request := &artifact.ArtifactRequest{
		Artifact: artifact.Artifact{Coordinate: artifact.Coordinate{Version: "not a version!!"}},
	}

	_, err := r.ResolveVersion(context.Background(), &artifact.Session{}, request)
	require.Error(t, err)
	require.ErrorIs(t, err, artifact.ErrVersion)
}

func TestResolveVersionListerErrorWraps(t *testing.T) {
	lister := staticLister{err: context.DeadlineExceeded}
	r := &version.SemverResolver{Lister: lister}
	request := &artifact.ArtifactRequest{
		Artifact:     artifact.Artifact{Coordinate: artifact.Coordinate{Version: ">=1.0.0"}},
		Repositories: []*artifact.RepositorySpec{{ID: "central"}},
	}

	_, err := r.ResolveVersion(context.Background(), &artifact.Session{}, request)
	require.Error(t, err)
	require.ErrorIs(t, err, artifact.ErrVersion)
}
