package download_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c00ler/maven-resolver/artifact"
	"github.com/c00ler/maven-resolver/download"
)

type countingConnectorProvider struct {
	calls  int
	closed int
}

func (p *countingConnectorProvider) NewConnector(context.Context, *artifact.Session, *artifact.RepositorySpec) (artifact.Connector, error) {
	p.calls++
	return &closeCountingConnector{provider: p}, nil
}

// closeCountingConnector records every Close on its provider.
type closeCountingConnector struct {
	fakeConnector
	provider *countingConnectorProvider
}

func (c *closeCountingConnector) Close(context.Context) error {
	c.provider.closed++
	return nil
}

func TestCachingConnectorProviderReusesConnectorForEqualSpec(t *testing.T) {
	inner := &countingConnectorProvider{}
	cache := download.NewCachingConnectorProvider(inner)

	repo1 := &artifact.RepositorySpec{ID: "central", URL: "https://repo1.maven.org"}
	repo2 := &artifact.RepositorySpec{ID: "central", URL: "https://repo1.maven.org"}

	_, err := cache.NewConnector(context.Background(), &artifact.Session{}, repo1)
	require.NoError(t, err)
	_, err = cache.NewConnector(context.Background(), &artifact.Session{}, repo2)
	require.NoError(t, err)

	require.Equal(t, 1, inner.calls)
}

func TestCachingConnectorProviderDistinctSpecsGetDistinctConnectors(t *testing.T) {
	inner := &countingConnectorProvider{}
	cache := download.NewCachingConnectorProvider(inner)

	_, err := cache.NewConnector(context.Background(), &artifact.Session{}, &artifact.RepositorySpec{ID: "central"})
	require.NoError(t, err)
	_, err = cache.NewConnector(context.Background(), &artifact.Session{}, &artifact.RepositorySpec{ID: "snapshots"})
	require.NoError(t, err)

	require.Equal(t, 2, inner.calls)
}

func TestCachingConnectorProviderCloseClosesAll(t *testing.T) {
	inner := &countingConnectorProvider{}
	cache := download.NewCachingConnectorProvider(inner)

	_, err := cache.NewConnector(context.Background(), &artifact.Session{}, &artifact.RepositorySpec{ID: "central"})
	require.NoError(t, err)
	_, err = cache.NewConnector(context.Background(), &artifact.Session{}, &artifact.RepositorySpec{ID: "snapshots"})
	require.NoError(t, err)

	require.NoError(t, cache.Close(context.Background()))
	require.Equal(t, 2, inner.closed)
}
