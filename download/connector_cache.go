package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/c00ler/maven-resolver/artifact"
)

// CachingConnectorProvider wraps an artifact.ConnectorProvider and
// reuses one Connector per distinct RepositorySpec across the lifetime
// of the cache, keyed by the canonical JSON encoding of the
// specification. Two RepositorySpec values that are structurally
// identical but distinct pointers (as happens when the same mirror
// repository is supplied by two different requests in a batch) share
// one connector instead of opening two.
//
// Connectors handed out by NewConnector no-op their Close: the
// DownloadCoordinator closes every connector it acquires on every exit
// path (per the Connector contract), but a cached connector must
// survive past the group that first acquired it. Real release happens
// only when the cache's own Close runs, once per resolve call.
type CachingConnectorProvider struct {
	inner artifact.ConnectorProvider

	mu         sync.RWMutex
	connectors map[string]artifact.Connector
}

// nonClosingConnector defers the real Close to the cache and no-ops
// every call a caller makes directly.
type nonClosingConnector struct {
	artifact.Connector
}

func (nonClosingConnector) Close(context.Context) error { return nil }

// NewCachingConnectorProvider wraps inner with a cache. The cache is
// scoped to one resolve call: callers should construct a fresh
// instance per call and Close it afterward.
func NewCachingConnectorProvider(inner artifact.ConnectorProvider) *CachingConnectorProvider {
	return &CachingConnectorProvider{
		inner:      inner,
		connectors: make(map[string]artifact.Connector),
	}
}

func (p *CachingConnectorProvider) NewConnector(ctx context.Context, session *artifact.Session, repository *artifact.RepositorySpec) (artifact.Connector, error) {
	key, err := canonicalKey(repository)
	if err != nil {
		return nil, fmt.Errorf("computing cache key for repository %q failed: %w", repository.ID, err)
	}

	p.mu.RLock()
	if c, ok := p.connectors[key]; ok {
		p.mu.RUnlock()
		return nonClosingConnector{c}, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.connectors[key]; ok {
		return nonClosingConnector{c}, nil
	}

	c, err := p.inner.NewConnector(ctx, session, repository)
	if err != nil {
		return nil, err
	}
	p.connectors[key] = c
	return nonClosingConnector{c}, nil
}

// Close closes every connector created through this cache, joining any
// close failures. The connectors returned to callers via NewConnector
// no-op their own Close, so this is the only path that actually
// releases them.
func (p *CachingConnectorProvider) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, c := range p.connectors {
		if err := c.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.connectors = make(map[string]artifact.Connector)
	return errors.Join(errs...)
}

func canonicalKey(repository *artifact.RepositorySpec) (string, error) {
	data, err := json.Marshal(repository)
	if err != nil {
		return "", fmt.Errorf("marshaling repository spec to json failed: %w", err)
	}
	canonical, err := jsoncanonicalizer.Transform(data)
	if err != nil {
		return "", fmt.Errorf("canonicalizing repository spec json failed: %w", err)
	}
	return string(canonical), nil
}
