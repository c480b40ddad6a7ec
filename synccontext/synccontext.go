// Package synccontext implements the shared/exclusive scoped-lock
// abstraction the orchestrator uses to coordinate concurrent resolvers
// against the same local repository.
//
// Escalating from shared to exclusive is never an in-place upgrade: it
// is always a release of the shared acquisition followed by a fresh
// exclusive acquisition (close+reopen), so that no holder ever
// observes another holder's exclusive critical section through stale
// state acquired while only holding a shared lock.
package synccontext

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/flock"
)

// Context is a scoped shared/exclusive lock keyed by artifact subject
// identity. Implementations must guarantee release on every exit path,
// including when Acquire itself fails partway through.
type Context interface {
	// AcquireShared locks every key for concurrent read access. The
	// returned Release must be called exactly once.
	AcquireShared(ctx context.Context, keys []string) (Release, error)

	// AcquireExclusive locks every key for exclusive access. The
	// returned Release must be called exactly once.
	AcquireExclusive(ctx context.Context, keys []string) (Release, error)
}

// Release drops a previously acquired lock set.
type Release func()

// InMemory is a single-process Context backed by one *sync.RWMutex per
// key, created lazily and reference-counted so unreferenced keys can
// be garbage collected. Suitable when the local repository is only
// ever touched by goroutines within this process.
type InMemory struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.RWMutex
	refs int
}

// NewInMemory creates an in-process sync context.
func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[string]*entry)}
}

func (c *InMemory) AcquireShared(_ context.Context, keys []string) (Release, error) {
	sorted, entries := c.ref(keys)
	for _, e := range entries {
		e.mu.RLock()
	}
	return c.release(sorted, entries, false), nil
}

func (c *InMemory) AcquireExclusive(_ context.Context, keys []string) (Release, error) {
	sorted, entries := c.ref(keys)
	for _, e := range entries {
		e.mu.Lock()
	}
	return c.release(sorted, entries, true), nil
}

// ref returns the (created-on-demand) entries for keys, sorted and
// deduplicated so that overlapping acquisitions across calls always
// lock in the same order and cannot deadlock, and so a batch naming
// the same subject twice does not lock its mutex twice.
func (c *InMemory) ref(keys []string) ([]string, []*entry) {
	sorted := sortedUnique(keys)

	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]*entry, 0, len(sorted))
	for _, k := range sorted {
		e, ok := c.entries[k]
		if !ok {
			e = &entry{}
			c.entries[k] = e
		}
		e.refs++
		entries = append(entries, e)
	}
	return sorted, entries
}

func (c *InMemory) release(keys []string, entries []*entry, exclusive bool) Release {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, e := range entries {
				if exclusive {
					e.mu.Unlock()
				} else {
					e.mu.RUnlock()
				}
				e.refs--
				if e.refs == 0 {
					delete(c.entries, keys[i])
				}
			}
		})
	}
}

// FileLock is a cross-process Context backed by advisory file locks
// under a directory, one lock file per key. It composes correctly
// across separate OS processes sharing one on-disk local repository,
// unlike InMemory which only coordinates goroutines within this
// process.
type FileLock struct {
	dir string
}

// NewFileLock creates a cross-process sync context whose lock files
// live under dir, creating dir if necessary.
func NewFileLock(dir string) (*FileLock, error) {
	if err := ensureDir(dir); err != nil {
		return nil, fmt.Errorf("creating sync context lock directory %q failed: %w", dir, err)
	}
	return &FileLock{dir: dir}, nil
}

func (c *FileLock) AcquireShared(ctx context.Context, keys []string) (Release, error) {
	return c.acquire(ctx, keys, false)
}

func (c *FileLock) AcquireExclusive(ctx context.Context, keys []string) (Release, error) {
	return c.acquire(ctx, keys, true)
}

func (c *FileLock) acquire(ctx context.Context, keys []string, exclusive bool) (release Release, err error) {
	sorted := sortedUnique(keys)

	locks := make([]*flock.Flock, 0, len(sorted))
	defer func() {
		if err != nil {
			for _, l := range locks {
				_ = l.Unlock()
			}
		}
	}()

	for _, k := range sorted {
		l := flock.New(c.lockPath(k))
		var ok bool
		if exclusive {
			ok, err = l.TryLockContext(ctx, lockRetryInterval)
		} else {
			ok, err = l.TryRLockContext(ctx, lockRetryInterval)
		}
		if err != nil {
			return nil, fmt.Errorf("acquiring lock for %q failed: %w", k, err)
		}
		if !ok {
			return nil, fmt.Errorf("acquiring lock for %q failed: context done before lock became available", k)
		}
		locks = append(locks, l)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, l := range locks {
				_ = l.Unlock()
			}
		})
	}, nil
}

func (c *FileLock) lockPath(key string) string {
	return fmt.Sprintf("%s/%s.lock", c.dir, sanitize(key))
}
