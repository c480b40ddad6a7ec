package synccontext

import (
	"os"
	"slices"
	"strings"
	"time"
)

// lockRetryInterval is the polling interval flock.TryLockContext uses
// while waiting for a contended lock to become available.
const lockRetryInterval = 50 * time.Millisecond

// sanitize maps a key to a safe lock file name. Keys are artifact
// subjects (coordinate strings), which may contain path separators.
func sanitize(key string) string {
	r := strings.NewReplacer("/", "_", ":", "_", "\\", "_")
	return r.Replace(key)
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// sortedUnique sorts and deduplicates keys without mutating the
// caller's slice. A batch may name the same artifact subject more than
// once; locking it once is both sufficient and required (a duplicate
// exclusive acquisition of the same key would deadlock on itself).
func sortedUnique(keys []string) []string {
	sorted := append([]string(nil), keys...)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
