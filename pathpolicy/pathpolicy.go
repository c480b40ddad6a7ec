// Package pathpolicy implements snapshot-version normalization: the
// rule that rewrites a timestamped snapshot file
// ("foo-1.0-20240101.120000-3.jar") to its logical baseVersion sibling
// ("foo-1.0-SNAPSHOT.jar") the first time it is seen, and recognizes
// an already-normalized sibling on every subsequent call so repeated
// resolution performs no redundant copy.
package pathpolicy

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/c00ler/maven-resolver/artifact"
)

// Config carries the resolver-level options that affect path policy.
type Config struct {
	// SnapshotNormalization enables the rewrite described above.
	// Default true.
	SnapshotNormalization bool
}

// Normalize returns the file that should be exposed to the caller for
// an artifact materialized at sourceFile.
//
// If the artifact is a snapshot, its Version differs from its
// BaseVersion, and normalization is enabled, the destination filename
// is computed by substituting BaseVersion for Version in sourceFile's
// base name; the file is copied only if the destination is missing or
// its size/mtime differ from the source, and the destination's mtime
// is then set equal to the source's — this equal-size-and-mtime check
// is exactly the idempotence key: two back-to-back calls over an
// unchanged source perform a single copy, not two.
//
// Otherwise sourceFile is returned unchanged.
func Normalize(cfg Config, art artifact.Artifact, sourceFile string) (string, error) {
	if !cfg.SnapshotNormalization || !art.IsSnapshot() || art.Version == art.BaseVersion {
		return sourceFile, nil
	}

	dir := filepath.Dir(sourceFile)
	base := filepath.Base(sourceFile)
	destBase := strings.Replace(base, art.Version, art.BaseVersion, 1)
	if destBase == base {
		// Version substring not found in the filename; nothing to
		// normalize against.
		return sourceFile, nil
	}
	dest := filepath.Join(dir, destBase)

	upToDate, err := destinationUpToDate(sourceFile, dest)
	if err != nil {
		return "", &artifact.TransferError{Artifact: art.Coordinate, Cause: err}
	}
	if upToDate {
		return dest, nil
	}

	if err := copyWithMTime(sourceFile, dest); err != nil {
		return "", &artifact.TransferError{Artifact: art.Coordinate, Cause: err}
	}
	return dest, nil
}

func destinationUpToDate(source, dest string) (bool, error) {
	srcInfo, err := os.Stat(source)
	if err != nil {
		return false, fmt.Errorf("stat source %q failed: %w", source, err)
	}

	destInfo, err := os.Stat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat destination %q failed: %w", dest, err)
	}

	return destInfo.Size() == srcInfo.Size() && destInfo.ModTime().Equal(srcInfo.ModTime()), nil
}

func copyWithMTime(source, dest string) (err error) {
	srcInfo, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat source %q failed: %w", source, err)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening source %q failed: %w", source, err)
	}
	defer func() {
		err = errors.Join(err, in.Close())
	}()

	if mkErr := os.MkdirAll(filepath.Dir(dest), 0o755); mkErr != nil {
		return fmt.Errorf("creating destination directory failed: %w", mkErr)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating destination %q failed: %w", dest, err)
	}

	if _, copyErr := io.Copy(out, in); copyErr != nil {
		return errors.Join(fmt.Errorf("copying %q to %q failed: %w", source, dest, copyErr), out.Close())
	}
	if closeErr := out.Close(); closeErr != nil {
		return fmt.Errorf("closing destination %q failed: %w", dest, closeErr)
	}

	if chErr := os.Chtimes(dest, srcInfo.ModTime(), srcInfo.ModTime()); chErr != nil {
		return fmt.Errorf("setting mtime on %q failed: %w", dest, chErr)
	}

	return nil
}
