package pathpolicy_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/c00ler/maven-resolver/artifact"
	"github.com/c00ler/maven-resolver/pathpolicy"
)

func snapshotArtifact() artifact.Artifact {
	return artifact.Artifact{
		Coordinate: artifact.Coordinate{
			Group:       "com.example",
			ID:          "foo",
			Extension:   "jar",
			Version:     "1.0-20240101.120000-3",
			BaseVersion: "1.0-SNAPSHOT",
		},
	}
}

func TestNormalizeNonSnapshotIsNoop(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "foo-1.0.jar")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0o644))

	art := artifact.Artifact{
		Coordinate: artifact.Coordinate{ID: "foo", Version: "1.0", BaseVersion: "1.0"},
	}

	out, err := pathpolicy.Normalize(pathpolicy.Config{SnapshotNormalization: true}, art, source)
	require.NoError(t, err)
	require.Equal(t, source, out)
}

func TestNormalizeDisabledIsNoop(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "foo-1.0-20240101.120000-3.jar")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0o644))

	out, err := pathpolicy.Normalize(pathpolicy.Config{SnapshotNormalization: false}, snapshotArtifact(), source)
	require.NoError(t, err)
	require.Equal(t, source, out)
}

func TestNormalizeCopiesToBaseVersionFilename(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "foo-1.0-20240101.120000-3.jar")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0o644))

	wantDest := filepath.Join(dir, "foo-1.0-SNAPSHOT.jar")

	out, err := pathpolicy.Normalize(pathpolicy.Config{SnapshotNormalization: true}, snapshotArtifact(), source)
	require.NoError(t, err)
	require.Equal(t, wantDest, out)

	data, err := os.ReadFile(wantDest)
	require.NoError(t, err)
	require.Equal(t, "content", string(data))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "foo-1.0-20240101.120000-3.jar")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0o644))

	cfg := pathpolicy.Config{SnapshotNormalization: true}
	art := snapshotArtifact()

	dest, err := pathpolicy.Normalize(cfg, art, source)
	require.NoError(t, err)

	info1, err := os.Stat(dest)
	require.NoError(t, err)

	// A second call over an unchanged source must not rewrite the
	// destination: mtime must be untouched.
	time.Sleep(10 * time.Millisecond)
	dest2, err := pathpolicy.Normalize(cfg, art, source)
	require.NoError(t, err)
	require.Equal(t, dest, dest2)

	info2, err := os.Stat(dest)
	require.NoError(t, err)
	require.Equal(t, info1.ModTime(), info2.ModTime())
}

func TestNormalizeRecopiesWhenDestinationStale(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "foo-1.0-20240101.120000-3.jar")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0o644))

	cfg := pathpolicy.Config{SnapshotNormalization: true}
	art := snapshotArtifact()

	dest, err := pathpolicy.Normalize(cfg, art, source)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0o644))

	// Force source to look newer than the now-stale destination.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(source, future, future))

	_, err = pathpolicy.Normalize(cfg, art, source)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "content", string(data))
}

func TestNormalizeMissingSourceReturnsTransferError(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "foo-1.0-20240101.120000-3.jar")

	_, err := pathpolicy.Normalize(pathpolicy.Config{SnapshotNormalization: true}, snapshotArtifact(), source)
	require.Error(t, err)

	var transferErr *artifact.TransferError
	require.ErrorAs(t, err, &transferErr)
}
