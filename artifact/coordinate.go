package artifact

import (
	"fmt"
	"maps"
	"regexp"
	"strings"
)

// LocalPathProperty is the well-known property key that, when set on an
// Artifact, marks it as pre-hosted: the caller supplies the file
// directly and no tier of resolution (workspace, local cache, remote
// repository) is consulted for it.
const LocalPathProperty = "local_path"

// timestampedSnapshot matches a Maven-style timestamped snapshot
// version, e.g. "1.0-20240101.120000-3".
var timestampedSnapshot = regexp.MustCompile(`^(.+)-(\d{8}\.\d{6})-(\d+)$`)

// Coordinate identifies an artifact uniquely within a repository.
// Coordinate is a value type: every derivation step (version
// resolution, file materialization) produces a new Artifact rather
// than mutating one in place.
type Coordinate struct {
	Group      string
	ID         string
	Classifier string
	Extension  string

	// Version is the artifact's resolved or requested version. For
	// snapshots this may be a timestamped wire version
	// ("1.0-20240101.120000-3") distinct from BaseVersion.
	Version string

	// BaseVersion is the artifact's logical version
	// ("1.0-SNAPSHOT"). Downstream tooling addresses snapshots by
	// BaseVersion; Version is a wire concern.
	BaseVersion string
}

// String renders the coordinate as "group:id:extension:classifier:version",
// omitting the classifier segment when empty.
func (c Coordinate) String() string {
	if c.Classifier == "" {
		return fmt.Sprintf("%s:%s:%s:%s", c.Group, c.ID, c.Extension, c.Version)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", c.Group, c.ID, c.Extension, c.Classifier, c.Version)
}

// IsSnapshot reports whether the coordinate's Version denotes a
// mutable development line, either because it carries the literal
// "-SNAPSHOT" suffix or because it is a timestamped snapshot build
// ("1.0-20240101.120000-3").
func (c Coordinate) IsSnapshot() bool {
	return strings.HasSuffix(c.Version, "-SNAPSHOT") || timestampedSnapshot.MatchString(c.Version)
}

// Artifact is the mutable-by-replacement value resolved by the
// orchestrator: a Coordinate plus arbitrary caller properties and,
// once resolution succeeds, the local file it was materialized to.
type Artifact struct {
	Coordinate

	// Properties carries caller-supplied metadata, including the
	// well-known LocalPathProperty pre-hosting marker.
	Properties map[string]string

	// File is the resolved local path. Empty until resolution
	// succeeds.
	File string
}

// WithVersion returns a copy of the artifact with Version replaced,
// as produced by the version-resolution step of the pipeline.
func (a Artifact) WithVersion(version string) Artifact {
	a.Version = version
	return a
}

// WithFile returns a copy of the artifact with File set, as produced
// by materialization (workspace hit, local cache hit, or download).
func (a Artifact) WithFile(file string) Artifact {
	a.File = file
	return a
}

// LocalPath returns the pre-hosted file path set via LocalPathProperty
// and whether it was set at all.
func (a Artifact) LocalPath() (string, bool) {
	path, ok := a.Properties[LocalPathProperty]
	return path, ok
}

// Clone returns a deep copy of the artifact, duplicating Properties so
// that callers cannot observe mutation through a shared map.
func (a Artifact) Clone() Artifact {
	a.Properties = maps.Clone(a.Properties)
	return a
}
