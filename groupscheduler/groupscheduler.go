// Package groupscheduler clusters the per-request download candidates
// of one resolve call into ResolutionGroups: batches of items that
// share a compatible remote repository and can therefore be served by
// a single connector acquisition and a single batched get.
package groupscheduler

import "github.com/c00ler/maven-resolver/artifact"

// Item is one artifact's download candidacy against a single
// repository, placed into a Group by Scheduler.Place. The Resolved
// pointer is shared across every Item — regardless of which Group it
// ends up in — that refers to the same logical artifact, so that the
// first group to materialize the artifact causes every later group to
// skip it.
type Item struct {
	Artifact   artifact.Artifact
	Request    *artifact.ArtifactRequest
	Result     *artifact.ArtifactResult
	Repository *artifact.RepositorySpec
	Local      artifact.LocalArtifactResult

	// Resolved is shared by every Item for the same logical artifact
	// across every Group. Once any group's DownloadCoordinator
	// successfully materializes the artifact, this is set true and
	// every other pending Item for it is skipped.
	Resolved *bool
}

// Group is an ordered batch of Items destined for one repository.
type Group struct {
	// Repository is the representative repository: the first one
	// placed that created this group.
	Repository *artifact.RepositorySpec
	// Mirrors holds any further repositories later found compatible
	// with Repository and merged into this group, in placement order.
	// A connector may satisfy a download from any of them.
	Mirrors []*artifact.RepositorySpec
	Items   []Item
}

// Repositories returns Repository followed by Mirrors, the full
// mirrored candidate list a connector may source downloads from.
func (g *Group) Repositories() []*artifact.RepositorySpec {
	return append([]*artifact.RepositorySpec{g.Repository}, g.Mirrors...)
}

// Scheduler maintains the ordered group list for a single resolve
// call. It is not safe for concurrent use; the orchestrator drives it
// from a single goroutine during the sequential per-request planning
// pass (see the root package).
type Scheduler struct {
	groups []*Group
	cursor int
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Groups returns the accumulated groups in placement order.
func (s *Scheduler) Groups() []*Group {
	return s.groups
}

// Place appends item to the group its repository is compatible with.
//
// The search starts at the scheduler's current cursor position, not
// from the start of the group list: this preserves the caller's
// repository preference order within one request (earlier repos of
// the same request are scanned first) while still letting later
// repositories of the same request join the group just created for an
// earlier one. Groups before the cursor are not searched, so a
// repository whose compatibility class only has a group there gets a
// new group of its own; the group count can therefore exceed the
// number of distinct compatibility classes.
//
// StartRequest must be called between requests to reset the cursor so
// that the first repository of each new request is scanned from the
// beginning of the group list.
func (s *Scheduler) Place(repo *artifact.RepositorySpec, item Item) {
	for i := s.cursor; i < len(s.groups); i++ {
		if s.groups[i].Repository.CompatibleWith(repo) {
			group := s.groups[i]
			group.Items = append(group.Items, item)
			if repo != group.Repository && !containsRepo(group.Mirrors, repo) {
				group.Mirrors = append(group.Mirrors, repo)
			}
			return
		}
	}

	s.groups = append(s.groups, &Group{Repository: repo, Items: []Item{item}})
	// Position the cursor at the newly created group so a subsequent
	// repository of the same request can still land in it.
	s.cursor = len(s.groups) - 1
}

// StartRequest resets the cursor to the start of the group list. Call
// this before placing the first repository candidate of each new
// request.
func (s *Scheduler) StartRequest() {
	s.cursor = 0
}

func containsRepo(repos []*artifact.RepositorySpec, repo *artifact.RepositorySpec) bool {
	for _, r := range repos {
		if r == repo {
			return true
		}
	}
	return false
}
