// Package filter implements the pure accept/reject decisions that gate
// which remote repositories are even considered for an artifact:
// FilterGate (pluggable per-repository acceptance) and OfflineGate
// (session offline-mode enforcement). Both are side-effect-free;
// exception accumulation onto the caller's result is the caller's
// responsibility.
package filter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gobwas/glob"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/c00ler/maven-resolver/artifact"
)

// realm tags log records emitted by this package.
const realm = "filter"

// Gate narrows request.Repositories down to the subset an artifact may
// be sourced from, recording a FilteredOutError exception for every
// rejection. manager may be nil, meaning no filter is configured at
// all — Gate then returns candidates unchanged.
//
// Active reports whether a filter was actually consulted, and is also
// true when the manager fails to produce one (no candidate is kept
// then); callers need this to drive the locally-installed decision
// (see the locallookup package), since presence of a filter — not its
// verdict — changes that rule.
func Gate(ctx context.Context, manager artifact.FilterManager, session *artifact.Session, art artifact.Artifact, candidates []*artifact.RepositorySpec) (filtered []*artifact.RepositorySpec, active bool, exceptions []error) {
	if manager == nil {
		return candidates, false, nil
	}

	f, err := manager.FilterFor(ctx, session)
	if err != nil {
		return nil, true, []error{fmt.Errorf("resolving repository filter failed: %w", err)}
	}
	if f == nil {
		return candidates, false, nil
	}

	logger := slogcontext.FromCtx(ctx).With(slog.String("realm", realm))

	kept := make([]*artifact.RepositorySpec, 0, len(candidates))
	for _, repo := range candidates {
		decision := f.Accept(ctx, repo, art)
		if decision.Accepted {
			kept = append(kept, repo)
			continue
		}

		logger.Log(ctx, slog.LevelDebug, "repository rejected by filter",
			slog.String("repository", repo.ID),
			slog.String("artifact", art.String()),
			slog.String("reason", decision.Reason),
		)
		exceptions = append(exceptions, &artifact.FilteredOutError{
			Artifact:   art.Coordinate,
			Repository: repo,
			Reason:     decision.Reason,
		})
	}

	return kept, true, exceptions
}

// OfflineCheck returns an exception for repo if the session is offline
// with respect to it, or nil if repo may be reached. A nil controller
// means offline enforcement is not configured, so every repository is
// reachable.
func OfflineCheck(ctx context.Context, controller artifact.OfflineController, session *artifact.Session, art artifact.Artifact, repo *artifact.RepositorySpec) error {
	if controller == nil {
		return nil
	}
	if err := controller.CheckOffline(ctx, session, repo); err != nil {
		return &artifact.NotFoundError{
			Artifact:   art.Coordinate,
			Repository: repo,
			Reason:     err.Error(),
		}
	}
	return nil
}

// Glob is a RemoteRepositoryFilter that matches "repositoryID:group:id"
// subjects against an ordered list of glob patterns (github.com/gobwas/glob
// syntax). The first matching pattern's verdict wins; an artifact that
// matches no pattern is rejected.
type Glob struct {
	rules []globRule
}

type globRule struct {
	pattern string
	glob    glob.Glob
	accept  bool
}

// NewGlob compiles patterns in order. A pattern prefixed with "!" is a
// rejecting rule; otherwise it accepts. Patterns are matched against
// "repositoryID:group:artifactID".
func NewGlob(patterns []string) (*Glob, error) {
	rules := make([]globRule, 0, len(patterns))
	for _, p := range patterns {
		accept := true
		pattern := p
		if len(pattern) > 0 && pattern[0] == '!' {
			accept = false
			pattern = pattern[1:]
		}
		g, err := glob.Compile(pattern, ':')
		if err != nil {
			return nil, fmt.Errorf("compiling filter pattern %q failed: %w", p, err)
		}
		rules = append(rules, globRule{pattern: p, glob: g, accept: accept})
	}
	return &Glob{rules: rules}, nil
}

func (g *Glob) Accept(_ context.Context, repo *artifact.RepositorySpec, art artifact.Artifact) artifact.FilterDecision {
	subject := fmt.Sprintf("%s:%s:%s", repo.ID, art.Group, art.ID)
	for _, rule := range g.rules {
		if rule.glob.Match(subject) {
			if rule.accept {
				return artifact.Accepted()
			}
			return artifact.Rejected(fmt.Sprintf("matched excluding pattern %q", rule.pattern))
		}
	}
	return artifact.Rejected("matched no configured pattern")
}

// StaticOfflineController implements artifact.OfflineController purely
// from Session.Offline: every repository is unreachable when offline,
// reachable otherwise. Suitable for the common case where offline mode
// is a blanket, not a per-repository, setting.
type StaticOfflineController struct{}

func (StaticOfflineController) CheckOffline(_ context.Context, session *artifact.Session, repo *artifact.RepositorySpec) error {
	if session != nil && session.Offline {
		return fmt.Errorf("%w: repository %s", artifact.ErrOffline, repo.ID)
	}
	return nil
}
