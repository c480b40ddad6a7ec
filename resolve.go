package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/c00ler/maven-resolver/artifact"
	"github.com/c00ler/maven-resolver/download"
	"github.com/c00ler/maven-resolver/groupscheduler"
)

const realm = "resolver"

// Orchestrator resolves batches of ArtifactRequests to local files,
// coordinating the workspace, local-cache, and remote-repository
// tiers behind a two-phase shared/exclusive lock. Construct one with
// New; the zero value is not usable.
type Orchestrator struct {
	Collaborators Collaborators

	config   config
	download *download.Coordinator
}

// New validates collaborators and applies opts, returning a ready
// Orchestrator.
func New(collaborators Collaborators, opts ...Option) (*Orchestrator, error) {
	if err := collaborators.validate(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Orchestrator{
		Collaborators: collaborators,
		config:        cfg,
		download: &download.Coordinator{
			Connectors:         collaborators.Connectors,
			RepositoryManager:  collaborators.RepositoryManager,
			UpdateCheckManager: collaborators.UpdateCheckManager,
			LRM:                collaborators.LRM,
			Dispatcher:         cfg.dispatcher,
			PathPolicy:         cfg.pathPolicy(),
			GoRoutineLimit:     cfg.goRoutineLimit,
		},
	}, nil
}

// ResolveArtifact resolves a single request. It returns the result
// even on failure, alongside the error, so a caller uninterested in
// ResolutionFailure's aggregate form can still inspect why.
func (o *Orchestrator) ResolveArtifact(ctx context.Context, session *artifact.Session, request *artifact.ArtifactRequest) (*artifact.ArtifactResult, error) {
	results, err := o.ResolveArtifacts(ctx, session, []*artifact.ArtifactRequest{request})
	if err != nil {
		var failure *artifact.ResolutionFailure
		if errors.As(err, &failure) {
			return failure.Results[0], err
		}
		return nil, err
	}
	return results[0], nil
}

// ResolveArtifacts resolves a batch of requests:
//
//  1. Requests carrying a pre-hosted local_path artifact are settled
//     immediately, without participating in locking, ARTIFACT_RESOLVING,
//     or any collaborator call; they still go through post-processing
//     and receive ARTIFACT_RESOLVED in step 4.
//  2. The remaining requests' coordinates are acquired under a shared
//     sync-context lock; ARTIFACT_RESOLVING is emitted for each, then
//     every request runs the per-request pipeline (see pipeline.go).
//  3. If any request still needs a remote download, the shared lock
//     is released and an exclusive lock acquired over the same key
//     set, and the pipeline is re-run from scratch for just those
//     requests (without re-emitting ARTIFACT_RESOLVING) — another
//     resolver may have populated the cache between release and
//     re-acquisition.
//  4. Scheduled downloads execute, post-processors run over the full
//     result set, and ARTIFACT_RESOLVED is emitted for every result.
//
// If any result is unsuccessful once this completes, the full result
// list is returned alongside a *artifact.ResolutionFailure.
func (o *Orchestrator) ResolveArtifacts(ctx context.Context, session *artifact.Session, requests []*artifact.ArtifactRequest) ([]*artifact.ArtifactResult, error) {
	results := make([]*artifact.ArtifactResult, len(requests))
	for i, req := range requests {
		results[i] = &artifact.ArtifactResult{Request: req}
	}

	var subjects []int
	var subjectKeys []string
	for i, req := range requests {
		if path, ok := req.Artifact.LocalPath(); ok {
			settlePreHosted(results[i], req.Artifact, path)
			continue
		}
		subjects = append(subjects, i)
		subjectKeys = append(subjectKeys, req.Artifact.Coordinate.String())
	}

	if len(subjects) == 0 {
		return o.finish(ctx, session, results)
	}

	release, err := o.Collaborators.Sync.AcquireShared(ctx, subjectKeys)
	if err != nil {
		return nil, fmt.Errorf("acquiring shared sync context failed: %w", err)
	}

	for _, i := range subjects {
		o.emit(ctx, artifact.EventResolving, requests[i].Artifact, nil, nil)
	}

	scheduler := groupscheduler.New()
	pending := o.plan(ctx, session, requests, subjects, results, scheduler)

	if len(pending) > 0 {
		release()

		slogcontext.FromCtx(ctx).With(slog.String("realm", realm)).Log(ctx, slog.LevelDebug,
			"escalating to exclusive sync context", slog.Int("pending", len(pending)))

		release, err = o.Collaborators.Sync.AcquireExclusive(ctx, subjectKeys)
		if err != nil {
			return nil, fmt.Errorf("acquiring exclusive sync context failed: %w", err)
		}

		for _, i := range pending {
			results[i] = &artifact.ArtifactResult{Request: requests[i]}
		}
		scheduler = groupscheduler.New()
		pending = o.plan(ctx, session, requests, pending, results, scheduler)
	}
	defer release()

	if len(pending) > 0 {
		if err := o.download.ExecuteGroups(ctx, session, scheduler.Groups()); err != nil {
			return nil, fmt.Errorf("executing download groups failed: %w", err)
		}
	}

	return o.finish(ctx, session, results)
}

// plan runs planRequest for each index in indices, returning the
// subset that still requires a download.
func (o *Orchestrator) plan(ctx context.Context, session *artifact.Session, requests []*artifact.ArtifactRequest, indices []int, results []*artifact.ArtifactResult, scheduler *groupscheduler.Scheduler) []int {
	var pending []int
	for _, i := range indices {
		if o.planRequest(ctx, session, requests[i], results[i], scheduler) {
			pending = append(pending, i)
		}
	}
	return pending
}

// settlePreHosted implements step 4.2.1: stat path and either mark
// the request resolved against it or record a NotFound exception. No
// collaborator is consulted either way.
func settlePreHosted(result *artifact.ArtifactResult, art artifact.Artifact, path string) {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		result.AddException(&artifact.NotFoundError{Artifact: art.Coordinate, Reason: err.Error()})
	case !info.Mode().IsRegular():
		result.AddException(&artifact.NotFoundError{Artifact: art.Coordinate, Reason: "local_path is not a regular file"})
	default:
		resolved := art.WithFile(path)
		result.Artifact = &resolved
	}
}

// finish runs post-processors, backfills a NotFound exception onto
// any still-unresolved result that has no recorded cause, emits
// ARTIFACT_RESOLVED for every result, and aggregates overall outcome.
func (o *Orchestrator) finish(ctx context.Context, session *artifact.Session, results []*artifact.ArtifactResult) ([]*artifact.ArtifactResult, error) {
	for _, pp := range o.config.postProcessors {
		if err := pp.PostProcess(ctx, session, results); err != nil {
			return nil, fmt.Errorf("post-processor %q failed: %w", pp.Name(), err)
		}
	}

	failed := false
	for _, result := range results {
		if !result.Successful() && len(result.Exceptions) == 0 {
			result.AddException(&artifact.NotFoundError{Artifact: result.Request.Artifact.Coordinate})
		}
		o.emit(ctx, artifact.EventResolved, resultArtifact(result), result.Repository, result.Exceptions)
		if !result.Successful() {
			failed = true
		}
	}

	if failed {
		return results, &artifact.ResolutionFailure{Results: results}
	}
	return results, nil
}

func (o *Orchestrator) emit(ctx context.Context, eventType artifact.EventType, art artifact.Artifact, repo *artifact.RepositorySpec, exceptions []error) {
	if o.config.dispatcher == nil {
		return
	}
	o.config.dispatcher.Dispatch(ctx, artifact.Event{
		Type:       eventType,
		Artifact:   art,
		Repository: repo,
		Exceptions: exceptions,
	})
}

func resultArtifact(result *artifact.ArtifactResult) artifact.Artifact {
	if result.Artifact != nil {
		return *result.Artifact
	}
	return result.Request.Artifact
}
