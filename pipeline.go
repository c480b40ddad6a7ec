package resolver

import (
	"context"
	"fmt"

	"github.com/c00ler/maven-resolver/artifact"
	"github.com/c00ler/maven-resolver/filter"
	"github.com/c00ler/maven-resolver/groupscheduler"
	"github.com/c00ler/maven-resolver/locallookup"
	"github.com/c00ler/maven-resolver/pathpolicy"
)

// planRequest runs steps 2-7 of the per-request pipeline for req,
// recording exceptions and, on success, the final artifact and
// repository directly on result. It returns true if the artifact
// still requires a remote download, having placed a ResolutionItem
// for every still-eligible candidate repository into scheduler.
//
// scheduler.StartRequest must not have been called by the caller for
// this request; planRequest calls it itself before placing any item,
// so that this request's own repository preference order is scanned
// from the start of the group list.
func (o *Orchestrator) planRequest(ctx context.Context, session *artifact.Session, req *artifact.ArtifactRequest, result *artifact.ArtifactResult, scheduler *groupscheduler.Scheduler) bool {
	art := req.Artifact

	candidates := append([]*artifact.RepositorySpec(nil), req.Repositories...)
	filtered, active, exceptions := filter.Gate(ctx, o.Collaborators.FilterManager, session, art, candidates)
	for _, exc := range exceptions {
		result.AddException(exc)
	}

	// The version resolver only sees repositories the filter kept.
	versionReq := req.Clone()
	versionReq.Repositories = filtered
	versionResult, err := o.Collaborators.Version.ResolveVersion(ctx, session, versionReq)
	if err != nil {
		result.AddException(err)
		return false
	}
	art = art.WithVersion(versionResult.Version)

	switch versionResult.RepositoryKind {
	case artifact.RepositoryKindRemote:
		filtered = []*artifact.RepositorySpec{versionResult.Repository}
	case artifact.RepositoryKindLocal, artifact.RepositoryKindOther:
		filtered = nil
	}

	if o.Collaborators.Workspace != nil {
		if file, repo, found := locallookup.Workspace(ctx, o.Collaborators.Workspace, art); found {
			resolved := art.WithFile(file)
			result.Artifact = &resolved
			result.Repository = repo
			return false
		}
	}

	local, err := o.Collaborators.LRM.Find(ctx, session, art, filtered)
	if err != nil {
		result.AddException(fmt.Errorf("local repository lookup for artifact %s failed: %w", art, err))
		return false
	}
	result.Local = local

	if locallookup.Found(active, local, versionResult, len(filtered)) {
		finalFile, err := pathpolicy.Normalize(o.config.pathPolicy(), art, local.File)
		if err != nil {
			result.AddException(err)
			return false
		}
		resolved := art.WithFile(finalFile)
		result.Artifact = &resolved

		repo := local.Repository
		if repo == nil {
			repo = o.Collaborators.LRM.Repository()
		}
		result.Repository = repo

		if err := locallookup.RegisterIfInterop(ctx, o.Collaborators.LRM, session, o.config.simpleLRMInterop, active, local, resolved, repo, req.Context); err != nil {
			result.AddException(fmt.Errorf("registering interop artifact %s failed: %w", resolved, err))
		}
		return false
	}

	scheduler.StartRequest()
	resolved := false
	scheduledAny := false
	for _, repo := range filtered {
		policy := o.Collaborators.RepositoryManager.PolicyFor(repo, art.IsSnapshot())
		if !policy.Enabled {
			continue
		}
		if err := filter.OfflineCheck(ctx, o.Collaborators.OfflineController, session, art, repo); err != nil {
			result.AddException(err)
			continue
		}

		scheduler.Place(repo, groupscheduler.Item{
			Artifact:   art,
			Request:    req,
			Result:     result,
			Repository: repo,
			Local:      local,
			Resolved:   &resolved,
		})
		scheduledAny = true
	}

	return scheduledAny
}
