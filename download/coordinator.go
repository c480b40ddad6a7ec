// Package download implements the per-group transfer phase:
// assembling Download descriptors (Gather), acquiring a connector and
// submitting the batch (Execute), and folding the outcome back onto
// the originating ArtifactResults (Evaluate).
package download

import (
	"context"
	"fmt"
	"log/slog"

	slogcontext "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"

	"github.com/c00ler/maven-resolver/artifact"
	"github.com/c00ler/maven-resolver/groupscheduler"
	"github.com/c00ler/maven-resolver/pathpolicy"
)

const realm = "download"

// Coordinator executes ResolutionGroups against remote repositories.
type Coordinator struct {
	Connectors         artifact.ConnectorProvider
	RepositoryManager  artifact.RemoteRepositoryManager
	UpdateCheckManager artifact.UpdateCheckManager
	LRM                artifact.LocalRepositoryManager
	Dispatcher         artifact.EventDispatcher

	PathPolicy pathpolicy.Config

	// GoRoutineLimit bounds how many groups may execute concurrently
	// within one ExecuteGroups call. Defaults to 1 (sequential) if
	// <= 0.
	GoRoutineLimit int
}

// pending is one item's in-flight download together with the update
// check attached to it, if any.
type pending struct {
	item     *groupscheduler.Item
	download *artifact.Download
	check    *artifact.UpdateCheckRequest
}

// ExecuteGroups runs every group, up to GoRoutineLimit concurrently.
// Errors from individual groups are not fatal to sibling groups; a
// transfer failure is recorded on the affected results, not surfaced
// as a call-level error. ExecuteGroup never returns an error, so
// ExecuteGroups returns nil; a cancelled ctx is only passed on to the
// collaborators, and whatever they report for it is recorded on the
// affected results.
func (c *Coordinator) ExecuteGroups(ctx context.Context, session *artifact.Session, groups []*groupscheduler.Group) error {
	limit := c.GoRoutineLimit
	if limit <= 0 {
		limit = 1
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for _, group := range groups {
		eg.Go(func() error {
			return c.ExecuteGroup(egCtx, session, group)
		})
	}

	return eg.Wait()
}

// ExecuteGroup runs the Gather/Execute/Evaluate pipeline for one
// group.
func (c *Coordinator) ExecuteGroup(ctx context.Context, session *artifact.Session, group *groupscheduler.Group) error {
	pendings := c.gather(ctx, session, group)
	if len(pendings) == 0 {
		return nil
	}

	for _, p := range pendings {
		c.dispatch(ctx, artifact.EventDownloading, p.item.Artifact, group.Repository, nil)
	}

	c.execute(ctx, session, group, pendings)
	c.evaluate(ctx, session, group, pendings)
	return nil
}

func (c *Coordinator) gather(ctx context.Context, session *artifact.Session, group *groupscheduler.Group) []*pending {
	logger := slogcontext.FromCtx(ctx).With(slog.String("realm", realm))

	var pendings []*pending
	for i := range group.Items {
		item := &group.Items[i]
		if item.Resolved != nil && *item.Resolved {
			continue
		}

		dl := &artifact.Download{
			Artifact:       item.Artifact,
			RequestContext: item.Request.Context,
			Trace:          item.Request.Trace,
			Listener:       session.TransferListener,
			Repositories:   group.Repositories(),
		}

		if item.Local.File != "" {
			dl.Destination = item.Local.File
			dl.ExistenceCheck = true
		} else {
			dest, err := c.LRM.PathForRemoteArtifact(item.Artifact, group.Repository, item.Request.Context)
			if err != nil {
				item.Result.AddException(&artifact.TransferError{
					Artifact:   item.Artifact.Coordinate,
					Repository: group.Repository,
					Cause:      fmt.Errorf("computing local path failed: %w", err),
				})
				continue
			}
			dl.Destination = dest
		}

		dl.Policy = c.RepositoryManager.PolicyFor(group.Repository, item.Artifact.IsSnapshot())

		p := &pending{item: item, download: dl}

		if session.ErrorPolicy.CacheFailures && c.UpdateCheckManager != nil {
			check := &artifact.UpdateCheckRequest{
				Artifact:   item.Artifact,
				Repository: group.Repository,
				Context:    item.Request.Context,
				Policy:     dl.Policy,
			}
			if err := c.UpdateCheckManager.CheckArtifact(ctx, session, check); err != nil {
				item.Result.AddException(fmt.Errorf("checking update policy for artifact %s failed: %w", item.Artifact, err))
				continue
			}
			if !check.Required {
				logger.Log(ctx, slog.LevelDebug, "skipping download, cached failure still current",
					slog.String("artifact", item.Artifact.String()),
					slog.String("repository", group.Repository.ID),
				)
				item.Result.AddException(check.Exception)
				continue
			}
			p.check = check
		}

		pendings = append(pendings, p)
	}

	return pendings
}

func (c *Coordinator) execute(ctx context.Context, session *artifact.Session, group *groupscheduler.Group, pendings []*pending) {
	connector, err := c.Connectors.NewConnector(ctx, session, group.Repository)
	if err != nil {
		for _, p := range pendings {
			p.download.Exception = &artifact.TransferError{
				Artifact:   p.item.Artifact.Coordinate,
				Repository: group.Repository,
				Cause:      fmt.Errorf("%w: %w", artifact.ErrNoConnector, err),
			}
		}
		return
	}
	defer func() {
		if closeErr := connector.Close(ctx); closeErr != nil {
			slogcontext.FromCtx(ctx).With(slog.String("realm", realm)).
				Log(ctx, slog.LevelWarn, "closing connector failed", slog.String("error", closeErr.Error()))
		}
	}()

	downloads := make([]*artifact.Download, 0, len(pendings))
	for _, p := range pendings {
		downloads = append(downloads, p.download)
	}

	if err := connector.Get(ctx, downloads); err != nil {
		for _, dl := range downloads {
			if dl.Exception == nil {
				dl.Exception = &artifact.TransferError{Cause: err}
			}
		}
	}
}

func (c *Coordinator) evaluate(ctx context.Context, session *artifact.Session, group *groupscheduler.Group, pendings []*pending) {
	for _, p := range pendings {
		dl := p.download
		item := p.item

		if dl.Exception == nil {
			item.Result.Repository = group.Repository

			finalFile, err := pathpolicy.Normalize(c.PathPolicy, item.Artifact, dl.Destination)
			if err != nil {
				dl.Exception = err
			} else {
				resolved := item.Artifact.WithFile(finalFile)
				item.Result.Artifact = &resolved
				if item.Resolved != nil {
					*item.Resolved = true
				}

				if err := c.LRM.Add(ctx, session, artifact.Registration{
					Artifact:   resolved,
					Repository: group.Repository,
					Contexts:   []string{item.Request.Context},
				}); err != nil {
					item.Result.AddException(fmt.Errorf("registering artifact %s with local repository manager failed: %w", resolved, err))
				}
			}
		}

		if dl.Exception != nil {
			item.Result.AddException(dl.Exception)
		}

		if p.check != nil {
			p.check.Exception = dl.Exception
			if err := c.UpdateCheckManager.TouchArtifact(ctx, session, p.check); err != nil {
				item.Result.AddException(fmt.Errorf("persisting update check outcome for artifact %s failed: %w", item.Artifact, err))
			}
		}

		c.dispatch(ctx, artifact.EventDownloaded, item.Artifact, group.Repository, exceptionList(dl.Exception))
	}
}

func (c *Coordinator) dispatch(ctx context.Context, eventType artifact.EventType, art artifact.Artifact, repo *artifact.RepositorySpec, exceptions []error) {
	if c.Dispatcher == nil {
		return
	}
	c.Dispatcher.Dispatch(ctx, artifact.Event{
		Type:       eventType,
		Artifact:   art,
		Repository: repo,
		Exceptions: exceptions,
	})
}

func exceptionList(err error) []error {
	if err == nil {
		return nil
	}
	return []error{err}
}
