// Package event provides EventDispatcher implementations: a no-op for
// callers that don't care, a structured-logging sink grounded on the
// same log/slog usage as the rest of this module, and a fan-out
// combinator for attaching more than one.
package event

import (
	"context"
	"log/slog"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/c00ler/maven-resolver/artifact"
)

const realm = "event"

type noop struct{}

func (noop) Dispatch(context.Context, artifact.Event) {}

// Noop returns an EventDispatcher that discards every event.
func Noop() artifact.EventDispatcher { return noop{} }

type slogDispatcher struct {
	logger *slog.Logger
}

// Slog returns an EventDispatcher that logs each event at debug level
// through logger, or through the context-scoped logger from
// slog-context if logger is nil.
func Slog(logger *slog.Logger) artifact.EventDispatcher {
	return slogDispatcher{logger: logger}
}

func (d slogDispatcher) Dispatch(ctx context.Context, evt artifact.Event) {
	logger := d.logger
	if logger == nil {
		logger = slogcontext.FromCtx(ctx)
	}
	logger = logger.With(slog.String("realm", realm))

	attrs := []any{
		slog.String("event", evt.Type.String()),
		slog.String("artifact", evt.Artifact.String()),
	}
	if evt.Repository != nil {
		attrs = append(attrs, slog.String("repository", evt.Repository.ID))
	}
	if len(evt.Exceptions) > 0 {
		attrs = append(attrs, slog.Int("exceptions", len(evt.Exceptions)))
	}
	logger.Log(ctx, slog.LevelDebug, "artifact lifecycle event", attrs...)
}

type fanout []artifact.EventDispatcher

// Fanout returns an EventDispatcher that delivers every event to each
// of dispatchers in order. A panicking dispatcher is not recovered
// from here; per the interface contract, dispatchers must not panic.
func Fanout(dispatchers ...artifact.EventDispatcher) artifact.EventDispatcher {
	return fanout(dispatchers)
}

func (f fanout) Dispatch(ctx context.Context, evt artifact.Event) {
	for _, d := range f {
		if d == nil {
			continue
		}
		d.Dispatch(ctx, evt)
	}
}
