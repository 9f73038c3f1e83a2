package observability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/granchi/hollywood/pkg/domain"
)

// LogHooks returns lifecycle hooks that log every event at debug level,
// except terminations which are logged at info (or error, when the run failed).
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			logger.DebugContext(ctx, "action", "run_id", e.RunID, "action", fmt.Sprintf("%T", e.Action))
		},
		OnModel: func(ctx context.Context, e *domain.ModelEvent) {
			logger.DebugContext(ctx, "model",
				"run_id", e.RunID,
				"model", fmt.Sprintf("%T", e.Model),
				"actors", e.Actors,
				"duration", e.Duration,
			)
		},
		OnActorStart: func(ctx context.Context, e *domain.ActorEvent) {
			logger.DebugContext(ctx, "actor_start", "run_id", e.RunID, "entry_id", e.EntryID, "role", e.Role)
		},
		OnActorStop: func(ctx context.Context, e *domain.ActorEvent) {
			logger.DebugContext(ctx, "actor_stop", "run_id", e.RunID, "entry_id", e.EntryID, "role", e.Role)
		},
		OnException: func(ctx context.Context, e *domain.ExceptionEvent) {
			logger.DebugContext(ctx, "exception",
				"run_id", e.RunID,
				"action", fmt.Sprintf("%T", e.Action),
				"recovered", e.Recovered,
				"err", e.Err,
			)
		},
		OnTerminate: func(ctx context.Context, e *domain.TerminateEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "terminate", "run_id", e.RunID, "reason", e.Reason, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "terminate", "run_id", e.RunID, "reason", e.Reason)
		},
	}
}
