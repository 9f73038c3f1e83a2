package runtime

import (
	"log/slog"

	"github.com/granchi/hollywood/pkg/crew"
	"github.com/granchi/hollywood/pkg/domain"
	"github.com/granchi/hollywood/pkg/ports"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithExceptionHandler sets the recovery strategy for failed transitions.
// Without one, the first failure ends the run.
func WithExceptionHandler(h ports.ModelExceptionHandler) EngineOption {
	return func(e *Engine) {
		e.handler = h
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks, shared with the crew.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCrewOptions forwards options to the crew the engine creates.
func WithCrewOptions(opts ...crew.Option) EngineOption {
	return func(e *Engine) {
		e.crewOpts = append(e.crewOpts, opts...)
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) EngineOption {
	return func(e *Engine) {
		if id != "" {
			e.runID = id
		}
	}
}
