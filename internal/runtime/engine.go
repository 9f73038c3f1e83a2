package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/granchi/hollywood/internal/logging"
	"github.com/granchi/hollywood/internal/stream"
	"github.com/granchi/hollywood/pkg/crew"
	"github.com/granchi/hollywood/pkg/domain"
	"github.com/granchi/hollywood/pkg/ports"
)

// State is the lifecycle stage of an Engine.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Engine is the reactive core: it feeds Actions to the Model, keeps the crew
// in line with the Actors each Model declares and broadcasts every Model.
//
// All transitions run on a single goroutine, in the order the Actions were
// dequeued. An Engine runs at most once.
type Engine struct {
	initial  domain.Model
	handler  ports.ModelExceptionHandler
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	crewOpts []crew.Option
	runID    string

	models *stream.Broadcaster[domain.Model]
	crew   *crew.Crew
	state  atomic.Int32
}

// New creates an idle Engine starting from initial and building Actors
// with factory.
func New(initial domain.Model, factory crew.Factory, opts ...EngineOption) (*Engine, error) {
	if initial == nil {
		return nil, domain.ErrNilModel
	}
	if factory == nil {
		return nil, crew.ErrNilFactory
	}

	e := &Engine{
		initial: initial,
		logger:  logging.NewNop(),
		runID:   uuid.NewString(),
		models:  stream.NewBroadcaster[domain.Model](),
	}
	for _, opt := range opts {
		opt(e)
	}

	crewOpts := append([]crew.Option{
		crew.WithLogger(e.logger),
		crew.WithLifecycleHooks(e.hooks),
		crew.WithRunID(e.runID),
	}, e.crewOpts...)

	c, err := crew.New(factory, e.models, crewOpts...)
	if err != nil {
		return nil, err
	}
	e.crew = c
	return e, nil
}

// ID returns the run identifier, also carried by every lifecycle event.
func (e *Engine) ID() string {
	return e.runID
}

// State returns the current lifecycle stage.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Subscribe returns a feed of the Models broadcast by the engine. The feed
// starts with the latest Model, if any, and is closed on termination.
func (e *Engine) Subscribe() (<-chan domain.Model, func()) {
	return e.models.Subscribe()
}

// Latest returns the last broadcast Model.
func (e *Engine) Latest() (domain.Model, bool) {
	return e.models.Latest()
}

// Run starts the engine in the background and returns the handle of the run.
//
// Canceling ctx terminates the run with the context error. Calling Run more
// than once returns domain.ErrAlreadyRun.
func (e *Engine) Run(ctx context.Context) (*Execution, error) {
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, domain.ErrAlreadyRun
	}

	exec := newExecution(e.runID)
	e.logger.Info("engine started", "run_id", e.runID, "model", fmt.Sprintf("%T", e.initial))

	go func() {
		reason, err := e.loop(ctx)
		e.shutdown(context.WithoutCancel(ctx), reason, err)
		exec.finish(err)
	}()
	return exec, nil
}

func (e *Engine) loop(ctx context.Context) (domain.TerminationReason, error) {
	model := e.initial
	wanted := model.Actors()

	if err := e.crew.Reconcile(ctx, wanted); err != nil {
		return domain.ReasonBuildFailed, err
	}
	e.publish(ctx, model, wanted, 0)
	if wanted.Len() == 0 {
		return domain.ReasonNoActorsWanted, nil
	}

	for {
		action, err := e.crew.Next(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return domain.ReasonCanceled, ctx.Err()
			case errors.Is(err, crew.ErrDrained):
				return domain.ReasonStreamsDrained, domain.ErrNoActors
			default:
				return domain.ReasonActorFailed, err
			}
		}

		start := time.Now()
		if e.hooks.OnAction != nil {
			e.hooks.OnAction(ctx, &domain.ActionEvent{
				EventBase: domain.NewEventBase(domain.EventAction, e.runID),
				Action:    action,
			})
		}

		next, err := e.apply(ctx, model, action)
		if err != nil {
			return domain.ReasonTransitionFailed, err
		}
		if next == nil {
			return domain.ReasonModelEnded, nil
		}

		model = next
		wanted = model.Actors()
		if err := e.crew.Reconcile(ctx, wanted); err != nil {
			return domain.ReasonBuildFailed, err
		}
		e.publish(ctx, model, wanted, time.Since(start))
		if wanted.Len() == 0 {
			return domain.ReasonNoActorsWanted, nil
		}
	}
}

// apply runs a transition. Failures go through the exception handler, whose
// Model replaces the result; a nil Model from it ends the run.
func (e *Engine) apply(ctx context.Context, model domain.Model, action domain.Action) (domain.Model, error) {
	next, err := actUpon(model, action)
	if err == nil {
		return next, nil
	}

	var replacement domain.Model
	if e.handler != nil {
		replacement = e.handler.OnException(model, action, err)
	}
	recovered := replacement != nil

	if recovered {
		e.logger.Warn("transition failed, recovered", "run_id", e.runID, "action", fmt.Sprintf("%T", action), "err", err)
	} else {
		e.logger.Error("transition failed", "run_id", e.runID, "action", fmt.Sprintf("%T", action), "err", err)
	}
	if e.hooks.OnException != nil {
		e.hooks.OnException(ctx, &domain.ExceptionEvent{
			EventBase: domain.NewEventBase(domain.EventException, e.runID),
			Action:    action,
			Err:       err,
			Recovered: recovered,
		})
	}

	if !recovered {
		return nil, &domain.TransitionError{Model: model, Action: action, Err: err}
	}
	return replacement, nil
}

func actUpon(model domain.Model, action domain.Action) (next domain.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			next = nil
			err = fmt.Errorf("%w: %v", domain.ErrModelPanic, r)
		}
	}()
	return model.ActUpon(action)
}

func (e *Engine) publish(ctx context.Context, model domain.Model, wanted domain.MetadataSet, d time.Duration) {
	e.models.Publish(model)
	e.logger.Debug("model broadcast", "run_id", e.runID, "model", fmt.Sprintf("%T", model), "actors", wanted.Len())
	if e.hooks.OnModel != nil {
		e.hooks.OnModel(ctx, &domain.ModelEvent{
			EventBase: domain.NewEventBase(domain.EventModel, e.runID),
			Model:     model,
			Actors:    wanted.Len(),
			Duration:  d,
		})
	}
}

// shutdown closes the broadcast, then tears down the whole crew.
func (e *Engine) shutdown(ctx context.Context, reason domain.TerminationReason, err error) {
	e.models.Close()
	e.crew.Close(ctx)
	e.state.Store(int32(StateTerminated))

	if err != nil {
		e.logger.Error("engine terminated", "run_id", e.runID, "reason", reason, "err", err)
	} else {
		e.logger.Info("engine terminated", "run_id", e.runID, "reason", reason)
	}
	if e.hooks.OnTerminate != nil {
		e.hooks.OnTerminate(ctx, &domain.TerminateEvent{
			EventBase: domain.NewEventBase(domain.EventTerminate, e.runID),
			Reason:    reason,
			Err:       err,
		})
	}
}
