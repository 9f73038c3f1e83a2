package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventAction     EventType = "action"
	EventModel      EventType = "model"
	EventActorStart EventType = "actor_start"
	EventActorStop  EventType = "actor_stop"
	EventException  EventType = "exception"
	EventTerminate  EventType = "terminate"
)

// TerminationReason tells why a run ended.
type TerminationReason string

const (
	// ReasonModelEnded: a transition returned the nil Model.
	ReasonModelEnded TerminationReason = "model_ended"
	// ReasonNoActorsWanted: the current Model declares no Actors.
	ReasonNoActorsWanted TerminationReason = "no_actors_wanted"
	// ReasonStreamsDrained: every Actor stream completed.
	ReasonStreamsDrained TerminationReason = "streams_drained"
	// ReasonTransitionFailed: ActUpon failed and was not recovered.
	ReasonTransitionFailed TerminationReason = "transition_failed"
	// ReasonActorFailed: an Actor stream ended with an error.
	ReasonActorFailed TerminationReason = "actor_failed"
	// ReasonBuildFailed: an Actor could not be built.
	ReasonBuildFailed TerminationReason = "build_failed"
	// ReasonCanceled: the run context was canceled.
	ReasonCanceled TerminationReason = "canceled"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// NewEventBase stamps an event of the given type for a run.
func NewEventBase(t EventType, runID string) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t, RunID: runID}
}

// ActionEvent is fired when the engine dequeues an Action.
type ActionEvent struct {
	EventBase
	Action Action `json:"action"`
}

// ModelEvent is fired after a Model has been broadcast. Duration is the time
// spent in the cycle (transition plus reconciliation); zero for the initial Model.
type ModelEvent struct {
	EventBase
	Model    Model         `json:"-"`
	Actors   int           `json:"actors"`
	Duration time.Duration `json:"duration"`
}

// ActorEvent is fired when the crew starts or stops an Actor.
type ActorEvent struct {
	EventBase
	EntryID  string        `json:"entry_id"`
	Role     Role          `json:"role"`
	Metadata ActorMetadata `json:"-"`
}

// ExceptionEvent is fired when ActUpon fails. Recovered tells whether the
// exception handler provided a Model to continue with.
type ExceptionEvent struct {
	EventBase
	Action    Action `json:"-"`
	Err       error  `json:"-"`
	Recovered bool   `json:"recovered"`
}

// TerminateEvent is fired once, when a run ends.
type TerminateEvent struct {
	EventBase
	Reason TerminationReason `json:"reason"`
	Err    error             `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// They run on the engine goroutine and must not block.
type LifecycleHooks struct {
	OnAction     func(context.Context, *ActionEvent)
	OnModel      func(context.Context, *ModelEvent)
	OnActorStart func(context.Context, *ActorEvent)
	OnActorStop  func(context.Context, *ActorEvent)
	OnException  func(context.Context, *ExceptionEvent)
	OnTerminate  func(context.Context, *TerminateEvent)
}

// MergeHooks combines several hook sets; each callback fires every non-nil
// callback of the same kind, in argument order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range hooks {
		h := h
		merged.OnAction = chain(merged.OnAction, h.OnAction)
		merged.OnModel = chain(merged.OnModel, h.OnModel)
		merged.OnActorStart = chain(merged.OnActorStart, h.OnActorStart)
		merged.OnActorStop = chain(merged.OnActorStop, h.OnActorStop)
		merged.OnException = chain(merged.OnException, h.OnException)
		merged.OnTerminate = chain(merged.OnTerminate, h.OnTerminate)
	}
	return merged
}

func chain[E any](first, second func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, e *E) {
		first(ctx, e)
		second(ctx, e)
	}
}
