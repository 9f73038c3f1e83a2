package domain

import (
	"errors"
	"fmt"
)

// ErrNilModel is returned when a required Model is nil.
var ErrNilModel = errors.New("nil model")

// ErrEmptyComposite is returned when building a CompositeModel without submodels.
var ErrEmptyComposite = errors.New("composite model needs at least one submodel")

// ErrAlreadyRun is returned when running an application that is running or has run.
var ErrAlreadyRun = errors.New("application has already been run")

// ErrNoActors is returned when every Actor stream has completed, so no Action
// can ever reach the Model again.
var ErrNoActors = errors.New("no actor left to emit actions")

// TransitionError reports a failure of Model.ActUpon that was not recovered.
type TransitionError struct {
	Model  Model
	Action Action
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("model %T failed to act upon %T: %v", e.Model, e.Action, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// ActorError reports that the Actions stream of an Actor ended with an error.
type ActorError struct {
	Metadata ActorMetadata
	Err      error
}

func (e *ActorError) Error() string {
	return fmt.Sprintf("actor %v: %v", e.Metadata, e.Err)
}

func (e *ActorError) Unwrap() error {
	return e.Err
}

// ErrModelPanic wraps a panic raised inside Model.ActUpon.
var ErrModelPanic = errors.New("model panicked")
