package ports

import "github.com/granchi/hollywood/pkg/domain"

// ModelExceptionHandler reacts to failures of Model.ActUpon.
//
// Without one, the application ends as soon as a transition fails.
// OnException runs on the engine goroutine, synchronously, so it must not block.
type ModelExceptionHandler interface {
	// OnException returns the Model to continue with, or nil to end the run,
	// after model failed to act upon action with err.
	OnException(model domain.Model, action domain.Action, err error) domain.Model
}

// ExceptionHandlerFunc adapts a function to ModelExceptionHandler.
type ExceptionHandlerFunc func(model domain.Model, action domain.Action, err error) domain.Model

// OnException calls f.
func (f ExceptionHandlerFunc) OnException(model domain.Model, action domain.Action, err error) domain.Model {
	return f(model, action, err)
}
