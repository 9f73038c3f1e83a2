// Package recovery provides ready-made exception handlers for the engine.
//
// A handler decides what happens when Model.ActUpon fails: returning a Model
// continues the application from it, returning nil ends the application.
package recovery

import (
	"fmt"
	"log/slog"

	"github.com/granchi/hollywood/internal/logging"
	"github.com/granchi/hollywood/pkg/domain"
	"github.com/granchi/hollywood/pkg/ports"
)

// Reinstate keeps the Model that failed, as if the Action never happened.
// The failure is logged at debug level; a nil logger discards it.
func Reinstate(logger *slog.Logger) ports.ModelExceptionHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return ports.ExceptionHandlerFunc(func(model domain.Model, action domain.Action, err error) domain.Model {
		logger.Debug("reinstating model",
			"model", fmt.Sprintf("%T", model),
			"action", fmt.Sprintf("%T", action),
			"err", err,
		)
		return model
	})
}

// Sink records failed transitions.
type Sink interface {
	Log(model domain.Model, action domain.Action, err error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(model domain.Model, action domain.Action, err error)

// Log calls f.
func (f SinkFunc) Log(model domain.Model, action domain.Action, err error) {
	f(model, action, err)
}

// LogAndReinstate reports the failure to sink, then keeps the Model that failed.
func LogAndReinstate(sink Sink) ports.ModelExceptionHandler {
	if sink == nil {
		return Reinstate(nil)
	}
	return ports.ExceptionHandlerFunc(func(model domain.Model, action domain.Action, err error) domain.Model {
		sink.Log(model, action, err)
		return model
	})
}

// SlogSink logs failed transitions as errors.
func SlogSink(logger *slog.Logger) Sink {
	return SinkFunc(func(model domain.Model, action domain.Action, err error) {
		logger.Error("model failed to act upon action",
			"model", fmt.Sprintf("%T", model),
			"action", fmt.Sprintf("%T", action),
			"err", err,
		)
	})
}
