package hollywood

import (
	"context"
	"log/slog"

	"github.com/granchi/hollywood/internal/runtime"
	"github.com/granchi/hollywood/pkg/crew"
	"github.com/granchi/hollywood/pkg/domain"
	"github.com/granchi/hollywood/pkg/ports"
)

// Execution is the handle of a running application.
type Execution = runtime.Execution

// State is the lifecycle stage of an Application.
type State = runtime.State

const (
	StateIdle       = runtime.StateIdle
	StateRunning    = runtime.StateRunning
	StateTerminated = runtime.StateTerminated
)

// Application is the high-level entry point of the library.
// It wraps the internal runtime and can be run only once.
type Application struct {
	engine *runtime.Engine

	handler  ports.ModelExceptionHandler
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	runID    string
	crewOpts []crew.Option
}

// Option defines a functional option for configuring the Application.
type Option func(*Application)

// WithLogger sets a custom structured logger. Without it the Application
// logs through slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) {
		a.logger = logger
	}
}

// WithExceptionHandler sets the strategy applied when a transition fails.
// Without one, a failed transition is logged and ends the run with a
// *domain.TransitionError.
func WithExceptionHandler(h ports.ModelExceptionHandler) Option {
	return func(a *Application) {
		a.handler = h
	}
}

// WithLifecycleHooks registers observability hooks. Combine several sets
// with domain.MergeHooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Application) {
		a.hooks = hooks
	}
}

// WithMatcher overrides how live Actors are matched against the metadata a
// Model declares.
func WithMatcher(m crew.Matcher) Option {
	return func(a *Application) {
		a.crewOpts = append(a.crewOpts, crew.WithMatcher(m))
	}
}

// WithSingleInstance keeps at most one live Actor per Role.
func WithSingleInstance() Option {
	return func(a *Application) {
		a.crewOpts = append(a.crewOpts, crew.WithSingleInstance())
	}
}

// WithRunID sets the run identifier instead of a random UUID.
func WithRunID(id string) Option {
	return func(a *Application) {
		a.runID = id
	}
}

// New creates an Application starting from initial and building its Actors
// with factory, usually a *crew.Roster.
func New(initial domain.Model, factory crew.Factory, opts ...Option) (*Application, error) {
	app := &Application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = slog.Default()
	}

	engineOpts := []runtime.EngineOption{
		runtime.WithLogger(app.logger),
		runtime.WithLifecycleHooks(app.hooks),
		runtime.WithRunID(app.runID),
		runtime.WithCrewOptions(app.crewOpts...),
	}
	if app.handler != nil {
		engineOpts = append(engineOpts, runtime.WithExceptionHandler(app.handler))
	}

	engine, err := runtime.New(initial, factory, engineOpts...)
	if err != nil {
		return nil, err
	}
	app.engine = engine
	return app, nil
}

// Run starts the application in the background. A second call returns
// domain.ErrAlreadyRun.
func (a *Application) Run(ctx context.Context) (*Execution, error) {
	return a.engine.Run(ctx)
}

// Subscribe returns the stream of Models, starting with the current one.
// The channel is closed when the application terminates; call cancel to
// stop earlier.
func (a *Application) Subscribe() (models <-chan domain.Model, cancel func()) {
	return a.engine.Subscribe()
}

// Model returns the current Model, once the application has started.
func (a *Application) Model() (domain.Model, bool) {
	return a.engine.Latest()
}

// ID returns the run identifier.
func (a *Application) ID() string {
	return a.engine.ID()
}

// State returns the lifecycle stage.
func (a *Application) State() State {
	return a.engine.State()
}
