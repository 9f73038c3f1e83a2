package crew

import (
	"log/slog"

	"github.com/granchi/hollywood/pkg/domain"
)

// Option configures a Crew.
type Option func(*Crew)

// WithMatcher overrides how live Actors are matched against metadata.
func WithMatcher(m Matcher) Option {
	return func(c *Crew) {
		if m != nil {
			c.matcher = m
		}
	}
}

// WithSingleInstance allows at most one live Actor per Role.
func WithSingleInstance() Option {
	return WithMatcher(SingleInstanceMatcher)
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crew) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers callbacks for Actor start and stop.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Crew) {
		c.hooks = hooks
	}
}

// WithRunID tags the events fired by the Crew with a run identifier.
func WithRunID(id string) Option {
	return func(c *Crew) {
		c.runID = id
	}
}
