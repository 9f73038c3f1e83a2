package demo

import (
	"io"
	"log/slog"

	"github.com/granchi/hollywood/pkg/actors"
	"github.com/granchi/hollywood/pkg/actors/preferences"
	"github.com/granchi/hollywood/pkg/crew"
	"github.com/granchi/hollywood/pkg/domain"
	"github.com/granchi/hollywood/pkg/ports"
)

// NewRoster registers the demo Actors.
func NewRoster(store ports.PreferenceStore, out io.Writer, logger *slog.Logger) *crew.Roster {
	return crew.NewRoster().
		MustRegister(RoleTicker, crew.Typed(func(md TickerMetadata) (domain.Actor, error) {
			return actors.NewTicker(md.Interval, Tick{}), nil
		})).
		MustRegister(RoleConsole, crew.Typed(func(ConsoleMetadata) (domain.Actor, error) {
			return NewConsole(out), nil
		})).
		MustRegister(preferences.Role, preferences.Constructor(store, preferences.WithLogger(logger)))
}
