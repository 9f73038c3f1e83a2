// Package demo is the countdown application run by "hollywood demo".
//
// A Countdown is composed with a History of completed runs, kept in a
// preferences namespace. A Ticker drives the countdown, a Console prints it
// and announces the liftoff, and the application ends once the History has
// been saved.
package demo

import (
	"fmt"
	"time"

	"github.com/granchi/hollywood/pkg/domain"
)

// Roles of the demo Actors.
const (
	RoleTicker  domain.Role = "demo.ticker"
	RoleConsole domain.Role = "demo.console"
)

// Tick counts one second (or whatever interval) down.
type Tick struct{}

// Liftoff is emitted by the console when the count reaches zero.
type Liftoff struct {
	At time.Time
}

// TickerMetadata asks for a Ticker emitting Tick every Interval.
type TickerMetadata struct {
	Interval time.Duration
}

func (TickerMetadata) Role() domain.Role { return RoleTicker }

// ConsoleMetadata asks for the Console.
type ConsoleMetadata struct{}

func (ConsoleMetadata) Role() domain.Role { return RoleConsole }

// Countdown counts ticks down to zero.
type Countdown struct {
	Left     int
	Interval time.Duration
}

func (c Countdown) ActUpon(action domain.Action) (domain.Model, error) {
	switch action.(type) {
	case Tick:
		if c.Left == 0 {
			return c, nil
		}
		return Countdown{Left: c.Left - 1, Interval: c.Interval}, nil
	case Liftoff:
		if c.Left != 0 {
			return nil, fmt.Errorf("liftoff with %d ticks left", c.Left)
		}
		return nil, nil
	}
	return c, nil
}

// Actors keeps the ticker until zero, the console until the end.
func (c Countdown) Actors() domain.MetadataSet {
	if c.Left == 0 {
		return domain.NewMetadataSet(ConsoleMetadata{})
	}
	return domain.NewMetadataSet(TickerMetadata{Interval: c.Interval}, ConsoleMetadata{})
}

func (c Countdown) String() string {
	return fmt.Sprintf("countdown(%d)", c.Left)
}

// Initial builds the starting Model of the demo.
func Initial(count int, interval time.Duration, namespace string) domain.Model {
	return domain.MustCompositeModel(
		Countdown{Left: count, Interval: interval},
		History{namespace: namespace},
	)
}
