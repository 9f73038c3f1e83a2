package domain

// Actor is a mutable entity that receives Models from the application and
// makes any side effect needed for interfacing the business logic with the
// outside world.
//
// Everything that is blocking or needs its own goroutine must be put out of
// the Model and into an Actor. Examples can be:
//
//   - GUI
//   - database
//   - external server
//
// Actors are built by the crew from ActorMetadata and hold no reference to
// the engine. Besides this interface, an Actor may implement:
//
//   - io.Closer, called when the crew tears the Actor down
//   - Failer, to report why its Actions stream ended
type Actor interface {
	// SubscribeTo hands the Actor its Model feed. It is called exactly once,
	// right after construction. The channel yields the most recent Model and
	// then every future one, in order and without gaps, and is closed when the
	// application ends or the Actor is torn down.
	SubscribeTo(models <-chan Model)

	// Actions returns the stream of all future Actions of this Actor.
	// It must return the same channel every time. Closing it means that the
	// Actor will not emit anymore.
	Actions() <-chan Action
}

// Failer is implemented by Actors whose Actions stream can end with an error.
// Err is checked once the Actions channel has been closed; a non-nil value is
// an Actor stream error and ends the application run.
type Failer interface {
	Err() error
}
