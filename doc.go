/*
Package hollywood is a small reactive application engine built around three roles.

  - Model: an immutable value holding the whole application state. It turns
    an Action into its successor Model and declares which Actors must be alive.
  - Action: a plain value describing something that happened.
  - Actor: anything with side effects. Actors observe the stream of Models and
    emit Actions.

The engine runs a single cycle, always on the same goroutine: take the next
Action, compute the next Model, start the Actors the Model wants and stop the
ones it does not want anymore, then hand the Model to every Actor. A Model
returning nil from ActUpon ends the application.

# Usage

Describe the Actors with metadata values, register their constructors in a
crew.Roster and run the application from its initial Model:

	roster := crew.NewRoster().
		MustRegister("console", crew.Typed(func(md Console) (domain.Actor, error) {
			return NewConsole(md.Prefix), nil
		}))

	app, err := hollywood.New(Countdown{Left: 3}, roster,
		hollywood.WithLogger(logger),
		hollywood.WithExceptionHandler(recovery.Reinstate(logger)),
	)
	if err != nil {
		log.Fatal(err)
	}

	exec, err := app.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if err := exec.Wait(); err != nil {
		log.Fatal(err)
	}

# Composition

Independent parts of the state can live in their own Models and be combined
with domain.NewCompositeModel. Actions reach every submodel, the wanted Actors
are the union of theirs, and the composite ends when all submodels end.
Actors pick the part they care about with domain.SubmodelsOf.

# Failures

A failing transition is handed to the exception handler, which may provide a
Model to continue with (see package recovery). Without a handler, or when it
gives up, the run ends with a *domain.TransitionError. Actor construction
errors and Actor stream errors always end the run.
*/
package hollywood
