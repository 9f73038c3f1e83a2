/*
Package domain contains the core contracts of a Hollywood application.

It defines the fundamental entities of the unidirectional data flow: the
immutable Model, the Actions that drive its transitions, the Actors that bridge
the Model to the outside world and the ActorMetadata a Model uses to declare
which Actors it needs. This package is kept pure and free of I/O, goroutines
and persistence, so Models written against it are plain sequential code.

# Key Entities

  - Model: immutable application state with a pure transition function.
  - CompositeModel: a Model made of independent submodels.
  - Action: opaque request for a state transition, produced by Actors.
  - Actor: stateful, side-effecting unit observing Models and emitting Actions.
  - ActorMetadata: comparable descriptor used to build and identify an Actor.
  - LifecycleHooks: callbacks for observing the engine cycle.
*/
package domain
