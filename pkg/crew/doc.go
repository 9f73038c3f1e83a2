/*
Package crew keeps the population of live Actors in sync with what the
current Model demands.

A Crew builds missing Actors from their ActorMetadata through a Factory
(usually a Roster mapping each Role to a constructor), subscribes them to the
Model feed and merges their Actions into a single stream consumed with Next.
Actors that are no longer wanted are unsubscribed and torn down.

Reconcile is meant to be called from a single goroutine, the engine's; the
query methods (Len, Entries) are safe from anywhere.
*/
package crew
