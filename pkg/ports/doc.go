/*
Package ports defines the driven ports (interfaces) of a Hollywood application.

These interfaces decouple the engine and the bundled Actors from concrete
implementations, so recovery strategies and storage backends can be swapped.

# Key Interfaces

  - ModelExceptionHandler: Decides how to continue when Model.ActUpon fails.
  - PreferenceStore: Persists groups of preference values for the preferences Actor.
*/
package ports
