// Package middleware wraps a PreferenceStore with extra behavior applied on
// the way in and out of the backend.
package middleware

import "github.com/granchi/hollywood/pkg/ports"

// Middleware allows wrapping a PreferenceStore to add behavior.
type Middleware func(ports.PreferenceStore) ports.PreferenceStore

// Chain applies mws so that the first one is the outermost.
func Chain(store ports.PreferenceStore, mws ...Middleware) ports.PreferenceStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
