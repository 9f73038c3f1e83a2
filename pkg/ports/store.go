package ports

import (
	"context"
	"errors"
)

// ErrNamespaceNotFound is returned when a preferences namespace has never been saved.
var ErrNamespaceNotFound = errors.New("preferences namespace not found")

// PreferenceStore defines the interface for persisting preference groups.
// Each namespace holds a flat map of JSON-compatible values.
type PreferenceStore interface {
	// Save replaces the values stored under namespace.
	Save(ctx context.Context, namespace string, values map[string]any) error

	// Load retrieves the values stored under namespace.
	// Returns ErrNamespaceNotFound if the namespace does not exist.
	Load(ctx context.Context, namespace string) (map[string]any, error)

	// Delete removes a namespace. Deleting a missing namespace is not an error.
	Delete(ctx context.Context, namespace string) error

	// List returns the stored namespaces.
	List(ctx context.Context) ([]string, error)
}
