// Package memory provides in-memory adapters, for tests and ephemeral runs.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/granchi/hollywood/pkg/ports"
)

// PreferenceStore implements ports.PreferenceStore in memory.
// Safe for concurrent use.
type PreferenceStore struct {
	data map[string]map[string]any
	mu   sync.RWMutex
}

// NewPreferenceStore creates an empty in-memory store.
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{
		data: make(map[string]map[string]any),
	}
}

// Save stores a copy of values, so the caller can keep mutating its map.
func (s *PreferenceStore) Save(ctx context.Context, namespace string, values map[string]any) error {
	copied := make(map[string]any, len(values))
	maps.Copy(copied, values)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[namespace] = copied
	return nil
}

// Load returns a copy of the stored values.
func (s *PreferenceStore) Load(ctx context.Context, namespace string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.data[namespace]
	if !ok {
		return nil, ports.ErrNamespaceNotFound
	}
	return maps.Clone(values), nil
}

// Delete removes the namespace.
func (s *PreferenceStore) Delete(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, namespace)
	return nil
}

// List returns the stored namespaces, sorted.
func (s *PreferenceStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	namespaces := make([]string, 0, len(s.data))
	for ns := range s.data {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)
	return namespaces, nil
}
