package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPreferenceStoreContract runs a suite of tests to verify that a
// PreferenceStore implementation adheres to the interface contract.
func RunPreferenceStoreContract(t *testing.T, store PreferenceStore) {
	ctx := context.Background()
	namespace := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		values := map[string]any{
			"theme": "dark",
			"count": 42,
			"sound": true,
		}

		err := store.Save(ctx, namespace, values)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, namespace)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "dark", loaded["theme"])
		assert.Equal(t, true, loaded["sound"])
		// JSON backends turn ints into float64, only check that it survived.
		assert.NotNil(t, loaded["count"])
	})

	t.Run("Load is isolated from caller", func(t *testing.T) {
		values := map[string]any{"theme": "light"}
		require.NoError(t, store.Save(ctx, namespace, values))

		values["theme"] = "mutated"
		loaded, err := store.Load(ctx, namespace)
		require.NoError(t, err)
		assert.Equal(t, "light", loaded["theme"])

		loaded["theme"] = "mutated again"
		again, err := store.Load(ctx, namespace)
		require.NoError(t, err)
		assert.Equal(t, "light", again["theme"])
	})

	t.Run("Save replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, namespace, map[string]any{"a": "1", "b": "2"}))
		require.NoError(t, store.Save(ctx, namespace, map[string]any{"a": "3"}))

		loaded, err := store.Load(ctx, namespace)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": "3"}, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+namespace)
		assert.ErrorIs(t, err, ErrNamespaceNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, namespace, map[string]any{"k": "v"}))

		err := store.Delete(ctx, namespace)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, namespace)
		assert.ErrorIs(t, err, ErrNamespaceNotFound, "Load after Delete should return ErrNamespaceNotFound")

		assert.NoError(t, store.Delete(ctx, namespace), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		ns1 := namespace + "-1"
		ns2 := namespace + "-2"
		_ = store.Save(ctx, ns1, map[string]any{"k": "v"})
		_ = store.Save(ctx, ns2, map[string]any{"k": "v"})

		defer func() {
			_ = store.Delete(ctx, ns1)
			_ = store.Delete(ctx, ns2)
		}()

		namespaces, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, namespaces, ns1)
		assert.Contains(t, namespaces, ns2)
	})
}
