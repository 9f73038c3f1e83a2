package crew_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granchi/hollywood/pkg/crew"
	"github.com/granchi/hollywood/pkg/domain"
)

func TestRoster(t *testing.T) {
	built := newProbe()
	r := crew.NewRoster().
		MustRegister("tab", crew.Typed(func(md keyed) (domain.Actor, error) {
			if md.key < 0 {
				return nil, errBoom
			}
			return built, nil
		})).
		MustRegister("plain", func(domain.ActorMetadata) (domain.Actor, error) { return newProbe(), nil })

	assert.Equal(t, []domain.Role{"plain", "tab"}, r.Roles())

	t.Run("Build", func(t *testing.T) {
		a, err := r.Build(keyed{"tab", 1})
		require.NoError(t, err)
		assert.Same(t, built, a)

		_, err = r.Build(keyed{"tab", -1})
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("Unknown Role", func(t *testing.T) {
		_, err := r.Build(role("nobody"))
		assert.ErrorIs(t, err, crew.ErrUnknownRole)
	})

	t.Run("Metadata Type Mismatch", func(t *testing.T) {
		_, err := r.Build(domain.SingleInstance{Type: "tab"})
		assert.ErrorIs(t, err, crew.ErrMetadataType)
	})

	t.Run("Duplicate Role", func(t *testing.T) {
		err := r.Register("tab", func(domain.ActorMetadata) (domain.Actor, error) { return nil, nil })
		assert.ErrorIs(t, err, crew.ErrDuplicateRole)
		assert.Panics(t, func() {
			r.MustRegister("plain", func(domain.ActorMetadata) (domain.Actor, error) { return nil, nil })
		})
	})

	t.Run("Nil Constructor", func(t *testing.T) {
		assert.Error(t, r.Register("empty", nil))
	})
}

func TestMatchers(t *testing.T) {
	e := crew.Entry{Metadata: keyed{"tab", 1}}

	assert.True(t, crew.MetadataMatcher(e, keyed{"tab", 1}))
	assert.False(t, crew.MetadataMatcher(e, keyed{"tab", 2}))

	assert.True(t, crew.SingleInstanceMatcher(e, keyed{"tab", 2}))
	assert.False(t, crew.SingleInstanceMatcher(e, keyed{"other", 1}))
	assert.False(t, crew.SingleInstanceMatcher(e, nil))
}
