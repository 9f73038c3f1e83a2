package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granchi/hollywood/pkg/adapters/memory"
	"github.com/granchi/hollywood/pkg/persistence/middleware"
)

func TestMaskMiddleware(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewPreferenceStore()
	mw, err := middleware.NewMaskMiddleware("password", "ssn")
	require.NoError(t, err)
	store := mw(underlying)

	values := map[string]any{
		"username":      "jdoe",
		"user_password": "secret123",
		"details": map[string]any{
			"address":    "123 St",
			"ssn_number": "999-99-9999",
		},
	}
	require.NoError(t, store.Save(ctx, "profile", values))
	assert.Equal(t, "secret123", values["user_password"], "the caller's map is not modified")

	stored, err := underlying.Load(ctx, "profile")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", stored["username"])
	assert.Equal(t, middleware.Mask, stored["user_password"])
	details := stored["details"].(map[string]any)
	assert.Equal(t, "123 St", details["address"])
	assert.Equal(t, middleware.Mask, details["ssn_number"])

	loaded, err := store.Load(ctx, "profile")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded["user_password"], "masked values are not recoverable")
}

func TestMaskMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewMaskMiddleware("(")
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewPreferenceStore()
	mask, err := middleware.NewMaskMiddleware("token")
	require.NoError(t, err)
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	store := middleware.Chain(underlying, mask, enc)
	require.NoError(t, store.Save(ctx, "app", map[string]any{"token": "abc", "theme": "dark"}))

	loaded, err := store.Load(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"token": middleware.Mask, "theme": "dark"}, loaded)
}
