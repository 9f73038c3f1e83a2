package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/granchi/hollywood/internal/config"
	"github.com/granchi/hollywood/pkg/adapters/memory"
	"github.com/granchi/hollywood/pkg/adapters/redis"
	"github.com/granchi/hollywood/pkg/persistence/middleware"
	"github.com/granchi/hollywood/pkg/ports"
)

// OpenStore builds the preference store selected by cfg and wraps it with
// the configured masking and encryption. The returned function releases it.
func OpenStore(ctx context.Context, cfg config.Preferences) (ports.PreferenceStore, func() error, error) {
	mws, err := storeMiddleware(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, release, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return middleware.Chain(store, mws...), release, nil
}

func storeMiddleware(cfg config.Preferences) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Mask) > 0 {
		mask, err := middleware.NewMaskMiddleware(cfg.Mask...)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mask)
	}
	active, fallback, err := cfg.Keys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return mws, nil
}

func openBackend(ctx context.Context, cfg config.Preferences) (ports.PreferenceStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL.Std())}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		return store, store.Close, nil
	case config.BackendMemory, "":
		return memory.NewPreferenceStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown preferences backend %q", config.ErrInvalid, cfg.Backend)
	}
}

// ListPreferences prints every stored namespace, one per line.
func ListPreferences(ctx context.Context, store ports.PreferenceStore, w io.Writer) error {
	namespaces, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list preferences: %w", err)
	}
	for _, ns := range namespaces {
		fmt.Fprintln(w, ns)
	}
	return nil
}

// ShowPreferences prints the values of a namespace as sorted key=value lines.
func ShowPreferences(ctx context.Context, store ports.PreferenceStore, namespace string, w io.Writer) error {
	values, err := store.Load(ctx, namespace)
	if err != nil {
		return fmt.Errorf("failed to load %q: %w", namespace, err)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s=%v\n", k, values[k])
	}
	return nil
}

// ResetPreferences deletes a namespace.
func ResetPreferences(ctx context.Context, store ports.PreferenceStore, namespace string) error {
	if err := store.Delete(ctx, namespace); err != nil {
		return fmt.Errorf("failed to reset %q: %w", namespace, err)
	}
	return nil
}
