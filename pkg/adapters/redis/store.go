// Package redis provides Redis-backed adapters.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/granchi/hollywood/pkg/ports"
)

const defaultPrefix = "hollywood:prefs:"

// PreferenceStore implements ports.PreferenceStore using Redis.
//
// Each namespace is a JSON document under prefix+namespace. A sorted set
// under prefix+"index" lists namespaces, scored by expiration time.
type PreferenceStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*PreferenceStore)

// WithTTL sets the expiration for namespaces.
func WithTTL(ttl time.Duration) Option {
	return func(s *PreferenceStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *PreferenceStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a store connected to address.
func New(address, password string, db int, opts ...Option) *PreferenceStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *PreferenceStore {
	store := &PreferenceStore{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *PreferenceStore) key(namespace string) string {
	return s.prefix + namespace
}

func (s *PreferenceStore) indexKey() string {
	return s.prefix + "index"
}

// Save writes the values and refreshes the namespace in the index.
func (s *PreferenceStore) Save(ctx context.Context, namespace string, values map[string]any) error {
	if values == nil {
		values = map[string]any{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	// Score = Now + TTL, or far future when namespaces never expire.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(namespace), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: namespace})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save preferences to redis: %w", err)
	}
	return nil
}

// Load reads the values of a namespace.
func (s *PreferenceStore) Load(ctx context.Context, namespace string) (map[string]any, error) {
	val, err := s.client.Get(ctx, s.key(namespace)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ports.ErrNamespaceNotFound
		}
		return nil, fmt.Errorf("failed to get preferences from redis: %w", err)
	}

	values := make(map[string]any)
	if err := json.Unmarshal(val, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return values, nil
}

// Delete removes the namespace and its index entry.
func (s *PreferenceStore) Delete(ctx context.Context, namespace string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(namespace))
	pipe.ZRem(ctx, s.indexKey(), namespace)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete preferences from redis: %w", err)
	}
	return nil
}

// List prunes expired namespaces from the index and returns the rest.
func (s *PreferenceStore) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired namespaces: %w", err)
	}

	namespaces, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	return namespaces, nil
}

// Ping checks the connection.
func (s *PreferenceStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *PreferenceStore) Close() error {
	return s.client.Close()
}
