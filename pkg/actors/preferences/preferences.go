// Package preferences keeps a namespace of key/value preferences in sync
// between a Model and a ports.PreferenceStore.
//
// A Model (or any submodel of a composite) implementing Model and wanting
// Metadata{Namespace: ns} gets an Actor that:
//
//   - loads ns once and emits Loaded, or LoadFailed;
//   - saves the values of every later Model of that namespace whose values
//     changed, then emits Saved, or SaveFailed when the store rejects them.
//
// A Model returning nil Values has nothing to save yet; this lets it wait for
// Loaded before its defaults can overwrite the stored values.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/granchi/hollywood/internal/logging"
	"github.com/granchi/hollywood/pkg/actors"
	"github.com/granchi/hollywood/pkg/crew"
	"github.com/granchi/hollywood/pkg/domain"
	"github.com/granchi/hollywood/pkg/ports"
)

// Role identifies preferences Actors in a crew.Roster.
const Role domain.Role = "hollywood.preferences"

// Model is a Model owning the values of a preferences namespace.
type Model interface {
	domain.Model
	Namespace() string
	Values() map[string]any
}

// Metadata asks for the preferences Actor of a namespace.
type Metadata struct {
	Namespace string
}

// Role returns the preferences Role.
func (Metadata) Role() domain.Role { return Role }

// Loaded carries the stored values of a namespace. Found is false when the
// namespace was never saved; Values is then empty.
type Loaded struct {
	Namespace string
	Values    map[string]any
	Found     bool
}

// LoadFailed reports that the namespace could not be read.
type LoadFailed struct {
	Namespace string
	Err       error
}

// Saved confirms that Values were written.
type Saved struct {
	Namespace string
	Values    map[string]any
}

// SaveFailed reports that the values of a Model could not be written.
type SaveFailed struct {
	Namespace string
	Err       error
}

// Option configures an Actor.
type Option func(*Actor)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Actor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTimeout bounds every store call.
func WithTimeout(d time.Duration) Option {
	return func(a *Actor) {
		a.timeout = d
	}
}

// Actor synchronizes one namespace with a store.
type Actor struct {
	*actors.Base

	store     ports.PreferenceStore
	namespace string
	logger    *slog.Logger
	timeout   time.Duration
}

// New creates the Actor of namespace.
func New(store ports.PreferenceStore, namespace string, opts ...Option) *Actor {
	a := &Actor{
		Base:      actors.NewBase(1),
		store:     store,
		namespace: namespace,
		logger:    logging.NewNop(),
		timeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Constructor returns the crew.Constructor to register under Role.
func Constructor(store ports.PreferenceStore, opts ...Option) crew.Constructor {
	return crew.Typed(func(md Metadata) (domain.Actor, error) {
		if store == nil {
			return nil, errors.New("preferences: nil store")
		}
		return New(store, md.Namespace, opts...), nil
	})
}

func (a *Actor) SubscribeTo(models <-chan domain.Model) {
	go a.run(models)
}

func (a *Actor) run(models <-chan domain.Model) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-a.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	last, action := a.load(ctx)
	if !a.Emit(ctx, action) {
		return
	}

	for m := range models {
		for _, p := range domain.SubmodelsOf[Model](m) {
			if p.Namespace() != a.namespace {
				continue
			}
			values := p.Values()
			if values == nil || reflect.DeepEqual(values, last) {
				continue
			}
			if err := a.save(ctx, values); err != nil {
				a.logger.Warn("failed to save preferences", "namespace", a.namespace, "err", err)
				if !a.Emit(ctx, SaveFailed{Namespace: a.namespace, Err: err}) {
					return
				}
				continue
			}
			last = maps.Clone(values)
			if !a.Emit(ctx, Saved{Namespace: a.namespace, Values: maps.Clone(values)}) {
				return
			}
		}
	}
}

func (a *Actor) load(ctx context.Context) (map[string]any, domain.Action) {
	ctx, cancel := a.bound(ctx)
	defer cancel()

	values, err := a.store.Load(ctx, a.namespace)
	switch {
	case errors.Is(err, ports.ErrNamespaceNotFound):
		a.logger.Debug("preferences not found", "namespace", a.namespace)
		return map[string]any{}, Loaded{Namespace: a.namespace, Values: map[string]any{}}
	case err != nil:
		a.logger.Error("failed to load preferences", "namespace", a.namespace, "err", err)
		return nil, LoadFailed{Namespace: a.namespace, Err: err}
	}
	a.logger.Debug("preferences loaded", "namespace", a.namespace, "keys", len(values))
	return values, Loaded{Namespace: a.namespace, Values: maps.Clone(values), Found: true}
}

func (a *Actor) save(ctx context.Context, values map[string]any) error {
	ctx, cancel := a.bound(ctx)
	defer cancel()
	return a.store.Save(ctx, a.namespace, values)
}

func (a *Actor) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// Decode fills out, a pointer to a struct, from loaded values. Input is
// weakly typed, so a float64 decoded from JSON fills an int field.
func Decode(values map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "pref",
	})
	if err != nil {
		return fmt.Errorf("preferences decoder: %w", err)
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("decode preferences: %w", err)
	}
	return nil
}
