package crew

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/granchi/hollywood/pkg/domain"
)

var (
	// ErrNilFactory is returned when a Crew is created without a Factory.
	ErrNilFactory = errors.New("nil actor factory")

	// ErrUnknownRole is returned when no constructor is registered for a Role.
	ErrUnknownRole = errors.New("unknown actor role")

	// ErrDuplicateRole is returned when registering a Role twice.
	ErrDuplicateRole = errors.New("role already registered")

	// ErrNilActor is returned when a constructor returns no Actor and no error.
	ErrNilActor = errors.New("constructor returned a nil actor")

	// ErrMetadataType is returned by Typed constructors given metadata of another type.
	ErrMetadataType = errors.New("unexpected metadata type")
)

// Factory builds Actors from metadata.
type Factory interface {
	Build(md domain.ActorMetadata) (domain.Actor, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(md domain.ActorMetadata) (domain.Actor, error)

// Build calls f.
func (f FactoryFunc) Build(md domain.ActorMetadata) (domain.Actor, error) {
	return f(md)
}

// Constructor builds one variant of Actor.
type Constructor func(md domain.ActorMetadata) (domain.Actor, error)

// Typed wraps a constructor that expects a concrete metadata type, so the
// assertion is written once and checked by the compiler at registration.
func Typed[M domain.ActorMetadata](build func(md M) (domain.Actor, error)) Constructor {
	return func(md domain.ActorMetadata) (domain.Actor, error) {
		typed, ok := md.(M)
		if !ok {
			var want M
			return nil, fmt.Errorf("%w: got %T, want %T", ErrMetadataType, md, want)
		}
		return build(typed)
	}
}

// Roster is a Factory mapping every Role of the application to its Constructor.
// Safe for concurrent use.
type Roster struct {
	mu           sync.RWMutex
	constructors map[domain.Role]Constructor
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{
		constructors: make(map[domain.Role]Constructor),
	}
}

// Register binds a Role to its Constructor.
func (r *Roster) Register(role domain.Role, c Constructor) error {
	if c == nil {
		return fmt.Errorf("register %q: nil constructor", role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[role]; exists {
		return fmt.Errorf("register %q: %w", role, ErrDuplicateRole)
	}
	r.constructors[role] = c
	return nil
}

// MustRegister is like Register but panics on error. It returns the Roster
// so registrations can be chained.
func (r *Roster) MustRegister(role domain.Role, c Constructor) *Roster {
	if err := r.Register(role, c); err != nil {
		panic(err)
	}
	return r
}

// Build looks up the constructor for md's Role and calls it.
func (r *Roster) Build(md domain.ActorMetadata) (domain.Actor, error) {
	r.mu.RLock()
	c, ok := r.constructors[md.Role()]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, md.Role())
	}
	return c(md)
}

// Roles returns the registered Roles, sorted.
func (r *Roster) Roles() []domain.Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]domain.Role, 0, len(r.constructors))
	for role := range r.constructors {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
