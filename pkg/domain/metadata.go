package domain

import (
	"fmt"
	"sort"
)

// Role names a variant of Actor.
//
// A Role is the tag a crew.Roster uses to pick the constructor for a
// metadata value, so every ActorMetadata reports the Role it belongs to.
type Role string

// ActorMetadata describes one desired Actor instance and carries whatever
// parameters are needed to build it.
//
// It is what a Model outputs when it wants an Actor to be alive. Values must
// be immutable and comparable (usable as map keys): the crew deduplicates and
// diffs metadata sets cycle over cycle using plain equality. Storing an
// incomparable value (e.g. a struct holding a slice) in a MetadataSet panics,
// like any other map key would.
type ActorMetadata interface {
	Role() Role
}

// SingleInstance is metadata for Actors that are identified only by their
// type. There can be at most one live Actor per Type when the crew uses the
// single-instance matcher.
type SingleInstance struct {
	// Type is the fully qualified identifier of the Actor type,
	// e.g. "github.com/acme/app/actors.Console".
	Type string
}

// Role returns the Actor type as its Role.
func (m SingleInstance) Role() Role {
	return Role(m.Type)
}

func (m SingleInstance) String() string {
	return "single:" + m.Type
}

// MetadataSet is an unordered set of ActorMetadata.
//
// A nil MetadataSet is a valid empty set, and means the same as an empty one:
// no Actors are wanted.
type MetadataSet map[ActorMetadata]struct{}

// NewMetadataSet builds a set from the given metadata, skipping nils.
func NewMetadataSet(metadatas ...ActorMetadata) MetadataSet {
	set := make(MetadataSet, len(metadatas))
	for _, md := range metadatas {
		set.Add(md)
	}
	return set
}

// Add inserts a metadata value. Nil values are ignored.
func (s MetadataSet) Add(md ActorMetadata) {
	if md == nil {
		return
	}
	s[md] = struct{}{}
}

// Contains reports whether md is in the set.
func (s MetadataSet) Contains(md ActorMetadata) bool {
	if md == nil {
		return false
	}
	_, ok := s[md]
	return ok
}

// Len returns the number of distinct metadata values.
func (s MetadataSet) Len() int {
	return len(s)
}

// Union returns a new set with the content of s and every other set.
func (s MetadataSet) Union(others ...MetadataSet) MetadataSet {
	out := make(MetadataSet, len(s))
	for md := range s {
		out[md] = struct{}{}
	}
	for _, other := range others {
		for md := range other {
			out[md] = struct{}{}
		}
	}
	return out
}

// Slice returns the metadata in a deterministic order (by Role, then by
// printed value). Useful for logging and tests; the set itself has no order.
func (s MetadataSet) Slice() []ActorMetadata {
	out := make([]ActorMetadata, 0, len(s))
	for md := range s {
		out = append(out, md)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Role(), out[j].Role()
		if ri != rj {
			return ri < rj
		}
		return fmt.Sprint(out[i]) < fmt.Sprint(out[j])
	})
	return out
}

// Roles returns the distinct Roles present in the set, sorted.
func (s MetadataSet) Roles() []Role {
	seen := make(map[Role]struct{}, len(s))
	roles := make([]Role, 0, len(s))
	for md := range s {
		r := md.Role()
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
