package crew

import "github.com/granchi/hollywood/pkg/domain"

// Entry is a read-only view of a live Actor in the Crew.
type Entry struct {
	ID       string
	Metadata domain.ActorMetadata
	Actor    domain.Actor
}

// Matcher says whether a live entry is the Actor wanted by a metadata value.
// The Crew uses it both to skip building Actors that already exist and to
// find the ones that are not wanted anymore.
type Matcher func(e Entry, wanted domain.ActorMetadata) bool

// MetadataMatcher matches an entry built from metadata equal to wanted.
// It is the default: every distinct metadata value gets its own Actor.
func MetadataMatcher(e Entry, wanted domain.ActorMetadata) bool {
	return e.Metadata == wanted
}

// SingleInstanceMatcher matches on Role only, so there can be no more than
// one live Actor per Role regardless of the rest of the metadata.
func SingleInstanceMatcher(e Entry, wanted domain.ActorMetadata) bool {
	return e.Metadata != nil && wanted != nil && e.Metadata.Role() == wanted.Role()
}
