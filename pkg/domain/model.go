package domain

import "reflect"

// Model is the state of a Hollywood application at one instant.
//
//   - Should not block, nor start any goroutine
//   - Should be immutable, so there are no lateral effects from it being passed from Actor to Actor
//   - Is called from a single goroutine, so it will never receive two Actions concurrently
//   - It's ok to return itself from an Action, if no change is needed
//   - Should be a pointer or a comparable value, so composites can deduplicate it
type Model interface {
	// ActUpon generates the successor Model from the receiver and an Action.
	//
	// Returning the receiver is allowed if the Action caused no change.
	// Returning a nil Model (and a nil error) ends the application.
	// A non-nil error is handed to the configured ModelExceptionHandler.
	ActUpon(action Action) (Model, error)

	// Actors returns the complete set of Actors this Model needs alive right
	// now. An empty or nil set means no more Actors are needed.
	Actors() MetadataSet
}

// SubmodelsOf returns m itself if it is a T or, for composite Models, the
// distinct submodels at any depth that are a T.
//
// It lets an Actor focus on the part of a composite Model it cares about:
//
//	for _, prefs := range domain.SubmodelsOf[preferences.Model](m) { ... }
func SubmodelsOf[T Model](m Model) []T {
	if m == nil {
		return nil
	}
	if t, ok := m.(T); ok {
		return []T{t}
	}
	c, ok := m.(*CompositeModel)
	if !ok {
		return nil
	}

	var out []T
	var seen []Model
	for _, sub := range c.models {
		for _, t := range SubmodelsOf[T](sub) {
			if containsModel(seen, t) {
				continue
			}
			seen = append(seen, t)
			out = append(out, t)
		}
	}
	return out
}

// sameModel compares two Models by value when both values are comparable
// (pointers always are), and considers them different otherwise. An
// interface field holding a slice or map makes the value uncomparable.
func sameModel(a, b Model) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}

func containsModel(models []Model, m Model) bool {
	for _, existing := range models {
		if sameModel(existing, m) {
			return true
		}
	}
	return false
}
