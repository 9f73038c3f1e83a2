package domain

// Action is an immutable request for a state transition.
//
// Actions are emitted by Actors as the only way to affect the Model. All of
// them are consumed by the Model on a single goroutine, so they are inherently
// enqueued: a Model never observes two Actions at once.
//
// Any value can be an Action. Plain structs are preferred, so that Models can
// switch on their concrete type:
//
//	switch a := action.(type) {
//	case AddTask:
//		...
//	}
type Action any
