// Package actors provides building blocks for writing Actors.
//
// Base owns the Actions stream and its teardown, so a concrete Actor only has
// to embed it and implement SubscribeTo:
//
//	type Clock struct {
//		*actors.Base
//	}
//
//	func (c *Clock) SubscribeTo(models <-chan domain.Model) {
//		go func() {
//			for range models {
//				c.Emit(context.Background(), Now(time.Now()))
//			}
//		}()
//	}
package actors
