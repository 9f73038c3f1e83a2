package actors

import (
	"context"
	"sync"

	"github.com/granchi/hollywood/pkg/domain"
)

// Base implements the Actions side of an Actor.
//
// Emit sends on the stream, Finish completes it (optionally with an error
// reported through Err) and Close, called by the crew on teardown, unblocks
// pending emissions. Base is safe for concurrent use.
type Base struct {
	actions chan domain.Action
	done    chan struct{}

	closeOnce sync.Once
	mu        sync.RWMutex
	finished  bool
	err       error
}

// NewBase creates a Base whose stream buffers up to buffer Actions.
func NewBase(buffer int) *Base {
	if buffer < 0 {
		buffer = 0
	}
	return &Base{
		actions: make(chan domain.Action, buffer),
		done:    make(chan struct{}),
	}
}

// Actions returns the stream of emitted Actions.
func (b *Base) Actions() <-chan domain.Action {
	return b.actions
}

// Emit sends an Action. It blocks until the Action is queued, and returns
// false if ctx is done, the Actor was closed or its stream finished.
func (b *Base) Emit(ctx context.Context, action domain.Action) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.finished {
		return false
	}
	select {
	case b.actions <- action:
		return true
	case <-b.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Finish completes the stream. A non-nil err ends the application with an
// actor error. Only the first call has an effect.
func (b *Base) Finish(err error) {
	// Unblock emitters holding the read lock.
	b.closeDone()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished {
		return
	}
	b.finished = true
	b.err = err
	close(b.actions)
}

// Err returns the error the stream finished with.
func (b *Base) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// Done is closed when the Actor is torn down or its stream finished.
func (b *Base) Done() <-chan struct{} {
	return b.done
}

// Close marks the Actor as torn down. It is idempotent.
func (b *Base) Close() error {
	b.closeDone()
	return nil
}

func (b *Base) closeDone() {
	b.closeOnce.Do(func() { close(b.done) })
}
