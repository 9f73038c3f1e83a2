// Package mailbox implements the queue where every Actor's Actions meet before
// reaching the engine.
package mailbox

import (
	"context"
	"errors"
	"sync"

	"github.com/granchi/hollywood/pkg/domain"
)

var (
	// ErrDrained is returned by Next when the queue is empty and no open
	// sender is left, so nothing can ever arrive.
	ErrDrained = errors.New("mailbox drained")

	// ErrClosed is returned by Next after Close.
	ErrClosed = errors.New("mailbox closed")
)

// Envelope is one item of the queue: an Action, or the error that ended a
// sender's stream.
type Envelope struct {
	Sender string
	Action domain.Action
	Err    error
}

// Mailbox is an unbounded multi-producer, single-consumer queue.
//
// Producers are identified by a sender ID and must be opened before posting.
// Revoking a sender is atomic with respect to Post: once Revoke returns, no
// envelope of that sender is queued nor will ever be.
type Mailbox struct {
	mu      sync.Mutex
	queue   []Envelope
	senders map[string]struct{}
	closed  bool
	wake    chan struct{}
}

// New creates an empty Mailbox.
func New() *Mailbox {
	return &Mailbox{
		senders: make(map[string]struct{}),
		wake:    make(chan struct{}, 1),
	}
}

// Open registers a sender.
func (m *Mailbox) Open(sender string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.senders[sender] = struct{}{}
}

// Post enqueues an Action. It returns false if the sender is not open
// (never opened, completed, revoked) or the Mailbox is closed.
func (m *Mailbox) Post(sender string, action domain.Action) bool {
	return m.enqueue(Envelope{Sender: sender, Action: action}, false)
}

// Fail enqueues the error that ended a sender's stream and closes the sender.
func (m *Mailbox) Fail(sender string, err error) bool {
	return m.enqueue(Envelope{Sender: sender, Err: err}, true)
}

// Complete closes a sender whose stream ended normally. Its queued Actions
// are still delivered.
func (m *Mailbox) Complete(sender string) {
	m.mu.Lock()
	delete(m.senders, sender)
	m.mu.Unlock()
	// Next may be waiting for a drained condition.
	m.signal()
}

// Revoke closes a sender and purges its pending envelopes.
// It returns how many envelopes were dropped.
func (m *Mailbox) Revoke(sender string) int {
	m.mu.Lock()
	delete(m.senders, sender)

	kept := m.queue[:0]
	for _, env := range m.queue {
		if env.Sender != sender {
			kept = append(kept, env)
		}
	}
	purged := len(m.queue) - len(kept)
	for i := len(kept); i < len(m.queue); i++ {
		m.queue[i] = Envelope{}
	}
	m.queue = kept
	m.mu.Unlock()

	m.signal()
	return purged
}

// Next blocks until an envelope is available, and returns it in arrival order.
func (m *Mailbox) Next(ctx context.Context) (Envelope, error) {
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return Envelope{}, ErrClosed
		}
		if len(m.queue) > 0 {
			env := m.queue[0]
			m.queue[0] = Envelope{}
			m.queue = m.queue[1:]
			m.mu.Unlock()
			return env, nil
		}
		if len(m.senders) == 0 {
			m.mu.Unlock()
			return Envelope{}, ErrDrained
		}
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return Envelope{}, ctx.Err()
		case <-m.wake:
		}
	}
}

// Len returns the number of queued envelopes.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Senders returns the number of open senders.
func (m *Mailbox) Senders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.senders)
}

// Close discards everything and rejects further posts.
func (m *Mailbox) Close() {
	m.mu.Lock()
	m.closed = true
	m.queue = nil
	m.senders = make(map[string]struct{})
	m.mu.Unlock()
	m.signal()
}

func (m *Mailbox) enqueue(env Envelope, last bool) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	if _, ok := m.senders[env.Sender]; !ok {
		m.mu.Unlock()
		return false
	}
	m.queue = append(m.queue, env)
	if last {
		delete(m.senders, env.Sender)
	}
	m.mu.Unlock()

	m.signal()
	return true
}

func (m *Mailbox) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
