// Package stream provides the multicast feed used to hand Models to Actors.
package stream

import "sync"

// Broadcaster is a single-producer multicast stream with latest-value replay.
//
// New subscribers first receive the most recently published value (if any)
// and then every later one, in order and without gaps. Each subscriber has an
// unbounded buffer, so Publish never blocks on a slow reader.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	latest T
	has    bool
	closed bool
	subs   map[*subscription[T]]struct{}
}

// NewBroadcaster creates an open Broadcaster with no value.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{
		subs: make(map[*subscription[T]]struct{}),
	}
}

// Publish sends v to every subscriber and remembers it as the latest value.
// It returns false if the Broadcaster is closed.
func (b *Broadcaster[T]) Publish(v T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}
	b.latest = v
	b.has = true
	for s := range b.subs {
		s.push(v)
	}
	return true
}

// Subscribe returns a channel with the latest value and all future ones, and
// a function to cancel the subscription. The channel is closed after Close
// (once buffered values are read) or right after cancel.
//
// Subscribing to a closed Broadcaster returns an already closed channel.
func (b *Broadcaster[T]) Subscribe() (<-chan T, func()) {
	s := newSubscription[T]()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.finish()
		go s.pump()
		return s.out, func() {}
	}
	if b.has {
		s.push(b.latest)
	}
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	go s.pump()

	return s.out, func() {
		b.mu.Lock()
		delete(b.subs, s)
		b.mu.Unlock()
		s.cancel()
	}
}

// Latest returns the last published value, if any.
func (b *Broadcaster[T]) Latest() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.has
}

// Len returns the number of active subscriptions.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close completes the stream. Subscribers still receive what was already
// published to them, then their channel is closed. Close is idempotent.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		s.finish()
	}
	b.subs = nil
}

// subscription buffers values for one reader and pumps them into out.
type subscription[T any] struct {
	mu       sync.Mutex
	queue    []T
	finished bool
	wake     chan struct{}
	done     chan struct{}
	once     sync.Once
	out      chan T
}

func newSubscription[T any]() *subscription[T] {
	return &subscription[T]{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		out:  make(chan T),
	}
}

func (s *subscription[T]) push(v T) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, v)
	s.mu.Unlock()
	s.signal()
}

// finish marks the end of the stream; buffered values are still delivered.
func (s *subscription[T]) finish() {
	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
	s.signal()
}

// cancel drops buffered values and closes out as soon as possible.
func (s *subscription[T]) cancel() {
	s.once.Do(func() { close(s.done) })
}

func (s *subscription[T]) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription[T]) pump() {
	defer close(s.out)

	var zero T
	for {
		select {
		case <-s.done:
			return
		default:
		}

		s.mu.Lock()
		if len(s.queue) == 0 {
			finished := s.finished
			s.mu.Unlock()
			if finished {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		v := s.queue[0]
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
