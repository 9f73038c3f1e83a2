package crew

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/granchi/hollywood/internal/logging"
	"github.com/granchi/hollywood/internal/mailbox"
	"github.com/granchi/hollywood/pkg/domain"
)

// ErrDrained is returned by Next when every Actor stream has completed and
// no Action is pending.
var ErrDrained = mailbox.ErrDrained

// ErrClosed is returned by Next after Close.
var ErrClosed = mailbox.ErrClosed

// ModelFeed hands out subscriptions to the Model broadcast.
//
// The feed must be hot: it is subscribed by every future Actor, and each new
// subscriber receives the latest Model and the following ones.
type ModelFeed interface {
	Subscribe() (models <-chan domain.Model, cancel func())
}

// BuildError reports an Actor that could not be built during Reconcile.
type BuildError struct {
	Metadata domain.ActorMetadata
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build actor %v: %v", e.Metadata, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

type entry struct {
	Entry

	cancelModels func()
	stop         chan struct{}
}

// Crew stores all the active Actors, creating or removing them according to
// the ActorMetadata that the Model provides.
type Crew struct {
	factory Factory
	feed    ModelFeed
	matcher Matcher
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	runID   string

	mailbox *mailbox.Mailbox

	mu      sync.Mutex
	entries []*entry
	closed  bool
}

// New creates an empty Crew building Actors with factory and subscribing
// them to feed.
func New(factory Factory, feed ModelFeed, opts ...Option) (*Crew, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	if feed == nil {
		return nil, errors.New("nil model feed")
	}

	c := &Crew{
		factory: factory,
		feed:    feed,
		matcher: MetadataMatcher,
		logger:  logging.NewNop(),
		mailbox: mailbox.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Reconcile ensures the Crew contains every wanted Actor and no more.
//
// Missing Actors are built, subscribed to the Model feed and their Actions
// merged into Next. Live Actors not matched by any wanted metadata are
// unsubscribed first and then torn down. Actors already live are left alone.
//
// A build failure aborts the call with a *BuildError; Actors built before it
// in the same call stay live.
func (c *Crew) Reconcile(ctx context.Context, wanted domain.MetadataSet) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	for _, md := range wanted.Slice() {
		if c.has(md) {
			continue
		}
		if err := c.enlist(ctx, md); err != nil {
			return err
		}
	}

	for _, e := range c.unwanted(wanted) {
		c.dismiss(ctx, e, true)
	}
	return nil
}

// Next blocks until an Action from any live Actor is available.
//
// It returns a *domain.ActorError if an Actor stream failed, ErrDrained if
// every stream completed, ErrClosed after Close, or the context error.
func (c *Crew) Next(ctx context.Context) (domain.Action, error) {
	env, err := c.mailbox.Next(ctx)
	if err != nil {
		return nil, err
	}
	if env.Err != nil {
		return nil, env.Err
	}
	return env.Action, nil
}

// Len returns the number of live Actors.
func (c *Crew) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Entries returns a snapshot of the live Actors, in creation order.
func (c *Crew) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Entry
	}
	return out
}

// Close tears every Actor down and closes the merged stream.
// Model feeds are left open, so close the feed first: each Actor then
// still reads what was buffered for it before its channel closes.
// Close is idempotent.
func (c *Crew) Close(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	entries := make([]*entry, len(c.entries))
	copy(entries, c.entries)
	c.mu.Unlock()

	for _, e := range entries {
		c.dismiss(ctx, e, false)
	}
	c.mailbox.Close()
}

func (c *Crew) has(md domain.ActorMetadata) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if c.matcher(e.Entry, md) {
			return true
		}
	}
	return false
}

func (c *Crew) unwanted(wanted domain.MetadataSet) []*entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*entry
	for _, e := range c.entries {
		keep := false
		for md := range wanted {
			if c.matcher(e.Entry, md) {
				keep = true
				break
			}
		}
		if !keep {
			out = append(out, e)
		}
	}
	return out
}

// enlist builds one Actor and wires it to the feed and the mailbox.
func (c *Crew) enlist(ctx context.Context, md domain.ActorMetadata) error {
	actor, err := c.build(md)
	if err != nil {
		c.logger.Error("failed to build actor", "role", md.Role(), "metadata", md, "err", err)
		return &BuildError{Metadata: md, Err: err}
	}

	e := &entry{
		Entry: Entry{
			ID:       uuid.NewString(),
			Metadata: md,
			Actor:    actor,
		},
		stop: make(chan struct{}),
	}

	models, cancel := c.feed.Subscribe()
	e.cancelModels = cancel
	actor.SubscribeTo(models)

	// Open before forwarding, so the mailbox never looks drained in between.
	c.mailbox.Open(e.ID)
	go c.forward(e)

	c.mu.Lock()
	c.entries = append(c.entries, e)
	c.mu.Unlock()

	c.logger.Debug("actor started", "entry_id", e.ID, "role", md.Role())
	if c.hooks.OnActorStart != nil {
		c.hooks.OnActorStart(ctx, c.event(domain.EventActorStart, e))
	}
	return nil
}

// build calls the factory, turning panics into errors.
func (c *Crew) build(md domain.ActorMetadata) (actor domain.Actor, err error) {
	defer func() {
		if r := recover(); r != nil {
			actor = nil
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()

	actor, err = c.factory.Build(md)
	if err == nil && actor == nil {
		err = ErrNilActor
	}
	return actor, err
}

// dismiss unsubscribes an Actor's Actions, then tears it down and, when
// cancelFeed is set, drops its pending Models and closes its feed.
func (c *Crew) dismiss(ctx context.Context, e *entry, cancelFeed bool) {
	c.mu.Lock()
	for i, existing := range c.entries {
		if existing == e {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	close(e.stop)
	purged := c.mailbox.Revoke(e.ID)

	if closer, ok := e.Actor.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.logger.Warn("failed to close actor", "entry_id", e.ID, "role", e.Metadata.Role(), "err", err)
		}
	}
	if cancelFeed {
		e.cancelModels()
	}

	c.logger.Debug("actor stopped", "entry_id", e.ID, "role", e.Metadata.Role(), "purged_actions", purged)
	if c.hooks.OnActorStop != nil {
		c.hooks.OnActorStop(ctx, c.event(domain.EventActorStop, e))
	}
}

// forward copies an Actor's Actions into the mailbox until the stream ends
// or the Actor is dismissed.
func (c *Crew) forward(e *entry) {
	actions := e.Actor.Actions()
	for {
		select {
		case <-e.stop:
			return
		case action, ok := <-actions:
			if !ok {
				c.complete(e)
				return
			}
			if !c.mailbox.Post(e.ID, action) {
				return
			}
		}
	}
}

func (c *Crew) complete(e *entry) {
	if f, ok := e.Actor.(domain.Failer); ok {
		if err := f.Err(); err != nil {
			c.mailbox.Fail(e.ID, &domain.ActorError{Metadata: e.Metadata, Err: err})
			return
		}
	}
	c.logger.Debug("actor stream completed", "entry_id", e.ID, "role", e.Metadata.Role())
	c.mailbox.Complete(e.ID)
}

func (c *Crew) event(t domain.EventType, e *entry) *domain.ActorEvent {
	return &domain.ActorEvent{
		EventBase: domain.NewEventBase(t, c.runID),
		EntryID:   e.ID,
		Role:      e.Metadata.Role(),
		Metadata:  e.Metadata,
	}
}
