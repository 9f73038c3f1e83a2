package runtime_test

import (
	"bytes"
	"errors"
	goruntime "runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/granchi/hollywood/internal/runtime"
	"github.com/granchi/hollywood/pkg/domain"
)

var errBoom = errors.New("boom")

type role string

func (r role) Role() domain.Role { return domain.Role(r) }

type (
	inc        struct{}
	fail       struct{}
	explode    struct{}
	nop        struct{}
	nextPhase  struct{}
	dropActors struct{}
)

// counter ends itself when reaching limit.
type counter struct {
	n, limit int
}

func (c counter) ActUpon(a domain.Action) (domain.Model, error) {
	switch a.(type) {
	case inc:
		if c.n+1 >= c.limit {
			return nil, nil
		}
		return counter{n: c.n + 1, limit: c.limit}, nil
	case fail:
		return nil, errBoom
	case explode:
		panic("kaboom")
	case dropActors:
		return idle{}, nil
	}
	return c, nil
}

func (c counter) Actors() domain.MetadataSet {
	return domain.NewMetadataSet(role("ticker"))
}

// idle wants no actor.
type idle struct{}

func (idle) ActUpon(domain.Action) (domain.Model, error) { return idle{}, nil }
func (idle) Actors() domain.MetadataSet                  { return nil }

// phased wants "a" in phase 0, "a" and "b" in phase 1, only "b" in phase 2.
type phased struct {
	phase int
}

func (p phased) ActUpon(a domain.Action) (domain.Model, error) {
	if _, ok := a.(nextPhase); ok {
		if p.phase == 2 {
			return nil, nil
		}
		return phased{phase: p.phase + 1}, nil
	}
	return p, nil
}

func (p phased) Actors() domain.MetadataSet {
	switch p.phase {
	case 0:
		return domain.NewMetadataSet(role("a"))
	case 1:
		return domain.NewMetadataSet(role("a"), role("b"))
	default:
		return domain.NewMetadataSet(role("b"))
	}
}

// fakeActor runs react on every Model it observes and emits the result.
// When end is set, the stream completes (with err) after the first Model.
// linger delays reading the next Model.
type fakeActor struct {
	react  func(domain.Model) []domain.Action
	end    bool
	err    error
	linger time.Duration

	actions chan domain.Action
	done    chan struct{}
	once    sync.Once

	mu     sync.Mutex
	seen   []domain.Model
	closed bool
}

func newFakeActor(react func(domain.Model) []domain.Action) *fakeActor {
	if react == nil {
		react = func(domain.Model) []domain.Action { return nil }
	}
	return &fakeActor{
		react:   react,
		actions: make(chan domain.Action),
		done:    make(chan struct{}),
	}
}

func (a *fakeActor) SubscribeTo(models <-chan domain.Model) {
	go func() {
		for m := range models {
			a.mu.Lock()
			a.seen = append(a.seen, m)
			a.mu.Unlock()

			for _, action := range a.react(m) {
				select {
				case a.actions <- action:
				case <-a.done:
					return
				}
			}
			if a.end {
				close(a.actions)
				return
			}
			time.Sleep(a.linger)
		}
	}()
}

func (a *fakeActor) Actions() <-chan domain.Action { return a.actions }

func (a *fakeActor) Err() error { return a.err }

func (a *fakeActor) Close() error {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()
		close(a.done)
	})
	return nil
}

func (a *fakeActor) Seen() []domain.Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Model(nil), a.seen...)
}

func (a *fakeActor) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// once emits actions only for the first Model observed.
func once(actions ...domain.Action) func(domain.Model) []domain.Action {
	fired := false
	return func(domain.Model) []domain.Action {
		if fired {
			return nil
		}
		fired = true
		return actions
	}
}

// always emits the same actions for every Model observed.
func always(actions ...domain.Action) func(domain.Model) []domain.Action {
	return func(domain.Model) []domain.Action { return actions }
}

func wait(t *testing.T, exec *runtime.Execution) error {
	t.Helper()
	select {
	case <-exec.Done():
		return exec.Err()
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not terminate")
		return nil
	}
}

func collect(models <-chan domain.Model) <-chan []domain.Model {
	out := make(chan []domain.Model, 1)
	go func() {
		var all []domain.Model
		for m := range models {
			all = append(all, m)
		}
		out <- all
	}()
	return out
}

func goid() uint64 {
	buf := make([]byte, 64)
	buf = buf[:goruntime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	buf = buf[:bytes.IndexByte(buf, ' ')]
	id, _ := strconv.ParseUint(string(buf), 10, 64)
	return id
}
