package hollywood_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granchi/hollywood"
	"github.com/granchi/hollywood/pkg/actors"
	"github.com/granchi/hollywood/pkg/crew"
	"github.com/granchi/hollywood/pkg/domain"
	"github.com/granchi/hollywood/pkg/recovery"
)

type emitter struct {
	Script string
}

func (emitter) Role() domain.Role { return "emitter" }

type (
	a1 struct{}
	a2 struct{}
	a3 struct{}
)

var errBoom = errors.New("boom")

// journal records every Action a Model acts upon.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, s)
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// scene is M0 or M1 depending on step.
type scene struct {
	step   int
	failA1 bool
	log    *journal
}

func (s scene) ActUpon(action domain.Action) (domain.Model, error) {
	switch action.(type) {
	case a1:
		s.log.add("a1")
		if s.failA1 {
			return nil, errBoom
		}
		return scene{step: 1, log: s.log}, nil
	case a2:
		s.log.add("a2")
		return nil, nil
	case a3:
		s.log.add("a3")
	}
	return s, nil
}

func (s scene) Actors() domain.MetadataSet {
	return domain.NewMetadataSet(emitter{Script: "a1,a2,a3"})
}

// scripted emits its actions once, on the first Model.
type scripted struct {
	*actors.Base
	actions []domain.Action
}

func (s *scripted) SubscribeTo(models <-chan domain.Model) {
	go func() {
		first := true
		for range models {
			if !first {
				continue
			}
			first = false
			for _, a := range s.actions {
				if !s.Emit(context.Background(), a) {
					return
				}
			}
		}
	}()
}

func roster() *crew.Roster {
	return crew.NewRoster().MustRegister("emitter", crew.Typed(func(emitter) (domain.Actor, error) {
		return &scripted{Base: actors.NewBase(0), actions: []domain.Action{a1{}, a2{}, a3{}}}, nil
	}))
}

func runToEnd(t *testing.T, app *hollywood.Application) ([]domain.Model, error) {
	t.Helper()
	models, _ := app.Subscribe()
	done := make(chan []domain.Model, 1)
	go func() {
		var seen []domain.Model
		for m := range models {
			seen = append(seen, m)
		}
		done <- seen
	}()

	exec, err := app.Run(context.Background())
	require.NoError(t, err)
	select {
	case <-exec.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("application did not terminate")
	}
	return <-done, exec.Err()
}

func TestApplication_EndToEnd(t *testing.T) {
	log := &journal{}
	m0 := scene{log: log}

	app, err := hollywood.New(m0, roster(), hollywood.WithRunID("e2e"))
	require.NoError(t, err)
	assert.Equal(t, "e2e", app.ID())
	assert.Equal(t, hollywood.StateIdle, app.State())

	seen, err := runToEnd(t, app)
	require.NoError(t, err)

	assert.Equal(t, []domain.Model{m0, scene{step: 1, log: log}}, seen)
	assert.Equal(t, []string{"a1", "a2"}, log.all(), "nothing is processed after the terminating action")
	assert.Equal(t, hollywood.StateTerminated, app.State())

	_, err = app.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrAlreadyRun)
}

func TestApplication_ExceptionRecovery(t *testing.T) {
	log := &journal{}
	m0 := scene{failA1: true, log: log}

	var sunk []error
	sink := recovery.SinkFunc(func(_ domain.Model, _ domain.Action, err error) { sunk = append(sunk, err) })

	app, err := hollywood.New(m0, roster(), hollywood.WithExceptionHandler(recovery.LogAndReinstate(sink)))
	require.NoError(t, err)

	seen, err := runToEnd(t, app)
	require.NoError(t, err)

	// a1 failed and left M0 in place; a2 was applied to M0 and ended the run.
	assert.Equal(t, []domain.Model{m0, m0}, seen)
	assert.Equal(t, []string{"a1", "a2"}, log.all())
	require.Len(t, sunk, 1)
	assert.ErrorIs(t, sunk[0], errBoom)
}

func TestApplication_FailsWithoutHandler(t *testing.T) {
	app, err := hollywood.New(scene{failA1: true, log: &journal{}}, roster())
	require.NoError(t, err)

	_, err = runToEnd(t, app)
	var terr *domain.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, a1{}, terr.Action)
}

func TestApplication_LogsThroughDefaultLogger(t *testing.T) {
	var buf syncBuffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	app, err := hollywood.New(scene{failA1: true, log: &journal{}}, roster())
	require.NoError(t, err)

	_, err = runToEnd(t, app)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "transition failed")
	assert.Contains(t, buf.String(), "engine terminated")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNew_Validation(t *testing.T) {
	_, err := hollywood.New(nil, roster())
	assert.ErrorIs(t, err, domain.ErrNilModel)

	_, err = hollywood.New(scene{}, nil)
	assert.ErrorIs(t, err, crew.ErrNilFactory)
}

// tab wants one Actor per key, all sharing a Role.
type tab struct{ key int }

func (tab) Role() domain.Role { return "tab" }

type tabs struct{ keys []int }

func (t *tabs) ActUpon(domain.Action) (domain.Model, error) { return nil, nil }
func (t *tabs) Actors() domain.MetadataSet {
	set := domain.NewMetadataSet()
	for _, k := range t.keys {
		set.Add(tab{key: k})
	}
	return set
}

func TestApplication_SingleInstance(t *testing.T) {
	var built int
	var mu sync.Mutex
	r := crew.NewRoster().MustRegister("tab", func(domain.ActorMetadata) (domain.Actor, error) {
		mu.Lock()
		built++
		mu.Unlock()
		b := actors.NewBase(0)
		return &scripted{Base: b, actions: []domain.Action{a1{}}}, nil
	})

	app, err := hollywood.New(&tabs{keys: []int{1, 2, 3}}, r, hollywood.WithSingleInstance())
	require.NoError(t, err)

	_, err = runToEnd(t, app)
	require.NoError(t, err)
	assert.Equal(t, 1, built)
}
