package demo_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granchi/hollywood"
	"github.com/granchi/hollywood/internal/demo"
	"github.com/granchi/hollywood/pkg/actors/preferences"
	"github.com/granchi/hollywood/pkg/adapters/memory"
	"github.com/granchi/hollywood/pkg/domain"
)

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

func TestCountdown(t *testing.T) {
	c := demo.Countdown{Left: 1, Interval: time.Second}
	assert.Equal(t, domain.NewMetadataSet(demo.TickerMetadata{Interval: time.Second}, demo.ConsoleMetadata{}), c.Actors())

	next, err := c.ActUpon(demo.Tick{})
	require.NoError(t, err)
	zero := next.(demo.Countdown)
	assert.Equal(t, 0, zero.Left)
	assert.Equal(t, domain.NewMetadataSet(demo.ConsoleMetadata{}), zero.Actors(), "the ticker stops at zero")

	again, err := zero.ActUpon(demo.Tick{})
	require.NoError(t, err)
	assert.Equal(t, zero, again)

	_, err = c.ActUpon(demo.Liftoff{})
	assert.Error(t, err, "liftoff before zero is a bug")

	end, err := zero.ActUpon(demo.Liftoff{})
	require.NoError(t, err)
	assert.Nil(t, end)
}

func run(t *testing.T, store *memory.PreferenceStore, out *syncBuffer) {
	t.Helper()
	initial := demo.Initial(3, time.Millisecond, "countdown")
	app, err := hollywood.New(initial, demo.NewRoster(store, out, nil))
	require.NoError(t, err)

	exec, err := app.Run(context.Background())
	require.NoError(t, err)
	select {
	case <-exec.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("demo did not terminate")
	}
	require.NoError(t, exec.Err())
}

func TestDemo_EndToEnd(t *testing.T) {
	store := memory.NewPreferenceStore()
	ctx := context.Background()

	out := &syncBuffer{}
	run(t, store, out)
	assert.Equal(t, "T-3\nT-2\nT-1\nliftoff!\n", out.String())

	values, err := store.Load(ctx, "countdown")
	require.NoError(t, err)
	assert.Equal(t, 1, values["runs"])
	assert.NotEmpty(t, values["last_liftoff"])

	run(t, store, &syncBuffer{})
	values, err = store.Load(ctx, "countdown")
	require.NoError(t, err)
	assert.Equal(t, 2, values["runs"])
}

func TestHistory_WaitsForLoad(t *testing.T) {
	initial := demo.Initial(1, time.Second, "ns")
	histories := domain.SubmodelsOf[demo.History](initial)
	require.Len(t, histories, 1)
	h := histories[0]
	assert.Nil(t, h.Values(), "nothing to save before loading")

	next, err := h.ActUpon(preferences.Loaded{Namespace: "ns", Values: map[string]any{"runs": float64(4)}, Found: true})
	require.NoError(t, err)
	loaded := next.(demo.History)
	assert.Equal(t, 4, loaded.Runs)
	assert.Equal(t, 4, loaded.Values()["runs"])

	other, err := h.ActUpon(preferences.Loaded{Namespace: "other"})
	require.NoError(t, err)
	assert.Nil(t, other.(demo.History).Values())
}

func TestHistory_LiftoffBeforeLoad(t *testing.T) {
	h := domain.SubmodelsOf[demo.History](demo.Initial(1, time.Second, "ns"))[0]
	early, err := h.ActUpon(demo.Liftoff{At: time.Now()})
	require.NoError(t, err)
	assert.Nil(t, early.(demo.History).Values())

	loaded, err := early.ActUpon(preferences.Loaded{Namespace: "ns", Values: map[string]any{"runs": 2}, Found: true})
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.(demo.History).Runs)
}

func TestHistory_Closing(t *testing.T) {
	h := domain.SubmodelsOf[demo.History](demo.Initial(1, time.Second, "ns"))[0]
	next, err := h.ActUpon(preferences.Loaded{Namespace: "ns", Values: map[string]any{}})
	require.NoError(t, err)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	closing, err := next.ActUpon(demo.Liftoff{At: at})
	require.NoError(t, err)
	require.Equal(t, 1, closing.(demo.History).Runs)
	assert.Equal(t, "2026-01-02T03:04:05Z", closing.(demo.History).LastLiftoff)

	stale, err := closing.ActUpon(preferences.Saved{Namespace: "ns", Values: map[string]any{"runs": 0}})
	require.NoError(t, err)
	assert.NotNil(t, stale, "an earlier save does not end the history")

	end, err := closing.ActUpon(preferences.Saved{Namespace: "ns", Values: map[string]any{"runs": 1}})
	require.NoError(t, err)
	assert.Nil(t, end)
}
