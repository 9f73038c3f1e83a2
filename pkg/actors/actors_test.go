package actors_test

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

	"github.com/granchi/hollywood/internal/logging"
	"github.com/granchi/hollywood/pkg/actors"
	"github.com/granchi/hollywood/pkg/domain"
)

type tick struct{}

type model struct{ n int }

func (m model) ActUpon(domain.Action) (domain.Model, error) { return m, nil }
func (m model) Actors() domain.MetadataSet                  { return nil }

// Compile-time checks of the optional interfaces the crew looks for.
var (
	_ domain.Actor  = (*actors.Stub)(nil)
	_ domain.Failer = (*actors.Base)(nil)
)

func TestBase_EmitAndFinish(t *testing.T) {
	b := actors.NewBase(2)
	ctx := context.Background()

	assert.True(t, b.Emit(ctx, 1))
	assert.True(t, b.Emit(ctx, 2))

	boom := errors.New("boom")
	b.Finish(boom)
	b.Finish(nil)

	assert.False(t, b.Emit(ctx, 3))
	assert.Equal(t, boom, b.Err())

	var got []domain.Action
	for a := range b.Actions() {
		got = append(got, a)
	}
	assert.Equal(t, []domain.Action{1, 2}, got)
}

func TestBase_CloseUnblocksEmit(t *testing.T) {
	b := actors.NewBase(0)

	result := make(chan bool, 1)
	go func() { result <- b.Emit(context.Background(), tick{}) }()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	select {
	case ok := <-result:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Emit still blocked after Close")
	}
	<-b.Done()
}

func TestBase_EmitHonorsContext(t *testing.T) {
	b := actors.NewBase(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, b.Emit(ctx, tick{}))
}

func TestStub(t *testing.T) {
	var mu sync.Mutex
	var buf bytes.Buffer
	s := actors.NewStub(logging.NewWithWriter(&safeWriter{mu: &mu, w: &buf}, slog.LevelInfo, false))

	models := make(chan domain.Model, 1)
	s.SubscribeTo(models)
	models <- model{n: 7}
	close(models)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return bytes.Contains(buf.Bytes(), []byte("model received"))
	}, time.Second, 5*time.Millisecond)

	select {
	case <-s.Actions():
		t.Fatal("stub must not emit")
	default:
	}
}

func TestTicker(t *testing.T) {
	tk := actors.NewTicker(5*time.Millisecond, tick{})
	models := make(chan domain.Model)
	tk.SubscribeTo(models)

	for i := 0; i < 3; i++ {
		select {
		case a := <-tk.Actions():
			assert.Equal(t, tick{}, a)
		case <-time.After(time.Second):
			t.Fatal("no tick")
		}
	}

	require.NoError(t, tk.Close())
	close(models)
	assert.NoError(t, tk.Err())
}

type safeWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (s *safeWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
