package actors

import (
	"context"
	"time"

	"github.com/granchi/hollywood/pkg/domain"
)

// Ticker emits the same Action every interval until it is torn down.
// Models are read and ignored.
type Ticker struct {
	*Base
	interval time.Duration
	action   domain.Action
}

// NewTicker creates a Ticker. interval must be positive.
func NewTicker(interval time.Duration, action domain.Action) *Ticker {
	return &Ticker{
		Base:     NewBase(0),
		interval: interval,
		action:   action,
	}
}

func (t *Ticker) SubscribeTo(models <-chan domain.Model) {
	go func() {
		for range models {
		}
	}()
	go t.tick()
}

func (t *Ticker) tick() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.Done():
			return
		case <-ticker.C:
			if !t.Emit(context.Background(), t.action) {
				return
			}
		}
	}
}
