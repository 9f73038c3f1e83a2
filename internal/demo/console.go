package demo

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/granchi/hollywood/pkg/actors"
	"github.com/granchi/hollywood/pkg/domain"
)

// Console prints the countdown and announces the liftoff.
type Console struct {
	*actors.Base

	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{Base: actors.NewBase(1), out: out}
}

func (c *Console) SubscribeTo(models <-chan domain.Model) {
	go c.run(models)
}

func (c *Console) run(models <-chan domain.Model) {
	last := -1
	for m := range models {
		for _, cd := range domain.SubmodelsOf[Countdown](m) {
			if cd.Left == last {
				continue
			}
			last = cd.Left

			if cd.Left > 0 {
				c.printf("T-%d\n", cd.Left)
				continue
			}
			c.printf("liftoff!\n")
			if !c.Emit(context.Background(), Liftoff{At: time.Now()}) {
				return
			}
		}
	}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}
