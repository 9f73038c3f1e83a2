package actors

import (
	"fmt"
	"log/slog"

	"github.com/granchi/hollywood/internal/logging"
	"github.com/granchi/hollywood/pkg/domain"
)

// Stub logs every Model it receives and never emits.
type Stub struct {
	*Base
	logger *slog.Logger
}

// NewStub creates a Stub. A nil logger discards the output.
func NewStub(logger *slog.Logger) *Stub {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stub{Base: NewBase(0), logger: logger}
}

func (s *Stub) SubscribeTo(models <-chan domain.Model) {
	go func() {
		for m := range models {
			s.logger.Info("model received", "model", fmt.Sprintf("%v", m))
		}
	}()
}
