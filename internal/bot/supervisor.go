package bot

import (
	"log/slog"
	"sync"
	"sync/atomic"

	botCtx "github.com/filipesarturi/summoner/internal/context"
	"github.com/filipesarturi/summoner/internal/shop"
	"github.com/filipesarturi/summoner/internal/utils"
	"github.com/google/uuid"
)

// ContextFactory builds the per-run context. Capture and input resources are acquired here and
// belong to that run only.
type ContextFactory func(runID string, running *utils.Flag) *botCtx.Context

// Supervisor owns the single worker goroutine. Start and RequestStop are the only ways the
// foreground influences a run.
type Supervisor struct {
	logger     *slog.Logger
	newContext ContextFactory

	running utils.Flag
	// active stays set from Start until the worker goroutine has fully returned.
	active atomic.Bool

	mu   sync.Mutex
	done chan struct{}
}

func NewSupervisor(logger *slog.Logger, factory ContextFactory) *Supervisor {
	done := make(chan struct{})
	close(done)

	return &Supervisor{
		logger:     logger,
		newContext: factory,
		done:       done,
	}
}

// Start launches a worker for the selection. It returns false, doing nothing, when a worker
// is already active.
func (s *Supervisor) Start(selection []shop.Pack) bool {
	if !s.active.CompareAndSwap(false, true) {
		return false
	}

	runID := uuid.NewString()
	done := make(chan struct{})
	s.mu.Lock()
	s.done = done
	s.mu.Unlock()

	s.running.Set()
	s.logger.Info("Starting worker", slog.String("run", runID), slog.Int("packs", len(selection)))

	go func() {
		defer func() {
			s.running.Clear()
			s.active.Store(false)
			close(done)
			s.logger.Info("Worker finished", slog.String("run", runID))
		}()

		NewBot(s.newContext(runID, &s.running), selection).Run()
	}()

	return true
}

// RequestStop asks the worker to stop at its next suspension point. It does not wait.
func (s *Supervisor) RequestStop() {
	if s.running.IsSet() {
		s.logger.Info("Stop requested")
	}
	s.running.Clear()
}

// Running reports whether a worker is active.
func (s *Supervisor) Running() bool {
	return s.active.Load()
}

// Done is closed when the current, or last, worker returns.
func (s *Supervisor) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Wait blocks until the current worker returns.
func (s *Supervisor) Wait() {
	<-s.Done()
}
