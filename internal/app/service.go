// Package app provides the stream orchestrator: the single producer that
// pulls units from the source, runs inference and the decision engine, and
// feeds the history buffer and downstream consumers.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/forgewatch/forgewatch/internal/adapters/inference"
	"github.com/forgewatch/forgewatch/internal/adapters/ingest"
	"github.com/forgewatch/forgewatch/internal/adapters/publish"
	"github.com/forgewatch/forgewatch/internal/adapters/repository"
	"github.com/forgewatch/forgewatch/internal/domain/decision"
	"github.com/forgewatch/forgewatch/pkg/logger"
	"github.com/forgewatch/forgewatch/pkg/metrics"
)

// State is the orchestrator lifecycle state.
type State string

// Lifecycle states. Stopped is terminal: a stopped orchestrator cannot be
// restarted.
const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateStopped State = "stopped"
)

// Service drives the stream loop. One unit is processed per tick; a tick
// is atomic and never interrupted mid-flight. Pause and stop take effect
// between ticks.
type Service struct {
	mu    sync.Mutex
	state State

	// Collaborators, fixed before the loop starts.
	source    ingest.Source
	bank      *inference.Bank
	engine    *decision.Engine
	history   repository.Store
	publisher *publish.Publisher

	// Configuration
	decisionCfg     decision.Config
	historyCapacity int
	publishBuffer   int
	tickInterval    time.Duration

	// Loop control. tickMu serializes ticks between the ticker loop and
	// external Step calls.
	tickMu    sync.Mutex
	stopCh    chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
	doneOnce  sync.Once
	loopOnce  sync.Once
	exhausted bool

	now func() time.Time
	log logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		state:           StateIdle,
		decisionCfg:     decision.DefaultConfig(),
		historyCapacity: 500,
		publishBuffer:   64,
		tickInterval:    500 * time.Millisecond,
		stopCh:          make(chan struct{}),
		done:            make(chan struct{}),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start moves the orchestrator to RUNNING. From IDLE it initializes every
// collaborator first; model or configuration problems surface here, before
// any unit is processed. From PAUSED it resumes the existing loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StatePaused:
		s.setStateLocked(StateRunning)
		return nil
	case StateRunning:
		return nil
	case StateStopped:
		return fmt.Errorf("%w: cannot start from %s", ErrBadTransition, s.state)
	}

	if s.log == nil {
		s.log = logger.Get().Named("orchestrator")
	}
	if s.source == nil {
		return fmt.Errorf("%w: no stream source configured", ErrBadTransition)
	}
	if s.bank == nil {
		bank, err := inference.NewBank()
		if err != nil {
			return fmt.Errorf("initialize adapter bank: %w", err)
		}
		s.bank = bank
	}
	if s.engine == nil {
		engine, err := decision.New(s.decisionCfg)
		if err != nil {
			return fmt.Errorf("initialize decision engine: %w", err)
		}
		s.engine = engine
	}
	if s.history == nil {
		s.history = repository.NewRingStore(ctx, repository.WithCapacity(s.historyCapacity))
	}
	if s.publisher == nil {
		s.publisher = publish.New(publish.WithBufferSize(s.publishBuffer))
	}

	s.setStateLocked(StateRunning)
	s.loopOnce.Do(func() {
		go s.run(ctx)
	})
	s.log.Info(ctx, "orchestrator started",
		logger.Duration("tick", s.tickInterval),
		logger.Int("history_capacity", s.history.Cap()),
	)
	return nil
}

// Pause suspends the loop between ticks. Only legal from RUNNING.
func (s *Service) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return fmt.Errorf("%w: pause from %s", ErrBadTransition, s.state)
	}
	s.setStateLocked(StatePaused)
	return nil
}

// Stop moves to the terminal STOPPED state from any state. Consumers'
// channels are closed. Stop is idempotent.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(context.Background())
}

func (s *Service) stopLocked(ctx context.Context) {
	if s.state == StateStopped {
		return
	}
	s.setStateLocked(StateStopped)
	s.stopOnce.Do(func() { close(s.stopCh) })
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.log != nil {
		s.log.Info(ctx, "orchestrator stopped", logger.Any("exhausted", s.exhausted))
	}
}

// Step processes exactly one unit. Only legal while PAUSED; step-driven
// operation is pausing the clock and ticking by hand.
func (s *Service) Step(ctx context.Context) error {
	if s.State() != StatePaused {
		return fmt.Errorf("%w: step from %s", ErrBadTransition, s.State())
	}
	return s.processOne(ctx)
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when the loop has exited (stop, cancellation, or stream
// exhaustion).
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// Exhausted reports whether the input stream ended normally.
func (s *Service) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exhausted
}

// Subscribe registers a downstream consumer by name. Results arrive on the
// returned channel; a slow consumer loses oldest results, never slows the
// loop.
func (s *Service) Subscribe(name string) (<-chan publish.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.publisher == nil {
		s.publisher = publish.New(publish.WithBufferSize(s.publishBuffer))
	}
	return s.publisher.Subscribe(name)
}

// Recent returns the last k history entries in insertion order.
func (s *Service) Recent(ctx context.Context, k int) []repository.Entry {
	if s.history == nil {
		return nil
	}
	return s.history.Recent(ctx, k)
}

// History exposes the underlying store for read-only iteration.
func (s *Service) History() repository.Store {
	return s.history
}

// Stats returns orchestrator statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]interface{} {
	s.mu.Lock()
	state := s.state
	exhausted := s.exhausted
	s.mu.Unlock()

	stats := map[string]interface{}{
		"state":            string(state),
		"exhausted":        exhausted,
		"tick_interval_ms": s.tickInterval.Milliseconds(),
	}
	if s.history != nil {
		stats["history_size"] = s.history.Len(ctx)
		stats["history_capacity"] = s.history.Cap()
	}
	if s.publisher != nil {
		stats["consumers"] = s.publisher.ConsumerCount()
	}
	if s.bank != nil {
		stats["models"] = s.bank.Versions()
	}
	return stats
}

func (s *Service) setStateLocked(next State) {
	if s.state == next {
		return
	}
	s.state = next
	metrics.RecordStateTransition(string(next))
}

// run is the ticker loop. It lives from the first Start until stop and
// owns all stream progress while RUNNING.
func (s *Service) run(ctx context.Context) {
	defer s.doneOnce.Do(func() { close(s.done) })

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if s.State() != StateRunning {
				continue
			}
			if err := s.processOne(ctx); err != nil {
				if errors.Is(err, ingest.ErrStreamExhausted) {
					return
				}
				s.log.Error(ctx, "tick failed", logger.Error(err))
				s.Stop()
				return
			}
		}
	}
}

// processOne is one atomic tick: next unit, full adapter run, decision,
// history append, publish. A per-unit model failure degrades the outputs
// but never aborts the tick; only cancellation and stream end do.
func (s *Service) processOne(ctx context.Context) error {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	start := time.Now()

	rec, err := s.source.Next(ctx)
	if err != nil {
		if errors.Is(err, ingest.ErrStreamExhausted) {
			s.mu.Lock()
			s.exhausted = true
			s.stopLocked(ctx)
			s.mu.Unlock()
			return fmt.Errorf("stream ended: %w", err)
		}
		return fmt.Errorf("next unit: %w", err)
	}

	outputs, err := s.bank.Run(ctx, rec)
	if err != nil {
		return fmt.Errorf("unit %d: %w", rec.ID, err)
	}

	d := s.engine.Evaluate(outputs)

	entry := repository.Entry{
		Record:     rec,
		Outputs:    outputs,
		Decision:   d,
		IngestedAt: s.now().UTC(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		return fmt.Errorf("append unit %d: %w", rec.ID, err)
	}
	s.publisher.Publish(ctx, entry)

	metrics.RecordUnitProcessed()
	metrics.RecordDecision(string(d.Action))
	metrics.ObserveTickDuration(time.Since(start).Seconds())

	s.log.Debug(ctx, "unit processed",
		logger.Uint64("unit", rec.ID),
		logger.String("mode", string(outputs.FailureMode)),
		logger.Float64("failure_prob", outputs.FailureProb),
		logger.Float64("rul_min", outputs.RULMinutes),
		logger.String("action", string(d.Action)),
		logger.Int("priority", d.Priority),
		logger.Float64("expected_cost", d.ExpectedCost),
	)
	return nil
}
