package app

import (
	"time"

	"github.com/forgewatch/forgewatch/internal/adapters/inference"
	"github.com/forgewatch/forgewatch/internal/adapters/ingest"
	"github.com/forgewatch/forgewatch/internal/domain/decision"
	"github.com/forgewatch/forgewatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the unit stream the orchestrator consumes. Required
// before Start.
func WithSource(src ingest.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithBank replaces the default adapter bank.
func WithBank(bank *inference.Bank) Option {
	return func(s *Service) {
		if bank != nil {
			s.bank = bank
		}
	}
}

// WithDecisionConfig sets the engine thresholds and costs. Validation
// happens at Start.
func WithDecisionConfig(cfg decision.Config) Option {
	return func(s *Service) {
		s.decisionCfg = cfg
	}
}

// WithHistoryCapacity bounds the history buffer.
func WithHistoryCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyCapacity = n
		}
	}
}

// WithPublishBuffer sets the per-consumer downstream queue size.
func WithPublishBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.publishBuffer = n
		}
	}
}

// WithTickInterval sets the stream cadence.
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock injects the timestamp source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
