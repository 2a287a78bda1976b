// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All thresholds and costs are fixed at startup; there is no hot reload.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"

	"github.com/forgewatch/forgewatch/internal/domain/decision"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// HistoryCapacity bounds the in-memory history buffer.
	HistoryCapacity int `koanf:"history_capacity"`

	// TickIntervalMS paces the stream loop, one unit per tick.
	TickIntervalMS int `koanf:"tick_interval_ms"`

	// PublishBuffer sets the per-consumer downstream queue size.
	PublishBuffer int `koanf:"publish_buffer"`

	// StreamCSV points at a prepared sensor stream file. Empty selects
	// the built-in synthetic stream.
	StreamCSV string `koanf:"stream_csv"`

	// SyntheticUnits sets how many units the synthetic stream yields
	// when no csv is configured.
	SyntheticUnits int `koanf:"synthetic_units"`

	// Decision rule thresholds. Each value affects exactly the rule it
	// is named for.
	CriticalProb     float64 `koanf:"critical_prob"`
	CriticalRUL      float64 `koanf:"critical_rul"`
	UrgentProb       float64 `koanf:"urgent_prob"`
	UrgentRUL        float64 `koanf:"urgent_rul"`
	SoonProb         float64 `koanf:"soon_prob"`
	SoonRUL          float64 `koanf:"soon_rul"`
	AnomalyThreshold float64 `koanf:"anomaly_threshold"`

	// Cost model parameters, in currency units.
	MaintenanceCost     float64 `koanf:"maintenance_cost"`
	FailureCost         float64 `koanf:"failure_cost"`
	DowntimeCostPerHour float64 `koanf:"downtime_cost_per_hour"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	d := decision.DefaultConfig()
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		HistoryCapacity:     500,
		TickIntervalMS:      500,
		PublishBuffer:       64,
		SyntheticUnits:      1000,
		CriticalProb:        d.CriticalProb,
		CriticalRUL:         d.CriticalRUL,
		UrgentProb:          d.UrgentProb,
		UrgentRUL:           d.UrgentRUL,
		SoonProb:            d.SoonProb,
		SoonRUL:             d.SoonRUL,
		AnomalyThreshold:    d.AnomalyThreshold,
		MaintenanceCost:     d.MaintenanceCost,
		FailureCost:         d.FailureCost,
		DowntimeCostPerHour: d.DowntimeCostPerHour,
	}
}

// DecisionConfig assembles the engine configuration from the flat keys.
func (c *Config) DecisionConfig() decision.Config {
	return decision.Config{
		CriticalProb:        c.CriticalProb,
		CriticalRUL:         c.CriticalRUL,
		UrgentProb:          c.UrgentProb,
		UrgentRUL:           c.UrgentRUL,
		SoonProb:            c.SoonProb,
		SoonRUL:             c.SoonRUL,
		AnomalyThreshold:    c.AnomalyThreshold,
		MaintenanceCost:     c.MaintenanceCost,
		FailureCost:         c.FailureCost,
		DowntimeCostPerHour: c.DowntimeCostPerHour,
	}
}
