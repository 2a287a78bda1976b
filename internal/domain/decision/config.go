package decision

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks threshold or cost values that violate the required
// ordering. Fatal at startup; the engine refuses to construct.
var ErrInvalidConfig = errors.New("invalid decision config")

// Config groups the named thresholds and cost parameters of the rule
// cascade. Each threshold affects exactly the rule it is named for.
type Config struct {
	CriticalProb     float64 `koanf:"critical_prob"`
	CriticalRUL      float64 `koanf:"critical_rul"`
	UrgentProb       float64 `koanf:"urgent_prob"`
	UrgentRUL        float64 `koanf:"urgent_rul"`
	SoonProb         float64 `koanf:"soon_prob"`
	SoonRUL          float64 `koanf:"soon_rul"`
	AnomalyThreshold float64 `koanf:"anomaly_threshold"`

	MaintenanceCost     float64 `koanf:"maintenance_cost"`
	FailureCost         float64 `koanf:"failure_cost"`
	DowntimeCostPerHour float64 `koanf:"downtime_cost_per_hour"`
}

// DefaultConfig returns the tuned thresholds and costs for the AI4I-style
// sensor stream.
func DefaultConfig() Config {
	return Config{
		CriticalProb:        0.70,
		CriticalRUL:         30,
		UrgentProb:          0.50,
		UrgentRUL:           60,
		SoonProb:            0.35,
		SoonRUL:             120,
		AnomalyThreshold:    0.60,
		MaintenanceCost:     500,
		FailureCost:         5000,
		DowntimeCostPerHour: 1000,
	}
}

// Validate checks the ordering invariants once at startup so rule
// evaluation can assume a well-formed cascade.
func (c Config) Validate() error {
	for name, p := range map[string]float64{
		"critical_prob":     c.CriticalProb,
		"urgent_prob":       c.UrgentProb,
		"soon_prob":         c.SoonProb,
		"anomaly_threshold": c.AnomalyThreshold,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s %g outside [0,1]", ErrInvalidConfig, name, p)
		}
	}
	if !(c.SoonProb < c.UrgentProb && c.UrgentProb < c.CriticalProb) {
		return fmt.Errorf("%w: probability thresholds must satisfy soon < urgent < critical (got %g, %g, %g)",
			ErrInvalidConfig, c.SoonProb, c.UrgentProb, c.CriticalProb)
	}
	if !(c.CriticalRUL < c.UrgentRUL && c.UrgentRUL < c.SoonRUL) {
		return fmt.Errorf("%w: RUL thresholds must satisfy critical < urgent < soon (got %g, %g, %g)",
			ErrInvalidConfig, c.CriticalRUL, c.UrgentRUL, c.SoonRUL)
	}
	if c.CriticalRUL < 0 {
		return fmt.Errorf("%w: critical_rul %g is negative", ErrInvalidConfig, c.CriticalRUL)
	}
	if c.MaintenanceCost < 0 || c.FailureCost < 0 || c.DowntimeCostPerHour < 0 {
		return fmt.Errorf("%w: costs must be non-negative", ErrInvalidConfig)
	}
	return nil
}
