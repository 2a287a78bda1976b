// Package decision implements the maintenance decision engine: a pure
// mapping from per-unit model outputs to a single maintenance decision with
// priority, rationale, and expected cost.
package decision

import (
	"fmt"

	"github.com/forgewatch/forgewatch/internal/domain/model"
)

// Engine evaluates the ordered rule cascade against model outputs. It holds
// only validated configuration; Evaluate has no other state, so the same
// outputs always produce the same decision.
type Engine struct {
	cfg   Config
	rules []rule
}

// New constructs an Engine after validating cfg.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, rules: ruleTable()}, nil
}

// Config returns the engine's threshold and cost configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate maps outputs to exactly one MaintenanceDecision. Out-of-range
// inputs are clamped into their valid range before rule evaluation and the
// clamp is recorded in the rationale. Evaluate never fails on well-formed
// input.
func (e *Engine) Evaluate(o model.ModelOutputs) model.MaintenanceDecision {
	var rationale []model.RationaleEntry

	o.FailureProb, rationale = clamp(o.FailureProb, 0, 1, "failure_prob", rationale)
	o.AnomalyScore, rationale = clamp(o.AnomalyScore, 0, 1, "anomaly_score", rationale)
	o.RULMinutes, rationale = clampMin(o.RULMinutes, 0, "rul_minutes", rationale)

	var fired rule
	for _, r := range e.rules {
		if entry, ok := r.match(e.cfg, o); ok {
			fired = r
			rationale = append(rationale, entry)
			break
		}
	}

	// Surface per-unit model degradations so a consumer can tell a real
	// prediction from a worst-case sentinel.
	for _, d := range o.Degraded {
		rationale = append(rationale, model.RationaleEntry{
			Kind:   model.RationaleDegraded,
			Rule:   d.Model,
			Detail: fmt.Sprintf("model %q unavailable for unit, sentinel %g used: %s", d.Model, d.Sentinel, d.Reason),
			Value:  d.Sentinel,
		})
	}

	return model.MaintenanceDecision{
		UnitID:       o.UnitID,
		Action:       fired.action,
		Priority:     fired.priority,
		ExpectedCost: e.expectedCost(o.FailureProb, fired.action),
		Rationale:    rationale,
	}
}

func clamp(v, lo, hi float64, field string, rationale []model.RationaleEntry) (float64, []model.RationaleEntry) {
	clamped := v
	switch {
	case v < lo:
		clamped = lo
	case v > hi:
		clamped = hi
	default:
		return v, rationale
	}
	return clamped, append(rationale, model.RationaleEntry{
		Kind:      model.RationaleClamp,
		Rule:      field,
		Detail:    fmt.Sprintf("%s %g out of range [%g,%g], clamped to %g", field, v, lo, hi, clamped),
		Value:     v,
		Threshold: clamped,
	})
}

func clampMin(v, lo float64, field string, rationale []model.RationaleEntry) (float64, []model.RationaleEntry) {
	if v >= lo {
		return v, rationale
	}
	return lo, append(rationale, model.RationaleEntry{
		Kind:      model.RationaleClamp,
		Rule:      field,
		Detail:    fmt.Sprintf("%s %g below %g, clamped", field, v, lo),
		Value:     v,
		Threshold: lo,
	})
}
