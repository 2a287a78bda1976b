package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forgewatch/forgewatch/internal/domain/model"
	"github.com/forgewatch/forgewatch/pkg/logger"
	"github.com/forgewatch/forgewatch/pkg/metrics"
)

// Worst-case sentinels substituted when a model fails for a unit. Chosen so
// a degraded unit is always treated as at least as urgent as the model
// could have made it; the stream never silently drops a unit.
const (
	sentinelAnomaly = 1.0
	sentinelFailure = 1.0
	sentinelRUL     = 0.0
	sentinelEnergy  = 0.0
)

const sentinelMode = model.ModeRandom

// Bank runs every configured adapter for each unit, in a fixed order, and
// merges the results into one ModelOutputs. Adapter order is part of the
// reproducibility contract: the same stream yields the same outputs on
// every run.
type Bank struct {
	adapters []Adapter
	log      logger.Logger
}

// NewBank builds a bank over the standard five models unless options
// replace them. Fails with ErrModelUnavailable if any adapter slot is
// unusable, so a broken model surfaces before the stream starts.
func NewBank(opts ...Option) (*Bank, error) {
	b := &Bank{
		adapters: []Adapter{
			NewAnomalyModel(),
			NewFailureModel(),
			NewFailureModeModel(),
			NewRULModel(),
			NewEnergyModel(),
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.adapters) == 0 {
		return nil, fmt.Errorf("%w: no adapters configured", ErrModelUnavailable)
	}
	for _, a := range b.adapters {
		if a == nil {
			return nil, fmt.Errorf("%w: nil adapter", ErrModelUnavailable)
		}
	}
	if b.log == nil {
		b.log = logger.Get().Named("inference")
	}
	return b, nil
}

// Versions maps adapter name to artifact version, in bank order.
func (b *Bank) Versions() map[string]string {
	v := make(map[string]string, len(b.adapters))
	for _, a := range b.adapters {
		v[a.Name()] = a.Version()
	}
	return v
}

// Run scores one unit through every adapter. A failing adapter degrades
// its field to the documented sentinel and is recorded in the outputs; Run
// itself only fails when ctx is done, which aborts the tick.
func (b *Bank) Run(ctx context.Context, rec model.UnitRecord) (model.ModelOutputs, error) {
	out := model.ModelOutputs{
		UnitID:   rec.ID,
		Versions: b.Versions(),
	}

	for _, a := range b.adapters {
		start := time.Now()
		res, err := a.Score(ctx, rec)
		metrics.ObserveInferenceLatency(a.Name(), time.Since(start).Seconds())
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ErrInference) {
				return model.ModelOutputs{}, fmt.Errorf("bank aborted at %s: %w", a.Name(), err)
			}
			b.degrade(ctx, &out, a, err)
			continue
		}
		merge(&out, a.Name(), res)
	}
	return out, nil
}

// degrade substitutes the adapter's sentinel and records the event.
func (b *Bank) degrade(ctx context.Context, out *model.ModelOutputs, a Adapter, cause error) {
	var sentinel float64
	switch a.Name() {
	case ModelAnomaly:
		out.AnomalyScore = sentinelAnomaly
		sentinel = sentinelAnomaly
	case ModelFailure:
		out.FailureProb = sentinelFailure
		sentinel = sentinelFailure
	case ModelFailureMode:
		out.FailureMode = sentinelMode
		out.ModeConfidence = 0
	case ModelRUL:
		out.RULMinutes = sentinelRUL
		sentinel = sentinelRUL
	case ModelEnergy:
		out.EnergyForecast = sentinelEnergy
		sentinel = sentinelEnergy
	}
	out.Degraded = append(out.Degraded, model.Degradation{
		Model:    a.Name(),
		Version:  a.Version(),
		Reason:   cause.Error(),
		Sentinel: sentinel,
	})
	metrics.RecordDegradedOutput(a.Name())
	b.log.Warn(ctx, "model output degraded to sentinel",
		logger.String("model", a.Name()),
		logger.String("version", a.Version()),
		logger.Any("unit", out.UnitID),
		logger.Error(cause),
	)
}

func merge(out *model.ModelOutputs, name string, res Output) {
	switch name {
	case ModelAnomaly:
		out.AnomalyScore = res.Value
	case ModelFailure:
		out.FailureProb = res.Value
	case ModelFailureMode:
		out.FailureMode = res.Mode
		out.ModeConfidence = res.Confidence
	case ModelRUL:
		out.RULMinutes = res.Value
	case ModelEnergy:
		out.EnergyForecast = res.Value
	}
}
