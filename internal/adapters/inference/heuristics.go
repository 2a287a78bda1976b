package inference

import (
	"context"
	"fmt"
	"math"

	"github.com/forgewatch/forgewatch/internal/domain/model"
)

// Artifact versions for the built-in heuristic models.
const (
	anomalyVersion     = "v1.2.0"
	failureVersion     = "v2.0.1"
	failureModeVersion = "v1.4.0"
	rulVersion         = "v1.1.0"
	energyVersion      = "v1.0.3"
)

// Operating envelope constants for the milling process. Derived from the
// failure physics of the sensor stream: heat-dissipation failures need a
// small air/process temperature gap at low speed, power failures an
// out-of-band mechanical power draw, overstrain a wear-torque product above
// the variant limit, and tool-wear failures a worn tool.
const (
	heatGapK        = 8.6
	heatSpeedRPM    = 1380.0
	powerFloorW     = 3500.0
	powerCeilW      = 9000.0
	wearFailureMin  = 200.0
	radPerRevPerMin = 2 * math.Pi / 60
)

func mechanicalPowerW(rec model.UnitRecord) float64 {
	return rec.TorqueNm * rec.RotSpeedRPM * radPerRevPerMin
}

func overstrainLimit(p model.ProductType) float64 {
	switch p {
	case model.ProductLow:
		return 11000
	case model.ProductMedium:
		return 12000
	default:
		return 13000
	}
}

// checkFeatures rejects records whose features are outside the model input
// domain: unknown product category or non-finite sensor values.
func checkFeatures(rec model.UnitRecord) error {
	switch rec.Product {
	case model.ProductLow, model.ProductMedium, model.ProductHigh:
	default:
		return fmt.Errorf("%w: unsupported product type %q", ErrInference, rec.Product)
	}
	for name, v := range map[string]float64{
		"air_temp":  rec.AirTempK,
		"proc_temp": rec.ProcTempK,
		"rot_speed": rec.RotSpeedRPM,
		"torque":    rec.TorqueNm,
		"tool_wear": rec.ToolWearMin,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite feature %s", ErrInference, name)
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Per-mode risk signals in [0,1]. Shared by the failure, failure-mode and
// RUL models so their outputs stay mutually consistent.

func heatRisk(rec model.UnitRecord) float64 {
	gap := rec.ProcTempK - rec.AirTempK
	if gap >= heatGapK || rec.RotSpeedRPM >= heatSpeedRPM {
		return 0
	}
	return clamp01((heatGapK - gap) / heatGapK * (heatSpeedRPM - rec.RotSpeedRPM) / heatSpeedRPM * 4)
}

func powerRisk(rec model.UnitRecord) float64 {
	p := mechanicalPowerW(rec)
	switch {
	case p < powerFloorW:
		return clamp01((powerFloorW - p) / powerFloorW)
	case p > powerCeilW:
		return clamp01((p - powerCeilW) / powerCeilW)
	default:
		return 0
	}
}

func overstrainRisk(rec model.UnitRecord) float64 {
	limit := overstrainLimit(rec.Product)
	product := rec.ToolWearMin * rec.TorqueNm
	if product <= limit {
		return 0
	}
	return clamp01((product - limit) / limit * 5)
}

func wearRisk(rec model.UnitRecord) float64 {
	if rec.ToolWearMin < wearFailureMin {
		return clamp01(rec.ToolWearMin / wearFailureMin * 0.3)
	}
	return clamp01(0.3 + (rec.ToolWearMin-wearFailureMin)/wearFailureMin)
}

// AnomalyModel scores how far a unit's sensor snapshot sits from the
// nominal operating envelope. Stands in for the trained isolation forest
// with a deterministic heuristic, the way an external scoring service would
// be simulated in development.
type AnomalyModel struct{}

func NewAnomalyModel() *AnomalyModel { return &AnomalyModel{} }

func (m *AnomalyModel) Name() string    { return ModelAnomaly }
func (m *AnomalyModel) Version() string { return anomalyVersion }

func (m *AnomalyModel) Score(ctx context.Context, rec model.UnitRecord) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if err := checkFeatures(rec); err != nil {
		return Output{}, err
	}
	excess := heatRisk(rec) + powerRisk(rec) + overstrainRisk(rec) + wearRisk(rec)
	// 1-exp keeps a smooth [0,1) score that grows with stacked deviations.
	return Output{Value: clamp01(1 - math.Exp(-1.2*excess))}, nil
}

// FailureModel estimates the probability that the unit fails before its
// next service window.
type FailureModel struct{}

func NewFailureModel() *FailureModel { return &FailureModel{} }

func (m *FailureModel) Name() string    { return ModelFailure }
func (m *FailureModel) Version() string { return failureVersion }

func (m *FailureModel) Score(ctx context.Context, rec model.UnitRecord) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if err := checkFeatures(rec); err != nil {
		return Output{}, err
	}
	stress := 1.2*heatRisk(rec) + 1.5*powerRisk(rec) + 1.4*overstrainRisk(rec) + wearRisk(rec)
	prob := 1 / (1 + math.Exp(-(2.2*stress - 2.5)))
	return Output{Value: clamp01(prob)}, nil
}

// FailureModeModel predicts which failure type is most likely, with a
// confidence for the predicted mode.
type FailureModeModel struct{}

func NewFailureModeModel() *FailureModeModel { return &FailureModeModel{} }

func (m *FailureModeModel) Name() string    { return ModelFailureMode }
func (m *FailureModeModel) Version() string { return failureModeVersion }

func (m *FailureModeModel) Score(ctx context.Context, rec model.UnitRecord) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if err := checkFeatures(rec); err != nil {
		return Output{}, err
	}
	best := model.ModeNormal
	bestRisk := 0.0
	for _, c := range []struct {
		mode model.FailureMode
		risk float64
	}{
		// Fixed order so ties resolve the same way every run.
		{model.ModeHeatDissipation, heatRisk(rec)},
		{model.ModePower, powerRisk(rec)},
		{model.ModeOverstrain, overstrainRisk(rec)},
		{model.ModeToolWear, wearRisk(rec)},
	} {
		if c.risk > bestRisk {
			best, bestRisk = c.mode, c.risk
		}
	}
	if bestRisk < 0.5 {
		return Output{Mode: model.ModeNormal, Confidence: clamp01(1 - bestRisk)}, nil
	}
	return Output{Mode: best, Confidence: clamp01(bestRisk)}, nil
}

// RULModel estimates remaining useful life in minutes from tool wear
// headroom, discounted by current stress.
type RULModel struct{}

func NewRULModel() *RULModel { return &RULModel{} }

func (m *RULModel) Name() string    { return ModelRUL }
func (m *RULModel) Version() string { return rulVersion }

func (m *RULModel) Score(ctx context.Context, rec model.UnitRecord) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if err := checkFeatures(rec); err != nil {
		return Output{}, err
	}
	headroom := wearFailureMin - rec.ToolWearMin
	if headroom < 0 {
		headroom = 0
	}
	stress := clamp01(heatRisk(rec) + powerRisk(rec) + overstrainRisk(rec))
	rul := headroom * (1 - 0.6*stress)
	return Output{Value: math.Max(0, rul)}, nil
}

// EnergyModel forecasts the unit's energy draw in kW from mechanical power
// and product variant.
type EnergyModel struct{}

func NewEnergyModel() *EnergyModel { return &EnergyModel{} }

func (m *EnergyModel) Name() string    { return ModelEnergy }
func (m *EnergyModel) Version() string { return energyVersion }

func (m *EnergyModel) Score(ctx context.Context, rec model.UnitRecord) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if err := checkFeatures(rec); err != nil {
		return Output{}, err
	}
	factor := 1.0
	switch rec.Product {
	case model.ProductMedium:
		factor = 1.05
	case model.ProductHigh:
		factor = 1.1
	}
	return Output{Value: mechanicalPowerW(rec) / 1000 * factor}, nil
}
