package model

// FailureMode is the predicted failure type for a unit.
type FailureMode string

// Failure modes produced by the multiclass failure model.
const (
	ModeNormal          FailureMode = "NORMAL"
	ModeToolWear        FailureMode = "TOOL_WEAR"
	ModeHeatDissipation FailureMode = "HEAT_DISSIPATION"
	ModePower           FailureMode = "POWER"
	ModeOverstrain      FailureMode = "OVERSTRAIN"
	ModeRandom          FailureMode = "RANDOM"
)

// Degradation records that one model could not score a unit and which
// sentinel value was substituted for its output.
type Degradation struct {
	Model    string  // adapter name, e.g. "rul"
	Version  string  // adapter version
	Reason   string  // underlying error text
	Sentinel float64 // worst-case value substituted
}

// ModelOutputs holds the per-unit inference results from every configured
// model adapter. Built once per unit by the adapter bank and never mutated
// afterward.
type ModelOutputs struct {
	UnitID         uint64
	AnomalyScore   float64     // [0,1], higher is more anomalous
	FailureProb    float64     // [0,1]
	FailureMode    FailureMode // predicted failure type
	ModeConfidence float64     // [0,1], confidence in FailureMode
	RULMinutes     float64     // remaining useful life, minutes, >= 0
	EnergyForecast float64     // forecast energy draw, kW

	// Versions maps adapter name to the version that produced its field.
	// Stored for traceability; the decision engine never reads it.
	Versions map[string]string

	// Degraded lists models that failed for this unit and the sentinel
	// each one was replaced with. Empty for a clean run.
	Degraded []Degradation
}

// IsDegraded reports whether any model output was replaced by a sentinel.
func (o ModelOutputs) IsDegraded() bool {
	return len(o.Degraded) > 0
}
