// Package types contains read shapes shared between the HTTP layer and consumers.
package types

import (
	"time"

	"github.com/forgewatch/forgewatch/internal/domain/model"
)

// ReadingView is the wire form of a sensor reading.
type ReadingView struct {
	UnitID      uint64  `json:"unit_id"`
	Product     string  `json:"product"`
	AirTempK    float64 `json:"air_temp_k"`
	ProcTempK   float64 `json:"proc_temp_k"`
	RotSpeedRPM float64 `json:"rot_speed_rpm"`
	TorqueNm    float64 `json:"torque_nm"`
	ToolWearMin float64 `json:"tool_wear_min"`
}

// OutputsView is the wire form of a merged model output set.
type OutputsView struct {
	AnomalyScore   float64           `json:"anomaly_score"`
	FailureProb    float64           `json:"failure_prob"`
	FailureMode    string            `json:"failure_mode"`
	ModeConfidence float64           `json:"mode_confidence"`
	RULMinutes     float64           `json:"rul_minutes"`
	EnergyForecast float64           `json:"energy_forecast_kw"`
	Versions       map[string]string `json:"versions"`
	Degraded       []string          `json:"degraded,omitempty"`
}

// RationaleView is one wire-form rationale element.
type RationaleView struct {
	Kind      string  `json:"kind"`
	Rule      string  `json:"rule,omitempty"`
	Detail    string  `json:"detail"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold,omitempty"`
}

// DecisionView is the wire form of a maintenance decision.
type DecisionView struct {
	UnitID       uint64          `json:"unit_id"`
	Action       string          `json:"action"`
	Priority     int             `json:"priority"`
	ExpectedCost float64         `json:"expected_cost"`
	Rationale    []RationaleView `json:"rationale"`
}

// HistoryEntryView bundles one processed unit for read endpoints.
type HistoryEntryView struct {
	Reading    ReadingView  `json:"reading"`
	Outputs    OutputsView  `json:"outputs"`
	Decision   DecisionView `json:"decision"`
	IngestedAt time.Time    `json:"ingested_at"`
}

// ReadingFrom converts a domain record to its wire form.
func ReadingFrom(r model.UnitRecord) ReadingView {
	return ReadingView{
		UnitID:      r.ID,
		Product:     string(r.Product),
		AirTempK:    r.AirTempK,
		ProcTempK:   r.ProcTempK,
		RotSpeedRPM: r.RotSpeedRPM,
		TorqueNm:    r.TorqueNm,
		ToolWearMin: r.ToolWearMin,
	}
}

// OutputsFrom converts merged model outputs to their wire form.
func OutputsFrom(o model.ModelOutputs) OutputsView {
	v := OutputsView{
		AnomalyScore:   o.AnomalyScore,
		FailureProb:    o.FailureProb,
		FailureMode:    string(o.FailureMode),
		ModeConfidence: o.ModeConfidence,
		RULMinutes:     o.RULMinutes,
		EnergyForecast: o.EnergyForecast,
		Versions:       o.Versions,
	}
	for _, d := range o.Degraded {
		v.Degraded = append(v.Degraded, d.Model)
	}
	return v
}

// DecisionFrom converts a maintenance decision to its wire form.
func DecisionFrom(d model.MaintenanceDecision) DecisionView {
	v := DecisionView{
		UnitID:       d.UnitID,
		Action:       string(d.Action),
		Priority:     d.Priority,
		ExpectedCost: d.ExpectedCost,
	}
	for _, r := range d.Rationale {
		v.Rationale = append(v.Rationale, RationaleView{
			Kind:      string(r.Kind),
			Rule:      r.Rule,
			Detail:    r.Detail,
			Value:     r.Value,
			Threshold: r.Threshold,
		})
	}
	return v
}
