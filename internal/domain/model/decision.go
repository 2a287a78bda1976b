package model

// MaintenanceAction is the engine's recommended action for a unit.
type MaintenanceAction string

// Maintenance actions, most to least urgent.
const (
	ActionCriticalImmediate MaintenanceAction = "critical_immediate"
	ActionScheduleUrgent    MaintenanceAction = "schedule_urgent"
	ActionInvestigate       MaintenanceAction = "investigate"
	ActionScheduleSoon      MaintenanceAction = "schedule_soon"
	ActionMonitor           MaintenanceAction = "monitor"
	ActionNormal            MaintenanceAction = "normal"
)

// RationaleKind classifies a rationale entry.
type RationaleKind string

// Rationale entry kinds.
const (
	RationaleRule     RationaleKind = "rule"     // the rule that fired
	RationaleClamp    RationaleKind = "clamp"    // an input was clamped into range
	RationaleDegraded RationaleKind = "degraded" // a model output was a sentinel
)

// RationaleEntry is one structured element of a decision's explanation.
// It names the condition (or correction) and the literal values compared so
// the decision can be reproduced from the entry alone.
type RationaleEntry struct {
	Kind      RationaleKind
	Rule      string  // rule tag or clamped/degraded field name
	Detail    string  // human-readable condition, e.g. "failure_prob 0.82 > 0.70"
	Value     float64 // the observed value
	Threshold float64 // the configured threshold compared against, if any
}

// MaintenanceDecision is the engine's verdict for one unit. Created exactly
// once per unit and immutable afterward; the history buffer owns it.
type MaintenanceDecision struct {
	UnitID       uint64
	Action       MaintenanceAction
	Priority     int // 1 is most urgent
	ExpectedCost float64
	Rationale    []RationaleEntry
}
