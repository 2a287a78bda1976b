package decision

import "github.com/forgewatch/forgewatch/internal/domain/model"

// Assumed downtime per action, in hours. Downtime is modeled as
// proportional to action urgency: an emergency stop idles the line longer
// than a within-shift slot. This is a deliberate simplification of the
// plant's real downtime profile.
const (
	criticalDowntimeHours = 2.0
	urgentDowntimeHours   = 1.5
)

// expectedCost is the risk-weighted cost of following the recommendation:
//
//	p * FailureCost + (1-p) * MaintenanceCost
//
// plus a downtime term for the two actions that take the unit offline
// immediately. Monotonically increasing in p as long as FailureCost exceeds
// MaintenanceCost.
func (e *Engine) expectedCost(failureProb float64, action model.MaintenanceAction) float64 {
	cost := failureProb*e.cfg.FailureCost + (1-failureProb)*e.cfg.MaintenanceCost
	switch action {
	case model.ActionCriticalImmediate:
		cost += criticalDowntimeHours * e.cfg.DowntimeCostPerHour
	case model.ActionScheduleUrgent:
		cost += urgentDowntimeHours * e.cfg.DowntimeCostPerHour
	}
	return cost
}
