package decision

import (
	"fmt"

	"github.com/forgewatch/forgewatch/internal/domain/model"
)

// Priority levels per action, 1 most urgent.
const (
	priorityCritical    = 1
	priorityUrgent      = 2
	priorityInvestigate = 3
	prioritySoon        = 4
	priorityMonitor     = 5
	priorityNormal      = 6
)

// rule is one tagged predicate/action pair in the cascade. match reports
// whether the rule fires and, if so, a rationale entry naming the condition
// and the literal values compared.
type rule struct {
	tag      string
	action   model.MaintenanceAction
	priority int
	match    func(cfg Config, o model.ModelOutputs) (model.RationaleEntry, bool)
}

// ruleTable returns the cascade in evaluation order. Order encodes
// priority: the first matching rule wins and later rules are not consulted.
func ruleTable() []rule {
	return []rule{
		{
			tag:      "critical",
			action:   model.ActionCriticalImmediate,
			priority: priorityCritical,
			match: func(cfg Config, o model.ModelOutputs) (model.RationaleEntry, bool) {
				if o.FailureProb > cfg.CriticalProb {
					return ruleEntry("critical", fmt.Sprintf("failure_prob %.3f > %.3f", o.FailureProb, cfg.CriticalProb), o.FailureProb, cfg.CriticalProb), true
				}
				if o.RULMinutes < cfg.CriticalRUL {
					return ruleEntry("critical", fmt.Sprintf("rul %.1f min < %.1f min", o.RULMinutes, cfg.CriticalRUL), o.RULMinutes, cfg.CriticalRUL), true
				}
				return model.RationaleEntry{}, false
			},
		},
		{
			tag:      "urgent",
			action:   model.ActionScheduleUrgent,
			priority: priorityUrgent,
			match: func(cfg Config, o model.ModelOutputs) (model.RationaleEntry, bool) {
				if o.FailureProb > cfg.UrgentProb && o.RULMinutes < cfg.UrgentRUL {
					return ruleEntry("urgent", fmt.Sprintf("failure_prob %.3f > %.3f and rul %.1f min < %.1f min", o.FailureProb, cfg.UrgentProb, o.RULMinutes, cfg.UrgentRUL), o.FailureProb, cfg.UrgentProb), true
				}
				return model.RationaleEntry{}, false
			},
		},
		{
			tag:      "anomaly",
			action:   model.ActionInvestigate,
			priority: priorityInvestigate,
			match: func(cfg Config, o model.ModelOutputs) (model.RationaleEntry, bool) {
				if o.AnomalyScore > cfg.AnomalyThreshold && o.FailureProb <= cfg.UrgentProb {
					return ruleEntry("anomaly", fmt.Sprintf("anomaly_score %.3f > %.3f with failure_prob %.3f <= %.3f", o.AnomalyScore, cfg.AnomalyThreshold, o.FailureProb, cfg.UrgentProb), o.AnomalyScore, cfg.AnomalyThreshold), true
				}
				return model.RationaleEntry{}, false
			},
		},
		{
			tag:      "soon",
			action:   model.ActionScheduleSoon,
			priority: prioritySoon,
			match: func(cfg Config, o model.ModelOutputs) (model.RationaleEntry, bool) {
				if o.FailureProb > cfg.SoonProb && o.RULMinutes < cfg.SoonRUL {
					return ruleEntry("soon", fmt.Sprintf("failure_prob %.3f > %.3f and rul %.1f min < %.1f min", o.FailureProb, cfg.SoonProb, o.RULMinutes, cfg.SoonRUL), o.FailureProb, cfg.SoonProb), true
				}
				return model.RationaleEntry{}, false
			},
		},
		{
			tag:      "preventive",
			action:   model.ActionScheduleSoon,
			priority: prioritySoon,
			match: func(cfg Config, o model.ModelOutputs) (model.RationaleEntry, bool) {
				if o.RULMinutes < cfg.SoonRUL && o.FailureProb <= cfg.SoonProb {
					return ruleEntry("preventive", fmt.Sprintf("rul %.1f min < %.1f min with failure_prob %.3f <= %.3f", o.RULMinutes, cfg.SoonRUL, o.FailureProb, cfg.SoonProb), o.RULMinutes, cfg.SoonRUL), true
				}
				return model.RationaleEntry{}, false
			},
		},
		{
			tag:      "monitor",
			action:   model.ActionMonitor,
			priority: priorityMonitor,
			match: func(cfg Config, o model.ModelOutputs) (model.RationaleEntry, bool) {
				if o.FailureProb > cfg.SoonProb && o.RULMinutes >= cfg.SoonRUL {
					return ruleEntry("monitor", fmt.Sprintf("failure_prob %.3f > %.3f with rul %.1f min >= %.1f min", o.FailureProb, cfg.SoonProb, o.RULMinutes, cfg.SoonRUL), o.FailureProb, cfg.SoonProb), true
				}
				return model.RationaleEntry{}, false
			},
		},
		{
			tag:      "normal",
			action:   model.ActionNormal,
			priority: priorityNormal,
			match: func(cfg Config, o model.ModelOutputs) (model.RationaleEntry, bool) {
				return ruleEntry("normal", fmt.Sprintf("failure_prob %.3f and rul %.1f min within normal bounds", o.FailureProb, o.RULMinutes), o.FailureProb, 0), true
			},
		},
	}
}

func ruleEntry(tag, detail string, value, threshold float64) model.RationaleEntry {
	return model.RationaleEntry{
		Kind:      model.RationaleRule,
		Rule:      tag,
		Detail:    detail,
		Value:     value,
		Threshold: threshold,
	}
}
