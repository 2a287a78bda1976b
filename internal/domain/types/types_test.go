package types_test

import (
	"testing"

	"github.com/forgewatch/forgewatch/internal/domain/model"
	types "github.com/forgewatch/forgewatch/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestViews(t *testing.T) {
	Convey("Given a domain record", t, func() {
		rec := model.UnitRecord{
			ID:          42,
			Product:     model.ProductLow,
			AirTempK:    298.1,
			ProcTempK:   308.6,
			RotSpeedRPM: 1551,
			TorqueNm:    42.8,
			ToolWearMin: 108,
		}

		Convey("When converted to a reading view", func() {
			v := types.ReadingFrom(rec)

			Convey("Then every field carries over", func() {
				So(v.UnitID, ShouldEqual, 42)
				So(v.Product, ShouldEqual, "L")
				So(v.AirTempK, ShouldEqual, 298.1)
				So(v.ToolWearMin, ShouldEqual, 108)
			})
		})
	})

	Convey("Given degraded model outputs", t, func() {
		out := model.ModelOutputs{
			UnitID:      7,
			FailureProb: 1,
			FailureMode: model.ModeRandom,
			Versions:    map[string]string{"anomaly": "v1.2.0"},
			Degraded: []model.Degradation{
				{Model: "rul", Version: "v1.1.0", Reason: "inference failed", Sentinel: 0},
			},
		}

		Convey("When converted to an outputs view", func() {
			v := types.OutputsFrom(out)

			Convey("Then degraded models are listed by name", func() {
				So(v.Degraded, ShouldResemble, []string{"rul"})
				So(v.FailureMode, ShouldEqual, "RANDOM")
			})
		})
	})

	Convey("Given a maintenance decision with rationale", t, func() {
		d := model.MaintenanceDecision{
			UnitID:       7,
			Action:       model.ActionCriticalImmediate,
			Priority:     1,
			ExpectedCost: 6100,
			Rationale: []model.RationaleEntry{
				{Kind: model.RationaleRule, Rule: "critical", Detail: "failure_prob 0.800 > 0.700", Value: 0.8, Threshold: 0.7},
			},
		}

		Convey("When converted to a decision view", func() {
			v := types.DecisionFrom(d)

			Convey("Then rationale survives in order", func() {
				So(v.Action, ShouldEqual, "critical_immediate")
				So(len(v.Rationale), ShouldEqual, 1)
				So(v.Rationale[0].Kind, ShouldEqual, "rule")
				So(v.Rationale[0].Threshold, ShouldEqual, 0.7)
			})
		})
	})
}
