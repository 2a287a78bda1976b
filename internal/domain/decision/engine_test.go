package decision_test

import (
	"reflect"
	"testing"

	"github.com/forgewatch/forgewatch/internal/domain/decision"
	"github.com/forgewatch/forgewatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newEngine(t *testing.T) *decision.Engine {
	t.Helper()
	eng, err := decision.New(decision.DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return eng
}

func TestEngineRuleCascade(t *testing.T) {
	eng := newEngine(t)

	Convey("Given the default threshold configuration", t, func() {
		Convey("When failure probability exceeds the critical threshold", func() {
			d := eng.Evaluate(model.ModelOutputs{UnitID: 1, FailureProb: 0.8, RULMinutes: 10, AnomalyScore: 0.1})

			Convey("Then the unit is flagged for immediate maintenance", func() {
				So(d.Action, ShouldEqual, model.ActionCriticalImmediate)
				So(d.Priority, ShouldEqual, 1)
			})

			Convey("And the expected cost carries the downtime term", func() {
				// 0.8*5000 + 0.2*500 = 4100, plus 2h of downtime.
				So(d.ExpectedCost, ShouldAlmostEqual, 4100+2.0*1000, 1e-9)
			})

			Convey("And the rationale names the rule and compared values", func() {
				So(d.Rationale, ShouldNotBeEmpty)
				So(d.Rationale[0].Kind, ShouldEqual, model.RationaleRule)
				So(d.Rationale[0].Rule, ShouldEqual, "critical")
				So(d.Rationale[0].Detail, ShouldContainSubstring, "0.800")
				So(d.Rationale[0].Detail, ShouldContainSubstring, "0.700")
			})
		})

		Convey("When probability is critical but RUL is high", func() {
			d := eng.Evaluate(model.ModelOutputs{FailureProb: 0.95, RULMinutes: 900})

			Convey("Then the critical rule still wins regardless of RUL", func() {
				So(d.Action, ShouldEqual, model.ActionCriticalImmediate)
				So(d.Priority, ShouldEqual, 1)
			})
		})

		Convey("When only RUL crosses the critical floor", func() {
			d := eng.Evaluate(model.ModelOutputs{FailureProb: 0.05, RULMinutes: 12})

			Convey("Then the decision is still critical", func() {
				So(d.Action, ShouldEqual, model.ActionCriticalImmediate)
				So(d.Rationale[0].Detail, ShouldContainSubstring, "rul")
			})
		})

		Convey("When probability and RUL sit in the urgent band", func() {
			d := eng.Evaluate(model.ModelOutputs{FailureProb: 0.6, RULMinutes: 45})

			So(d.Action, ShouldEqual, model.ActionScheduleUrgent)
			So(d.Priority, ShouldEqual, 2)
			So(d.ExpectedCost, ShouldAlmostEqual, 0.6*5000+0.4*500+1.5*1000, 1e-9)
		})

		Convey("When an anomaly fires without elevated failure probability", func() {
			d := eng.Evaluate(model.ModelOutputs{FailureProb: 0.2, RULMinutes: 400, AnomalyScore: 0.9})

			So(d.Action, ShouldEqual, model.ActionInvestigate)
			So(d.Priority, ShouldEqual, 3)
		})

		Convey("When moderate risk pairs with a short RUL", func() {
			d := eng.Evaluate(model.ModelOutputs{FailureProb: 0.4, RULMinutes: 50, AnomalyScore: 0.3})

			So(d.Action, ShouldEqual, model.ActionScheduleSoon)
			So(d.Priority, ShouldEqual, 4)
			So(d.Rationale[0].Rule, ShouldEqual, "soon")
		})

		Convey("When RUL is short but probability stays low", func() {
			d := eng.Evaluate(model.ModelOutputs{FailureProb: 0.1, RULMinutes: 80})

			Convey("Then preventive scheduling fires at the same priority", func() {
				So(d.Action, ShouldEqual, model.ActionScheduleSoon)
				So(d.Priority, ShouldEqual, 4)
				So(d.Rationale[0].Rule, ShouldEqual, "preventive")
			})
		})

		Convey("When risk is moderate but RUL is comfortable", func() {
			d := eng.Evaluate(model.ModelOutputs{FailureProb: 0.4, RULMinutes: 400})

			So(d.Action, ShouldEqual, model.ActionMonitor)
			So(d.Priority, ShouldEqual, 5)
		})

		Convey("When nothing fires", func() {
			d := eng.Evaluate(model.ModelOutputs{FailureProb: 0.1, RULMinutes: 500, AnomalyScore: 0.2})

			So(d.Action, ShouldEqual, model.ActionNormal)
			So(d.Priority, ShouldEqual, 6)
			So(d.ExpectedCost, ShouldAlmostEqual, 0.1*5000+0.9*500, 1e-9)
		})
	})
}

func TestEngineDeterminism(t *testing.T) {
	eng := newEngine(t)

	Convey("Given one set of model outputs", t, func() {
		o := model.ModelOutputs{
			UnitID:       42,
			FailureProb:  0.53,
			RULMinutes:   55,
			AnomalyScore: 0.61,
			FailureMode:  model.ModeOverstrain,
			Degraded: []model.Degradation{
				{Model: "energy", Version: "v1.0.0", Reason: "unsupported category", Sentinel: 0},
			},
		}

		Convey("When evaluated twice", func() {
			first := eng.Evaluate(o)
			second := eng.Evaluate(o)

			Convey("Then the decisions are identical", func() {
				So(reflect.DeepEqual(first, second), ShouldBeTrue)
			})
		})

		Convey("When a model was degraded for the unit", func() {
			d := eng.Evaluate(o)

			Convey("Then the rationale surfaces the degradation", func() {
				last := d.Rationale[len(d.Rationale)-1]
				So(last.Kind, ShouldEqual, model.RationaleDegraded)
				So(last.Rule, ShouldEqual, "energy")
				So(last.Detail, ShouldContainSubstring, "sentinel")
			})
		})
	})
}

func TestEngineClamping(t *testing.T) {
	eng := newEngine(t)

	Convey("Given out-of-range model outputs", t, func() {
		d := eng.Evaluate(model.ModelOutputs{FailureProb: 1.7, RULMinutes: -20, AnomalyScore: -0.5})

		Convey("Then evaluation does not fail and uses clamped values", func() {
			So(d.Action, ShouldEqual, model.ActionCriticalImmediate)
		})

		Convey("And every clamp is recorded in the rationale", func() {
			var clamps int
			for _, r := range d.Rationale {
				if r.Kind == model.RationaleClamp {
					clamps++
				}
			}
			So(clamps, ShouldEqual, 3)
		})
	})
}

func TestEngineCostMonotonicity(t *testing.T) {
	eng := newEngine(t)

	Convey("Given a fixed RUL", t, func() {
		Convey("When failure probability increases", func() {
			prev := -1.0
			for _, p := range []float64{0.0, 0.1, 0.36, 0.51, 0.71, 0.9, 1.0} {
				d := eng.Evaluate(model.ModelOutputs{FailureProb: p, RULMinutes: 50})
				So(d.ExpectedCost, ShouldBeGreaterThanOrEqualTo, 0)
				if prev >= 0 {
					So(d.ExpectedCost, ShouldBeGreaterThan, prev)
				}
				prev = d.ExpectedCost
			}
		})
	})
}

func TestConfigValidation(t *testing.T) {
	Convey("Given threshold configurations", t, func() {
		Convey("When the defaults are validated", func() {
			So(decision.DefaultConfig().Validate(), ShouldBeNil)
		})

		Convey("When RUL thresholds are out of order", func() {
			cfg := decision.DefaultConfig()
			cfg.CriticalRUL = 200

			err := cfg.Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "RUL")
		})

		Convey("When a probability threshold leaves [0,1]", func() {
			cfg := decision.DefaultConfig()
			cfg.CriticalProb = 1.5

			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("When probability thresholds are out of order", func() {
			cfg := decision.DefaultConfig()
			cfg.SoonProb = 0.9

			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("When a cost is negative", func() {
			cfg := decision.DefaultConfig()
			cfg.FailureCost = -1

			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("When the engine is built with a bad config", func() {
			cfg := decision.DefaultConfig()
			cfg.UrgentRUL = 5

			_, err := decision.New(cfg)
			So(err, ShouldNotBeNil)
		})
	})
}
