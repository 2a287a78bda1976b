package inference_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/forgewatch/forgewatch/internal/adapters/inference"
	"github.com/forgewatch/forgewatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// nominalUnit is a healthy mid-stream record.
func nominalUnit(id uint64) model.UnitRecord {
	return model.UnitRecord{
		ID:          id,
		Product:     model.ProductMedium,
		AirTempK:    298.5,
		ProcTempK:   308.9,
		RotSpeedRPM: 1500,
		TorqueNm:    40,
		ToolWearMin: 30,
	}
}

// wornUnit is close to end of tool life under heavy load.
func wornUnit(id uint64) model.UnitRecord {
	return model.UnitRecord{
		ID:          id,
		Product:     model.ProductLow,
		AirTempK:    302.4,
		ProcTempK:   310.2,
		RotSpeedRPM: 1350,
		TorqueNm:    62,
		ToolWearMin: 215,
	}
}

// failingAdapter always fails with ErrInference. Used to exercise the
// degradation path.
type failingAdapter struct {
	name    string
	version string
}

func (f *failingAdapter) Name() string    { return f.name }
func (f *failingAdapter) Version() string { return f.version }

func (f *failingAdapter) Score(ctx context.Context, rec model.UnitRecord) (inference.Output, error) {
	return inference.Output{}, fmt.Errorf("%w: wrong dimensionality", inference.ErrInference)
}

func TestHeuristicModels(t *testing.T) {
	ctx := context.Background()

	Convey("Given the built-in heuristic models", t, func() {
		Convey("When scoring a nominal unit", func() {
			failure := inference.NewFailureModel()
			out, err := failure.Score(ctx, nominalUnit(1))
			So(err, ShouldBeNil)

			Convey("Then failure probability stays low", func() {
				So(out.Value, ShouldBeBetweenOrEqual, 0, 1)
				So(out.Value, ShouldBeLessThan, 0.35)
			})

			Convey("And the predicted mode is NORMAL", func() {
				mode, err := inference.NewFailureModeModel().Score(ctx, nominalUnit(1))
				So(err, ShouldBeNil)
				So(mode.Mode, ShouldEqual, model.ModeNormal)
				So(mode.Confidence, ShouldBeBetweenOrEqual, 0, 1)
			})

			Convey("And plenty of useful life remains", func() {
				rul, err := inference.NewRULModel().Score(ctx, nominalUnit(1))
				So(err, ShouldBeNil)
				So(rul.Value, ShouldBeGreaterThan, 100)
			})
		})

		Convey("When scoring a worn, overstrained unit", func() {
			healthy, _ := inference.NewFailureModel().Score(ctx, nominalUnit(1))
			worn, err := inference.NewFailureModel().Score(ctx, wornUnit(2))
			So(err, ShouldBeNil)

			Convey("Then risk exceeds the nominal unit's", func() {
				So(worn.Value, ShouldBeGreaterThan, healthy.Value)
			})

			Convey("And a concrete failure mode is predicted", func() {
				mode, err := inference.NewFailureModeModel().Score(ctx, wornUnit(2))
				So(err, ShouldBeNil)
				So(mode.Mode, ShouldNotEqual, model.ModeNormal)
			})

			Convey("And remaining life shrinks toward zero", func() {
				rul, err := inference.NewRULModel().Score(ctx, wornUnit(2))
				So(err, ShouldBeNil)
				So(rul.Value, ShouldBeLessThan, 50)
				So(rul.Value, ShouldBeGreaterThanOrEqualTo, 0)
			})
		})

		Convey("When the energy model scores a unit", func() {
			out, err := inference.NewEnergyModel().Score(ctx, nominalUnit(1))
			So(err, ShouldBeNil)

			// 40 Nm at 1500 rpm is ~6.28 kW before the variant factor.
			So(out.Value, ShouldAlmostEqual, 6.597, 0.05)
		})

		Convey("When features are outside the model input domain", func() {
			bad := nominalUnit(1)
			bad.Product = "Z"
			_, err := inference.NewAnomalyModel().Score(ctx, bad)
			So(errors.Is(err, inference.ErrInference), ShouldBeTrue)

			nan := nominalUnit(1)
			nan.TorqueNm = math.NaN()
			_, err = inference.NewRULModel().Score(ctx, nan)
			So(errors.Is(err, inference.ErrInference), ShouldBeTrue)
		})

		Convey("When the same record is scored twice", func() {
			a1, err1 := inference.NewAnomalyModel().Score(ctx, wornUnit(3))
			a2, err2 := inference.NewAnomalyModel().Score(ctx, wornUnit(3))
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(a1.Value, ShouldEqual, a2.Value)
		})
	})
}

func TestBank(t *testing.T) {
	ctx := context.Background()

	Convey("Given the default adapter bank", t, func() {
		bank, err := inference.NewBank()
		So(err, ShouldBeNil)

		Convey("When running a clean unit", func() {
			out, err := bank.Run(ctx, nominalUnit(9))
			So(err, ShouldBeNil)

			Convey("Then every field is populated and versioned", func() {
				So(out.UnitID, ShouldEqual, 9)
				So(out.FailureMode, ShouldEqual, model.ModeNormal)
				So(out.Versions, ShouldContainKey, inference.ModelAnomaly)
				So(out.Versions, ShouldContainKey, inference.ModelRUL)
				So(len(out.Versions), ShouldEqual, 5)
				So(out.IsDegraded(), ShouldBeFalse)
			})

			Convey("And reruns are identical", func() {
				again, err := bank.Run(ctx, nominalUnit(9))
				So(err, ShouldBeNil)
				So(reflect.DeepEqual(out, again), ShouldBeTrue)
			})
		})

		Convey("When one adapter fails for a unit", func() {
			bank, err := inference.NewBank(inference.WithAdapters(
				inference.NewAnomalyModel(),
				inference.NewFailureModel(),
				inference.NewFailureModeModel(),
				&failingAdapter{name: inference.ModelRUL, version: "v9.9.9"},
				inference.NewEnergyModel(),
			))
			So(err, ShouldBeNil)

			out, err := bank.Run(ctx, nominalUnit(4))
			So(err, ShouldBeNil)

			Convey("Then the failed field degrades to the worst-case sentinel", func() {
				So(out.RULMinutes, ShouldEqual, 0)
				So(out.IsDegraded(), ShouldBeTrue)
				So(len(out.Degraded), ShouldEqual, 1)
				So(out.Degraded[0].Model, ShouldEqual, inference.ModelRUL)
				So(out.Degraded[0].Version, ShouldEqual, "v9.9.9")
				So(out.Degraded[0].Reason, ShouldContainSubstring, "dimensionality")
			})

			Convey("And the other models still score normally", func() {
				So(out.FailureProb, ShouldBeLessThan, 0.35)
				So(out.EnergyForecast, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When constructed without adapters", func() {
			_, err := inference.NewBank(inference.WithAdapters())
			So(err, ShouldBeNil) // empty option is ignored, defaults kept

			_, err = inference.NewBank(inference.WithAdapters(nil))
			So(errors.Is(err, inference.ErrModelUnavailable), ShouldBeTrue)
		})

		Convey("When the context is cancelled mid-bank", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := bank.Run(cancelled, nominalUnit(1))
			So(err, ShouldNotBeNil)
		})
	})
}
