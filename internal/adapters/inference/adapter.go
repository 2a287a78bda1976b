// Package inference wraps the predictive models behind a narrow adapter
// contract and runs them as an ordered bank per unit.
package inference

import (
	"context"
	"errors"

	"github.com/forgewatch/forgewatch/internal/domain/model"
)

// Sentinel kinds for inference errors.
var (
	// ErrModelUnavailable means an adapter could not initialize its
	// underlying model artifact. Fatal at startup.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInference means a record's features are incompatible with the
	// model's expected input. Per-unit and non-fatal: the bank degrades
	// that field and the stream continues.
	ErrInference = errors.New("inference failed")
)

// Adapter names, also the keys of ModelOutputs.Versions.
const (
	ModelAnomaly     = "anomaly"
	ModelFailure     = "failure"
	ModelFailureMode = "failure_mode"
	ModelRUL         = "rul"
	ModelEnergy      = "energy"
)

// Output is a single adapter's result for one unit. Value carries the
// numeric prediction; Mode and Confidence are only set by the failure-mode
// adapter.
type Output struct {
	Value      float64
	Mode       model.FailureMode
	Confidence float64
}

// Adapter is the contract every predictive model exposes to the pipeline.
// Score must be read-only with respect to the record and safe to call
// repeatedly with the same input.
type Adapter interface {
	// Name identifies which ModelOutputs field the adapter feeds.
	Name() string

	// Version identifies the model artifact, stored for traceability.
	Version() string

	// Score runs inference for one unit, honoring ctx for cancellation.
	Score(ctx context.Context, rec model.UnitRecord) (Output, error)
}
