// Package ingest defines the contract for feeding unit records into the
// pipeline, plus the in-memory and CSV-backed sources.
package ingest

import (
	"context"
	"errors"

	"github.com/forgewatch/forgewatch/internal/domain/model"
)

// ErrStreamExhausted signals normal end of input. It is the expected
// terminal condition of a finite stream, not a failure.
var ErrStreamExhausted = errors.New("stream exhausted")

// Source supplies the next unit record. Implementations must be
// deterministic: records come back in ascending identifier order so a rerun
// of the same stream reproduces the same decisions. Next is called by a
// single consumer.
type Source interface {
	Next(ctx context.Context) (model.UnitRecord, error)
}

// SliceSource serves a fixed set of records in order. Used by tests and the
// synthetic stream generator.
type SliceSource struct {
	records []model.UnitRecord
	pos     int
}

// NewSliceSource creates a source over records. The slice is not copied;
// callers must not mutate it afterwards.
func NewSliceSource(records []model.UnitRecord) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record or ErrStreamExhausted.
func (s *SliceSource) Next(ctx context.Context) (model.UnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.UnitRecord{}, err
	}
	if s.pos >= len(s.records) {
		return model.UnitRecord{}, ErrStreamExhausted
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

// Remaining reports how many records are left to serve.
func (s *SliceSource) Remaining() int {
	return len(s.records) - s.pos
}
