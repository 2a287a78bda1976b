// Package repository defines the history buffer interface and errors.
package repository

import (
	"context"
	"iter"
	"time"

	"github.com/forgewatch/forgewatch/internal/domain/model"
)

// Entry is one retained pipeline result: the unit, its model outputs, the
// decision, and when the unit was ingested.
type Entry struct {
	Record     model.UnitRecord
	Outputs    model.ModelOutputs
	Decision   model.MaintenanceDecision
	IngestedAt time.Time
}

// Store retains a bounded window of recent pipeline results. A single
// producer appends; any number of readers may query concurrently. Reads
// return immutable snapshots, never live views: an entry present in a
// snapshot may already have been evicted from the store.
type Store interface {
	// Append adds an entry, evicting the oldest when at capacity.
	// Entries must arrive in strictly increasing unit identifier order;
	// Append returns ErrNonMonotonic otherwise.
	Append(ctx context.Context, e Entry) error

	// Recent returns the last k entries in insertion order, k clamped to
	// the current size.
	Recent(ctx context.Context, k int) []Entry

	// All returns a lazy, restartable sequence over the full retained
	// window in insertion order. The sequence ranges over a snapshot
	// taken when All is called.
	All(ctx context.Context) iter.Seq[Entry]

	// Len returns the number of retained entries.
	Len(ctx context.Context) int

	// Cap returns the configured maximum capacity.
	Cap() int
}
