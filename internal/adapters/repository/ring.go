package repository

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/forgewatch/forgewatch/pkg/metrics"
)

// Default history configuration constants.
const defaultCapacity = 500

// RingStore implements Store as a fixed-capacity ring buffer with
// index-based FIFO eviction. Append is O(1); memory stays bounded no
// matter how long the stream runs.
type RingStore struct {
	mu      sync.RWMutex
	entries []Entry
	head    int // index of the oldest entry
	size    int
	lastID  uint64
}

// NewRingStore creates a ring store with configuration options.
func NewRingStore(ctx context.Context, opts ...Option) *RingStore {
	s := &RingStore{entries: nil}
	capacity := defaultCapacity
	for _, opt := range opts {
		capacity = opt(capacity)
	}
	s.entries = make([]Entry, capacity)
	metrics.UpdateHistoryCapacity(capacity)
	metrics.UpdateHistorySize(0)
	return s
}

// Append adds an entry, evicting the oldest when the ring is full.
func (s *RingStore) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.size > 0 && e.Record.ID <= s.lastID {
		return fmt.Errorf("%w: id %d after %d", ErrNonMonotonic, e.Record.ID, s.lastID)
	}

	if s.size == len(s.entries) {
		// Overwrite the oldest slot and advance the head.
		s.entries[s.head] = e
		s.head = (s.head + 1) % len(s.entries)
		metrics.RecordHistoryEviction()
	} else {
		s.entries[(s.head+s.size)%len(s.entries)] = e
		s.size++
	}
	s.lastID = e.Record.ID
	metrics.UpdateHistorySize(s.size)
	return nil
}

// Recent returns the last k entries in insertion order.
func (s *RingStore) Recent(ctx context.Context, k int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k < 0 {
		k = 0
	}
	if k > s.size {
		k = s.size
	}
	out := make([]Entry, k)
	for i := 0; i < k; i++ {
		out[i] = s.entries[(s.head+s.size-k+i)%len(s.entries)]
	}
	return out
}

// All returns a lazy sequence over a snapshot of the retained window.
// Ranging again replays the same snapshot.
func (s *RingStore) All(ctx context.Context) iter.Seq[Entry] {
	snapshot := s.Recent(ctx, s.Len(ctx))
	return func(yield func(Entry) bool) {
		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of retained entries.
func (s *RingStore) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Cap returns the fixed capacity.
func (s *RingStore) Cap() int {
	return len(s.entries)
}
