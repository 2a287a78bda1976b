// Package publish fans pipeline results out to downstream consumers over
// bounded queues. The stream loop never blocks on a slow consumer: when a
// consumer's queue is full its oldest pending result is dropped and counted.
package publish

import (
	"context"
	"sync"

	"github.com/forgewatch/forgewatch/internal/adapters/repository"
	"github.com/forgewatch/forgewatch/pkg/metrics"
)

// Result is the triple delivered to consumers. Same shape as a history
// entry.
type Result = repository.Entry

// subscriber is one registered consumer with its bounded queue.
type subscriber struct {
	name string
	ch   chan Result
}

// Publisher delivers results to registered consumers.
type Publisher struct {
	mu         sync.Mutex
	subs       map[string]*subscriber
	bufferSize int
	closed     bool
}

// New creates a publisher with configuration options.
func New(opts ...Option) *Publisher {
	p := &Publisher{
		subs:       make(map[string]*subscriber),
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe registers a named consumer and returns its receive channel.
// Re-subscribing an existing name replaces the old subscription and closes
// its channel.
func (p *Publisher) Subscribe(name string) (<-chan Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if old, ok := p.subs[name]; ok {
		close(old.ch)
	}
	sub := &subscriber{name: name, ch: make(chan Result, p.bufferSize)}
	p.subs[name] = sub
	return sub.ch, nil
}

// Unsubscribe removes a consumer and closes its channel.
func (p *Publisher) Unsubscribe(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sub, ok := p.subs[name]; ok {
		close(sub.ch)
		delete(p.subs, name)
	}
}

// Publish delivers r to every consumer without blocking. A full queue
// drops that consumer's oldest pending result to make room, so consumers
// always converge on the newest decisions.
func (p *Publisher) Publish(ctx context.Context, r Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	for _, sub := range p.subs {
		select {
		case sub.ch <- r:
		default:
			select {
			case <-sub.ch:
				metrics.RecordPublishDrop(sub.name)
			default:
			}
			select {
			case sub.ch <- r:
			default:
			}
		}
	}
	metrics.RecordPublished()
}

// ConsumerCount reports the number of registered consumers.
func (p *Publisher) ConsumerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Close closes every consumer channel. Further publishes are no-ops.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	for name, sub := range p.subs {
		close(sub.ch)
		delete(p.subs, name)
	}
	return nil
}
