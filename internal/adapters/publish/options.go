package publish

// Default queue size per consumer.
const defaultBufferSize = 64

// Option applies a configuration option to the Publisher.
type Option func(*Publisher)

// WithBufferSize sets the per-consumer queue size. Non-positive values are
// ignored.
func WithBufferSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.bufferSize = n
		}
	}
}
