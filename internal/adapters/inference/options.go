package inference

import "github.com/forgewatch/forgewatch/pkg/logger"

// Option applies a configuration option to the Bank.
type Option func(*Bank)

// WithAdapters replaces the bank's adapter set. Order is preserved and
// becomes the per-unit invocation order.
func WithAdapters(adapters ...Adapter) Option {
	return func(b *Bank) {
		if len(adapters) > 0 {
			b.adapters = adapters
		}
	}
}

// WithLogger sets a custom logger for the bank.
func WithLogger(log logger.Logger) Option {
	return func(b *Bank) {
		if log != nil {
			b.log = log
		}
	}
}
