package api

const defaultMaxRecent = 100

type options struct {
	maxRecent int
}

func defaultOptions() options {
	return options{maxRecent: defaultMaxRecent}
}

// Option customizes the API server.
type Option func(*options)

// WithMaxRecent caps how many history entries one request may fetch.
// Non-positive values are ignored.
func WithMaxRecent(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRecent = n
		}
	}
}
