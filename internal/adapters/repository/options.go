package repository

// Option configures a RingStore at construction.
type Option func(capacity int) int

// WithCapacity sets the maximum number of retained entries. Non-positive
// values are ignored and the default kept.
func WithCapacity(n int) Option {
	return func(capacity int) int {
		if n > 0 {
			return n
		}
		return capacity
	}
}
