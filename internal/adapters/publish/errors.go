package publish

import "errors"

// ErrClosed marks operations on a closed publisher.
var ErrClosed = errors.New("publisher closed")
