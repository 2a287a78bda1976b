package repository

import "errors"

// Sentinel kinds for history errors.
var (
	// ErrNonMonotonic means an appended entry's unit identifier did not
	// strictly increase. The buffer never reorders, so the append is
	// rejected.
	ErrNonMonotonic = errors.New("unit identifier not increasing")
)
