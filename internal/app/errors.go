package app

import "errors"

// ErrBadTransition marks a lifecycle call that is illegal from the current
// state, e.g. starting a stopped orchestrator.
var ErrBadTransition = errors.New("illegal state transition")
