package state

import "errors"

// ErrInvalidState is returned when writing a value that is not a known State.
var ErrInvalidState = errors.New("state: invalid state")
