package library

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when a classpath batch contains an entry that
// cannot be a path (empty, null or not a string). The whole batch is rejected.
var ErrInvalidInput = errors.New("invalid classpath input")

// InputError describes the offending entry of a rejected batch.
type InputError struct {
	Index  int
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: entry %d: %s", ErrInvalidInput, e.Index, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidInput) hold.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
