package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by the candidate pool when a recording is
// consumed twice or was never present.
var ErrNotFound = errors.New("recording not found in pool")

// TransportError marks a network-level failure talking to a collaborator,
// as opposed to a well-formed but unusable response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
