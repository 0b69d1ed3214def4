package rsvp

import (
	"errors"
	"fmt"
)

// ErrEngineDestroyed is reported when an operation reaches an engine after
// Destroy.
var ErrEngineDestroyed = errors.New("rsvp engine has been destroyed")

// ListenerError describes a listener that panicked while being notified.
type ListenerError struct {
	Event EventType // Event being delivered
	Value any       // Value recovered from the panic
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return fmt.Sprintf("rsvp listener panicked during %s event: %v", e.Event, e.Value)
}

// Unwrap returns the panic value when it was itself an error.
func (e *ListenerError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
