package shahmat

import (
	"fmt"
	"strings"
)

// An ErrorKind classifies a GameError.
type ErrorKind string

const (
	// ErrKindInvalidMove marks a move attempt that does not fit the
	// position, from a human, a premove or an external source.
	ErrKindInvalidMove ErrorKind = "invalid_move"
	// ErrKindCallbackError marks an external move source that returned an
	// error or panicked.
	ErrKindCallbackError ErrorKind = "callback_error"
	// ErrKindTimeout marks an external move source that exceeded the
	// coordinator's deadline.
	ErrKindTimeout ErrorKind = "timeout"
)

// A GameError is the structured error the coordinator surfaces when a
// player or an external move source misbehaves. Engine state is never
// modified on any path that produces one: mutation only ever follows full
// validation.
type GameError struct {
	Kind    ErrorKind
	Player  Color
	Move    *Move
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GameError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "shahmat: %s (%s): %s", e.Kind, e.Player.Name(), e.Message)
	if e.Move != nil {
		fmt.Fprintf(&sb, " [%s]", e.Move)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

// Unwrap returns the underlying cause, if any.
func (e *GameError) Unwrap() error {
	return e.Cause
}
