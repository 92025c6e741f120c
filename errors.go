package craftlink

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when a command is issued without an open
// connection to the supervisor.
var ErrNotConnected = errors.New("craftlink: not connected")

// AuthError is an authentication handshake rejected by the supervisor.
// Reason carries the raw server-supplied value.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected: %s", e.Reason)
}

// CommandError is a command acknowledged with an error by the supervisor.
type CommandError struct {
	Channel string
	Reason  string
}

func (e *CommandError) Error() string {
	return e.Reason
}
