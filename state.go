package craftlink

// State tracks the client's overall readiness to issue commands.
type State int

const (
	// StateDisconnected means no connection to the supervisor exists.
	StateDisconnected State = iota
	// StateConnecting means a connect request is in flight.
	StateConnecting
	// StateAuthenticating means the connection is open and the handshake
	// is in flight.
	StateAuthenticating
	// StateReady means the client holds a valid authenticated session.
	StateReady
	// StateAuthFailed means the supervisor rejected the handshake; the
	// connection stays open and commands will retry the handshake.
	StateAuthFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	case StateAuthFailed:
		return "auth_failed"
	default:
		return "unknown"
	}
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ready reports whether the client holds a valid authenticated session.
func (c *Client) Ready() bool {
	return c.State() == StateReady
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// canEmit reports whether the connection is open enough to carry frames.
// Commands are allowed while authenticating or after an auth failure
// because both run with the transport connection still up.
func (c *Client) canEmit() bool {
	switch c.State() {
	case StateAuthenticating, StateReady, StateAuthFailed:
		return true
	}
	return false
}
