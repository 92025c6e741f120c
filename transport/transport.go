package transport

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrClosed is returned when emitting on a connection that is not open.
var ErrClosed = errors.New("transport: connection closed")

// AckFunc receives the single acknowledgment for an emitted message.
// Exactly one of result/errMsg is meaningful: a non-empty errMsg means
// the request failed and result must be discarded.
type AckFunc func(result json.RawMessage, errMsg string)

// Handler receives the payload of a pushed event on a subscribed channel.
type Handler func(data json.RawMessage)

// Transport is the duplex connection the client runs on: named-message
// emission with an optional one-shot ack, named-message subscription, and
// connect/disconnect lifecycle hooks. Registering a handler for a channel
// that already has one replaces it.
type Transport interface {
	// Connect opens the connection. It blocks until the connection is
	// established or fails, and fires the connect hook on success.
	Connect(ctx context.Context) error
	// Close tears the connection down and fires the disconnect hook.
	Close() error
	// Emit sends one named message. If ack is non-nil it is invoked at
	// most once, when the peer acknowledges; a message the peer never
	// acknowledges leaves the ack uncalled forever.
	Emit(channel string, data json.RawMessage, ack AckFunc) error
	// Handle subscribes fn to a pushed-event channel, replacing any
	// previous handler for that channel.
	Handle(channel string, fn Handler)
	// HandleUnknown subscribes fn to every pushed event that has no
	// dedicated handler.
	HandleUnknown(fn func(channel string, data json.RawMessage))
	// OnConnect registers the hook fired after the connection opens.
	OnConnect(fn func())
	// OnDisconnect registers the hook fired after the connection drops,
	// whether by Close or by the peer.
	OnDisconnect(fn func())
}
