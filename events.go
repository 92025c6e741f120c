package craftlink

import (
	"encoding/json"
	"strings"

	"github.com/vovakirdan/craftlink/proto"
)

// Event subscriptions. Each event name carries one callback at a time:
// registering again replaces the previous one, and only the latest
// registration fires on the next matching notification. The connect and
// disconnect callbacks are synthesized locally by the client rather than
// forwarded from the transport.

// OnConnect registers the lifecycle callback fired once per Connect
// attempt: with nil after a successful handshake, with the error after a
// dial or handshake failure.
func (c *Client) OnConnect(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnect = fn
}

// OnDisconnect registers the lifecycle callback fired when the
// connection drops.
func (c *Client) OnDisconnect(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisconnect = fn
}

// OnLine registers the callback for raw console output lines.
func (c *Client) OnLine(fn func(proto.LineEvent)) {
	subscribe(c, proto.EventLine, fn)
}

// OnStatus registers the callback for server status transitions.
func (c *Client) OnStatus(fn func(proto.StatusEvent)) {
	subscribe(c, proto.EventStatus, fn)
}

// OnStarting registers the callback for server-starting notices.
func (c *Client) OnStarting(fn func(proto.StageEvent)) {
	subscribe(c, proto.EventStarting, fn)
}

// OnOnline registers the callback for server-online notices.
func (c *Client) OnOnline(fn func(proto.StageEvent)) {
	subscribe(c, proto.EventOnline, fn)
}

// OnStopping registers the callback for server-stopping notices.
func (c *Client) OnStopping(fn func(proto.StageEvent)) {
	subscribe(c, proto.EventStopping, fn)
}

// OnOffline registers the callback for server-offline notices.
func (c *Client) OnOffline(fn func(proto.StageEvent)) {
	subscribe(c, proto.EventOffline, fn)
}

// OnLogin registers the callback for player logins.
func (c *Client) OnLogin(fn func(proto.PlayerEvent)) {
	subscribe(c, proto.EventLogin, fn)
}

// OnLogout registers the callback for player logouts.
func (c *Client) OnLogout(fn func(proto.PlayerEvent)) {
	subscribe(c, proto.EventLogout, fn)
}

// OnRconRunning registers the callback for rcon-listener-up notices.
func (c *Client) OnRconRunning(fn func(proto.RconEvent)) {
	subscribe(c, proto.EventRconRunning, fn)
}

// OnAny registers the catch-all callback, fired for any pushed event
// that has no dedicated subscriber. The payload is delivered raw
// alongside the event name.
func (c *Client) OnAny(fn func(proto.AnyEvent)) {
	c.tr.HandleUnknown(func(channel string, data json.RawMessage) {
		var head struct {
			Server string `json:"server"`
		}
		_ = json.Unmarshal(data, &head)
		fn(proto.AnyEvent{
			Server: head.Server,
			Event:  strings.TrimPrefix(channel, proto.EventPrefix),
			Data:   data,
		})
	})
}

// subscribe wires a typed callback to the event's wire channel,
// replacing whatever handler that channel had.
func subscribe[T any](c *Client, event string, fn func(T)) {
	c.tr.Handle(proto.EventChannel(event), func(data json.RawMessage) {
		var ev T
		if err := json.Unmarshal(data, &ev); err != nil {
			c.log.Warn().Err(err).Str("event", event).Msg("drop undecodable event")
			return
		}
		fn(ev)
	})
}
