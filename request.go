package craftlink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/craftlink/proto"
)

// settlement is the one-shot outcome of an in-flight request.
type settlement struct {
	result json.RawMessage
	errMsg string
}

// roundTrip emits one named message and waits for its single ack.
// The ack settles a buffered channel exactly once; if ctx expires first
// the caller is released but the request stays pending on the wire, and
// a late ack is discarded. A request the supervisor never acknowledges
// stays pending indefinitely: there is no retry, timeout, or
// cancellation below this point.
func (c *Client) roundTrip(ctx context.Context, channel string, data any) (json.RawMessage, error) {
	if !c.canEmit() {
		return nil, ErrNotConnected
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", channel, err)
	}

	done := make(chan settlement, 1)
	err = c.tr.Emit(channel, payload, func(result json.RawMessage, errMsg string) {
		// One-shot guard: the first ack settles, any duplicate is dropped.
		select {
		case done <- settlement{result: result, errMsg: errMsg}:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("emit %s: %w", channel, err)
	}

	select {
	case s := <-done:
		if s.errMsg != "" {
			return nil, &CommandError{Channel: channel, Reason: s.errMsg}
		}
		return s.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// command gates a request behind a fresh handshake. Re-authenticating
// before every command trades one extra round trip for the guarantee
// that nothing is emitted on a stale session; a rejected handshake
// rejects the command instead of letting it through unauthenticated.
func (c *Client) command(ctx context.Context, channel string, data any) (json.RawMessage, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, channel, data)
}

func (c *Client) commandBool(ctx context.Context, channel string, data any) (bool, error) {
	result, err := c.command(ctx, channel, data)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := json.Unmarshal(result, &ok); err != nil {
		return false, fmt.Errorf("decode %s ack: %w", channel, err)
	}
	return ok, nil
}

// Start asks the supervisor to start the given managed server.
func (c *Client) Start(ctx context.Context, serverID string) (bool, error) {
	return c.commandBool(ctx, proto.ChannelStart, proto.ServerRef{Server: serverID})
}

// Stop asks the supervisor to stop the given managed server.
func (c *Client) Stop(ctx context.Context, serverID string) (bool, error) {
	return c.commandBool(ctx, proto.ChannelStop, proto.ServerRef{Server: serverID})
}

// Console submits one console command line to the given managed server.
func (c *Client) Console(ctx context.Context, serverID, text string) (bool, error) {
	return c.commandBool(ctx, proto.ChannelConsole, proto.ConsoleData{Server: serverID, Text: text})
}

// OnlinePlayers returns the names of players currently on the server,
// in the order the supervisor reports them.
func (c *Client) OnlinePlayers(ctx context.Context, serverID string) ([]string, error) {
	result, err := c.command(ctx, proto.ChannelOnlinePlayers, proto.ServerRef{Server: serverID})
	if err != nil {
		return nil, err
	}
	var players []string
	if err := json.Unmarshal(result, &players); err != nil {
		return nil, fmt.Errorf("decode onlinePlayers ack: %w", err)
	}
	return players, nil
}

// Status returns the server's current lifecycle stage.
func (c *Client) Status(ctx context.Context, serverID string) (proto.Status, error) {
	result, err := c.command(ctx, proto.ChannelStatus, proto.ServerRef{Server: serverID})
	if err != nil {
		return "", err
	}
	var status proto.Status
	if err := json.Unmarshal(result, &status); err != nil {
		return "", fmt.Errorf("decode status ack: %w", err)
	}
	return status, nil
}

// WhitelistList returns the server's whitelist entries.
func (c *Client) WhitelistList(ctx context.Context, serverID string) ([]proto.WhitelistEntry, error) {
	result, err := c.command(ctx, proto.ChannelWhitelist, proto.WhitelistData{
		Server: serverID,
		Action: proto.WhitelistActionList,
	})
	if err != nil {
		return nil, err
	}
	var entries []proto.WhitelistEntry
	if err := json.Unmarshal(result, &entries); err != nil {
		return nil, fmt.Errorf("decode whitelist ack: %w", err)
	}
	return entries, nil
}

// WhitelistAdd adds a player to the server's whitelist.
func (c *Client) WhitelistAdd(ctx context.Context, serverID, player string) (bool, error) {
	return c.commandBool(ctx, proto.ChannelWhitelist, proto.WhitelistData{
		Server: serverID,
		Action: proto.WhitelistActionAdd,
		Player: player,
	})
}

// WhitelistRemove removes a player from the server's whitelist.
func (c *Client) WhitelistRemove(ctx context.Context, serverID, player string) (bool, error) {
	return c.commandBool(ctx, proto.ChannelWhitelist, proto.WhitelistData{
		Server: serverID,
		Action: proto.WhitelistActionRemove,
		Player: player,
	})
}
