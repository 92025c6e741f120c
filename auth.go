package craftlink

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/vovakirdan/craftlink/proto"
)

// authenticate performs the credential handshake and updates readiness.
// Success requires the ack result to equal the "authenticated" sentinel
// exactly; any other value fails with the raw server-supplied reason.
// Safe to invoke repeatedly and concurrently: the identity is constant,
// so the final state reflects whichever attempt settled last.
func (c *Client) authenticate(ctx context.Context) error {
	result, err := c.roundTrip(ctx, proto.ChannelAuthenticate, proto.AuthData{
		Name:   c.cfg.Name,
		Secret: c.cfg.Secret,
	})
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			c.setState(StateAuthFailed)
			return &AuthError{Reason: cmdErr.Reason}
		}
		return err
	}

	var verdict string
	if unmarshalErr := json.Unmarshal(result, &verdict); unmarshalErr != nil {
		verdict = strings.TrimSpace(string(result))
	}
	if verdict != proto.AuthOK {
		c.setState(StateAuthFailed)
		return &AuthError{Reason: verdict}
	}

	c.setState(StateReady)
	return nil
}
