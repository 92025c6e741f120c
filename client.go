// Package craftlink is a client for driving remote game-server processes
// through a supervising daemon over one persistent websocket connection.
//
// A Client issues commands (start, stop, console, player and whitelist
// queries) against managed servers and routes supervisor-pushed events to
// per-event subscriber callbacks. Every command re-authenticates before it
// is emitted, so a command never reaches the wire on a stale session.
package craftlink

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/craftlink/transport"
)

// Config holds the immutable identity of a client. Set once at
// construction, never mutated.
type Config struct {
	// Name is the display name presented during authentication.
	Name string
	// Endpoint is the supervisor's ws:// or wss:// address.
	Endpoint string
	// Secret is the credential presented during authentication.
	Secret string
}

// Client manages remote game-server processes through a supervisor.
// All methods are safe for concurrent use.
type Client struct {
	cfg Config
	tr  transport.Transport
	log zerolog.Logger

	mu           sync.Mutex
	state        State
	onConnect    func(error)
	onDisconnect func()
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport swaps the underlying connection; the default is a
// websocket transport against cfg.Endpoint.
func WithTransport(tr transport.Transport) Option {
	return func(c *Client) { c.tr = tr }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.log = logger }
}

// New constructs a client. No connection is opened until Connect.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:          cfg,
		log:          zerolog.Nop(),
		state:        StateDisconnected,
		onConnect:    func(error) {},
		onDisconnect: func() {},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tr == nil {
		c.tr = transport.NewWS(cfg.Endpoint, transport.WithLogger(c.log))
	}
	c.tr.OnConnect(c.handleConnected)
	c.tr.OnDisconnect(c.handleDisconnected)
	return c
}

// Name returns the configured display name.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Connect asks the transport to open the connection and returns
// immediately. The outcome is delivered through the OnConnect callback:
// nil once the connection is up and the handshake succeeded, the error
// otherwise. Calling Connect while already connecting or connected is a
// no-op; after a disconnect it may be called again.
func (c *Client) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.mu.Unlock()

	go func() {
		if err := c.tr.Connect(ctx); err != nil {
			c.log.Warn().Err(err).Str("endpoint", c.cfg.Endpoint).Msg("connect failed")
			c.setState(StateDisconnected)
			c.connectCallback()(err)
		}
	}()
}

// Close tears down the connection.
func (c *Client) Close() error {
	return c.tr.Close()
}

// handleConnected runs when the transport reports the connection open:
// it performs the handshake and fires the connect lifecycle callback
// with the outcome.
func (c *Client) handleConnected() {
	c.setState(StateAuthenticating)
	err := c.authenticate(context.Background())
	if err != nil {
		c.log.Warn().Err(err).Msg("handshake failed")
	} else {
		c.log.Info().Str("name", c.cfg.Name).Msg("session ready")
	}
	c.connectCallback()(err)
}

// handleDisconnected runs when the transport reports the connection
// gone: the client is immediately not-ready and the disconnect
// lifecycle callback fires. No automatic reconnection happens here.
func (c *Client) handleDisconnected() {
	c.setState(StateDisconnected)
	c.log.Info().Msg("disconnected from supervisor")
	c.disconnectCallback()()
}

func (c *Client) connectCallback() func(error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onConnect
}

func (c *Client) disconnectCallback() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onDisconnect
}
