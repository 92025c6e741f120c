package craftlink

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/craftlink/proto"
	"github.com/vovakirdan/craftlink/transport"
)

// fakeTransport scripts acks per channel and lets tests push events and
// force disconnects.
type fakeTransport struct {
	mu        sync.Mutex
	connected bool
	dialErr   error

	script  map[string]func(data json.RawMessage) (json.RawMessage, string)
	silent  map[string]bool // channels that never ack on their own
	held    map[string]transport.AckFunc
	emitted []string

	handlers     map[string]transport.Handler
	unknown      func(channel string, data json.RawMessage)
	onConnect    func()
	onDisconnect func()
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		script:   make(map[string]func(json.RawMessage) (json.RawMessage, string)),
		silent:   make(map[string]bool),
		held:     make(map[string]transport.AckFunc),
		handlers: make(map[string]transport.Handler),
	}
}

// ackWith scripts the channel to acknowledge every request with the
// given result and error string.
func (f *fakeTransport) ackWith(channel string, result any, errMsg string) {
	raw, err := json.Marshal(result)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script[channel] = func(json.RawMessage) (json.RawMessage, string) {
		return raw, errMsg
	}
}

// neverAck scripts the channel to swallow requests without settlement.
// The ack handler is retained so fireAck can settle it later.
func (f *fakeTransport) neverAck(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.silent[channel] = true
}

// fireAck invokes the most recently retained ack for a silent channel,
// simulating an acknowledgment arriving long after emission. Each call
// fires the handler once more, so tests can probe duplicate delivery.
func (f *fakeTransport) fireAck(t *testing.T, channel string, result any, errMsg string) {
	t.Helper()
	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal %s ack: %v", channel, err)
	}
	f.mu.Lock()
	ack := f.held[channel]
	f.mu.Unlock()
	if ack == nil {
		t.Fatalf("no retained ack for channel %s", channel)
	}
	ack(raw, errMsg)
}

// push delivers a server-pushed event to the registered handler, or to
// the unknown-event handler when none is registered.
func (f *fakeTransport) push(t *testing.T, event string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", event, err)
	}
	f.pushRaw(event, raw)
}

// pushRaw delivers an unvalidated payload, for probing decode failures.
func (f *fakeTransport) pushRaw(event string, raw json.RawMessage) {
	f.mu.Lock()
	handler := f.handlers[proto.EventChannel(event)]
	unknown := f.unknown
	f.mu.Unlock()
	if handler != nil {
		handler(raw)
		return
	}
	if unknown != nil {
		unknown(proto.EventChannel(event), raw)
	}
}

// drop simulates the peer closing the connection.
func (f *fakeTransport) drop() {
	f.mu.Lock()
	f.connected = false
	hook := f.onDisconnect
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (f *fakeTransport) emittedChannels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.emitted...)
}

func (f *fakeTransport) Connect(ctx context.Context) error {
	f.mu.Lock()
	if f.dialErr != nil {
		err := f.dialErr
		f.mu.Unlock()
		return err
	}
	f.connected = true
	hook := f.onConnect
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	wasConnected := f.connected
	f.connected = false
	hook := f.onDisconnect
	f.mu.Unlock()
	if wasConnected && hook != nil {
		hook()
	}
	return nil
}

func (f *fakeTransport) Emit(channel string, data json.RawMessage, ack transport.AckFunc) error {
	f.mu.Lock()
	if !f.connected {
		f.mu.Unlock()
		return transport.ErrClosed
	}
	f.emitted = append(f.emitted, channel)
	respond := f.script[channel]
	silent := f.silent[channel]
	if silent && ack != nil {
		f.held[channel] = ack
	}
	f.mu.Unlock()

	if silent || respond == nil || ack == nil {
		return nil
	}
	result, errMsg := respond(data)
	ack(result, errMsg)
	return nil
}

func (f *fakeTransport) Handle(channel string, fn transport.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[channel] = fn
}

func (f *fakeTransport) HandleUnknown(fn func(channel string, data json.RawMessage)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unknown = fn
}

func (f *fakeTransport) OnConnect(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onConnect = fn
}

func (f *fakeTransport) OnDisconnect(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onDisconnect = fn
}

func newTestClient() (*Client, *fakeTransport) {
	tr := newFakeTransport()
	tr.ackWith(proto.ChannelAuthenticate, proto.AuthOK, "")
	client := New(Config{
		Name:     "srv-a",
		Endpoint: "ws://fake",
		Secret:   "s3cret",
	}, WithTransport(tr))
	return client, tr
}

// mustConnect connects and waits for a successful handshake.
func mustConnect(t *testing.T, client *Client) {
	t.Helper()
	done := make(chan error, 1)
	client.OnConnect(func(err error) {
		select {
		case done <- err:
		default:
		}
	})
	client.Connect(context.Background())
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("connect callback never fired")
	}
}
