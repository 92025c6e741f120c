package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/craftlink/proto"
)

const writeTimeout = 10 * time.Second

// WS speaks the supervisor's frame protocol over a single websocket.
type WS struct {
	url string
	log zerolog.Logger

	writeMu sync.Mutex // serializes frame writes

	mu           sync.Mutex
	conn         *websocket.Conn
	cancelRead   context.CancelFunc
	connected    bool
	pending      map[string]AckFunc
	handlers     map[string]Handler
	unknown      func(channel string, data json.RawMessage)
	onConnect    func()
	onDisconnect func()
}

// WSOption customizes a WS transport.
type WSOption func(*WS)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger zerolog.Logger) WSOption {
	return func(w *WS) { w.log = logger }
}

// NewWS builds a transport for the given ws:// or wss:// endpoint.
// No connection is opened until Connect.
func NewWS(url string, opts ...WSOption) *WS {
	w := &WS{
		url:      url,
		log:      zerolog.Nop(),
		pending:  make(map[string]AckFunc),
		handlers: make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Connect dials the endpoint and starts the read loop. Calling it while
// already connected is a no-op.
func (w *WS) Connect(ctx context.Context) error {
	w.mu.Lock()
	if w.connected {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	conn, _, err := websocket.Dial(ctx, w.url, nil)
	if err != nil {
		return err
	}

	readCtx, cancel := context.WithCancel(context.Background())

	w.mu.Lock()
	if w.connected {
		// Lost the race to a concurrent Connect.
		w.mu.Unlock()
		cancel()
		conn.Close(websocket.StatusNormalClosure, "duplicate connect")
		return nil
	}
	w.conn = conn
	w.cancelRead = cancel
	w.connected = true
	hook := w.onConnect
	w.mu.Unlock()

	go w.readLoop(readCtx, conn)

	w.log.Debug().Str("url", w.url).Msg("connected")
	if hook != nil {
		hook()
	}
	return nil
}

// Close shuts the connection down. Safe to call when not connected.
func (w *WS) Close() error {
	w.mu.Lock()
	conn := w.conn
	cancel := w.cancelRead
	w.mu.Unlock()
	if conn == nil {
		return nil
	}
	err := conn.Close(websocket.StatusNormalClosure, "closing")
	if cancel != nil {
		cancel()
	}
	return err
}

func (w *WS) Emit(channel string, data json.RawMessage, ack AckFunc) error {
	w.mu.Lock()
	if !w.connected {
		w.mu.Unlock()
		return ErrClosed
	}
	conn := w.conn
	id := uuid.NewString()
	if ack != nil {
		w.pending[id] = ack
	}
	w.mu.Unlock()

	frame := proto.Frame{
		Type:    proto.FrameTypeReq,
		ID:      id,
		Channel: channel,
		Data:    data,
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	w.writeMu.Lock()
	err := wsjson.Write(ctx, conn, frame)
	w.writeMu.Unlock()
	if err != nil {
		w.mu.Lock()
		delete(w.pending, id)
		w.mu.Unlock()
		return err
	}
	return nil
}

func (w *WS) Handle(channel string, fn Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[channel] = fn
}

func (w *WS) HandleUnknown(fn func(channel string, data json.RawMessage)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.unknown = fn
}

func (w *WS) OnConnect(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onConnect = fn
}

func (w *WS) OnDisconnect(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDisconnect = fn
}

func (w *WS) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var frame proto.Frame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			w.closed(err)
			return
		}
		w.dispatch(frame)
	}
}

func (w *WS) dispatch(frame proto.Frame) {
	switch frame.Type {
	case proto.FrameTypeAck:
		w.mu.Lock()
		ack, ok := w.pending[frame.ID]
		delete(w.pending, frame.ID)
		w.mu.Unlock()
		if !ok {
			w.log.Debug().Str("id", frame.ID).Msg("ack with no pending request")
			return
		}
		if ack != nil {
			ack(frame.Data, frame.Error)
		}
	case proto.FrameTypeEvent:
		w.mu.Lock()
		handler := w.handlers[frame.Channel]
		unknown := w.unknown
		w.mu.Unlock()
		if handler != nil {
			handler(frame.Data)
		} else if unknown != nil {
			unknown(frame.Channel, frame.Data)
		}
	default:
		w.log.Debug().Str("type", frame.Type).Msg("ignoring unexpected frame")
	}
}

// closed records the connection as gone and fires the disconnect hook.
// Pending acks are dropped without settlement: a request in flight at
// disconnect time is never acknowledged.
func (w *WS) closed(err error) {
	w.mu.Lock()
	if !w.connected {
		w.mu.Unlock()
		return
	}
	w.connected = false
	w.conn = nil
	w.pending = make(map[string]AckFunc)
	cancel := w.cancelRead
	w.cancelRead = nil
	hook := w.onDisconnect
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		default:
			w.log.Warn().Err(err).Msg("connection closed with error")
		}
	}
	w.log.Debug().Msg("disconnected")
	if hook != nil {
		hook()
	}
}
