package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/commands"
)

const writeTimeout = 5 * time.Second

// ErrClosed is returned by Emit after the connection has gone away.
var ErrClosed = errors.New("connection closed")

// Client is a chat connection to a hub. It implements commands.Network and
// commands.Connection. Inbound events are handed to the post function so
// listeners run on the caller's UI goroutine.
type Client struct {
	conn   *websocket.Conn
	post   func(func())
	logger *zap.Logger

	writeMu sync.Mutex

	mu        sync.Mutex
	listeners map[int]func(any)
	nextID    int
	closed    bool

	done chan struct{}
}

type dialOptions struct {
	name   string
	token  string
	post   func(func())
	logger *zap.Logger
}

// DialOption configures Dial.
type DialOption func(*dialOptions)

// WithName sets the player name the hub stamps on our messages.
func WithName(name string) DialOption { return func(o *dialOptions) { o.name = name } }

// WithToken sends a bearer token on the upgrade request.
func WithToken(token string) DialOption { return func(o *dialOptions) { o.token = token } }

// WithPost routes inbound events through post. Without it listeners run on
// the reader goroutine.
func WithPost(post func(func())) DialOption { return func(o *dialOptions) { o.post = post } }

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) DialOption { return func(o *dialOptions) { o.logger = logger } }

// Dial connects to the hub at url and starts the reader.
func Dial(ctx context.Context, url string, opts ...DialOption) (*Client, error) {
	o := dialOptions{post: func(fn func()) { fn() }, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	header := http.Header{}
	if o.name != "" {
		header.Set(PlayerHeader, o.name)
	}
	if o.token != "" {
		header.Set("Authorization", "Bearer "+o.token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := &Client{
		conn:      conn,
		post:      o.post,
		logger:    o.logger,
		listeners: map[int]func(any){},
		done:      make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Connected reports whether a remote session owns chat display. Hub
// sessions never do: the hub does not echo a sender's own messages.
func (c *Client) Connected() bool { return false }

// Connection returns the client while the socket is open and nil afterwards.
func (c *Client) Connection() commands.Connection {
	if c.isClosed() {
		return nil
	}
	return c
}

// Emit sends one event with a JSON payload.
func (c *Client) Emit(event string, payload any) error {
	if c.isClosed() {
		return ErrClosed
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	frame := Frame{ID: uuid.NewString(), Event: event, Payload: raw}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() { s.once.Do(s.cancel) }

// OnChat registers fn for inbound chat payloads.
func (c *Client) OnChat(fn func(any)) commands.Subscription {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()
	return &subscription{cancel: func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}}
}

// Done is closed once the reader has stopped.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close says goodbye to the hub and waits for the reader to stop.
func (c *Client) Close() error {
	c.mu.Lock()
	already := c.closed
	c.closed = true
	c.mu.Unlock()
	if !already {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
		c.writeMu.Unlock()
	}
	err := c.conn.Close()
	<-c.done
	if already {
		return nil
	}
	return err
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		var frame Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if !c.isClosed() && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			c.mu.Lock()
			c.closed = true
			c.mu.Unlock()
			return
		}
		switch frame.Event {
		case commands.ChatEvent:
			payload := chatPayload(frame)
			c.post(func() { c.deliver(payload) })
		case eventError:
			var e ErrorPayload
			_ = json.Unmarshal(frame.Payload, &e)
			c.logger.Warn("hub rejected frame", zap.String("code", e.Code), zap.String("message", e.Message))
		default:
			c.logger.Debug("ignoring event", zap.String("event", frame.Event))
		}
	}
}

func (c *Client) deliver(payload any) {
	c.mu.Lock()
	fns := make([]func(any), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(payload)
	}
}

// chatPayload decodes a chat frame, prefixing the message with the sender.
func chatPayload(frame Frame) any {
	var msg commands.ChatMessage
	if err := json.Unmarshal(frame.Payload, &msg); err != nil || msg.Message == "" {
		return frame.Payload
	}
	if frame.From != "" {
		msg.Message = "<" + frame.From + "> " + msg.Message
	}
	return msg
}
