package network

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/commands"
)

// DefaultReadTimeout is how long a peer may stay silent, pongs included,
// before the hub drops it.
const DefaultReadTimeout = 120 * time.Second

// Hub relays chat frames between connected players. It implements http.Handler.
type Hub struct {
	token       string
	logger      *zap.Logger
	upgrader    websocket.Upgrader
	readTimeout time.Duration

	mu     sync.Mutex
	peers  map[*peer]struct{}
	closed bool
	wg     sync.WaitGroup
}

type peer struct {
	name    string
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (p *peer) send(f Frame) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return p.conn.WriteJSON(f)
}

func (p *peer) ping() error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithReadTimeout sets how long a silent peer is kept. The hub pings each peer
// at 9/10 of it.
func WithReadTimeout(d time.Duration) HubOption {
	return func(h *Hub) {
		if d > 0 {
			h.readTimeout = d
		}
	}
}

// NewHub returns a hub. A non-empty token is required as a bearer token on
// every upgrade request.
func NewHub(token string, logger *zap.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		token:  token,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		readTimeout: DefaultReadTimeout,
		peers:       map[*peer]struct{}{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	name := strings.TrimSpace(r.Header.Get(PlayerHeader))
	if name == "" {
		name = "player-" + uuid.NewString()[:8]
	}
	p := &peer{name: name, conn: conn}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.peers[p] = struct{}{}
	h.wg.Add(1)
	h.mu.Unlock()

	h.logger.Info("player joined", zap.String("player", name), zap.String("remote", conn.RemoteAddr().String()))
	h.serve(p)
}

func (h *Hub) authorized(r *http.Request) bool {
	if h.token == "" {
		return true
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}

func (h *Hub) serve(p *peer) {
	defer h.wg.Done()
	stop, pinged := make(chan struct{}), make(chan struct{})
	go h.keepAlive(p, stop, pinged)
	defer func() {
		close(stop)
		<-pinged
	}()
	defer h.drop(p)

	_ = p.conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	})

	for {
		var f Frame
		if err := p.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read error", zap.String("player", p.name), zap.Error(err))
			}
			return
		}
		_ = p.conn.SetReadDeadline(time.Now().Add(h.readTimeout))

		switch f.Event {
		case commands.ChatEvent:
			var msg commands.ChatMessage
			if err := json.Unmarshal(f.Payload, &msg); err != nil {
				h.reject(p, f, "invalid_payload", "invalid chat payload")
				continue
			}
			f.From = p.name
			if f.ID == "" {
				f.ID = uuid.NewString()
			}
			h.broadcast(p, f)
		default:
			h.reject(p, f, "unknown_event", "unknown event: "+f.Event)
		}
	}
}

// keepAlive pings p until stop closes so an idle player's pongs keep its read
// deadline moving.
func (h *Hub) keepAlive(p *peer, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(h.readTimeout * 9 / 10)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := p.ping(); err != nil {
				h.logger.Debug("ping failed", zap.String("player", p.name), zap.Error(err))
				return
			}
		}
	}
}

// broadcast sends f to every peer except the sender.
func (h *Hub) broadcast(from *peer, f Frame) {
	h.mu.Lock()
	targets := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		if p != from {
			targets = append(targets, p)
		}
	}
	h.mu.Unlock()

	for _, p := range targets {
		if err := p.send(f); err != nil {
			h.logger.Warn("relay failed", zap.String("player", p.name), zap.Error(err))
		}
	}
}

func (h *Hub) reject(p *peer, f Frame, code, message string) {
	payload, _ := json.Marshal(ErrorPayload{Code: code, Message: message})
	if err := p.send(Frame{ID: f.ID, Event: eventError, Payload: payload}); err != nil {
		h.logger.Warn("send error frame failed", zap.String("player", p.name), zap.Error(err))
	}
}

func (h *Hub) drop(p *peer) {
	h.mu.Lock()
	delete(h.peers, p)
	h.mu.Unlock()
	_ = p.conn.Close()
	h.logger.Info("player left", zap.String("player", p.name))
}

// Players returns the names of connected players.
func (h *Hub) Players() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.peers))
	for p := range h.peers {
		out = append(out, p.name)
	}
	return out
}

// Close disconnects every player and waits for their readers to stop.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		p.writeMu.Lock()
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(writeTimeout))
		p.writeMu.Unlock()
		_ = p.conn.Close()
	}
	h.wg.Wait()
}
