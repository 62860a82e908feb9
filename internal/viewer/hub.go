package viewer

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/zeusync/tapwalk/internal/core/events/bus"
	"github.com/zeusync/tapwalk/internal/core/observability/log"
	"github.com/zeusync/tapwalk/internal/core/placement"
)

const shutdownTimeout = 3 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub fans frame snapshots and bus events out to websocket viewers. It keeps
// the latest snapshot so a new viewer sees the scene immediately.
type Hub struct {
	cfg Config
	log log.Log

	mu       sync.RWMutex
	clients  map[string]*client
	latest   []byte
	lastHash uint64
	closed   bool

	sent    atomic.Uint64
	skipped atomic.Uint64
	dropped atomic.Uint64
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

func NewHub(cfg Config, logger log.Log) *Hub {
	if logger == nil {
		logger = log.Nop()
	}
	if cfg.ClientBuffer <= 0 {
		cfg.ClientBuffer = DefaultConfig().ClientBuffer
	}
	return &Hub{
		cfg:     cfg,
		log:     logger.Named("viewer"),
		clients: make(map[string]*client),
	}
}

// Publish queues a snapshot for every viewer. Snapshots that differ from the
// previous one only by frame number are skipped, so an idle scene is quiet.
func (h *Hub) Publish(snap placement.Snapshot) {
	key := snap
	key.Frame = 0
	keyData, err := json.Marshal(key)
	if err != nil {
		h.log.Warn("snapshot encode failed", log.Err(err))
		return
	}
	sum := xxhash.Sum64(keyData)

	data, err := json.Marshal(Message{Kind: KindSnapshot, Snapshot: &snap})
	if err != nil {
		h.log.Warn("snapshot encode failed", log.Err(err))
		return
	}

	h.mu.Lock()
	if h.latest != nil && sum == h.lastHash {
		h.mu.Unlock()
		h.skipped.Add(1)
		return
	}
	h.latest, h.lastHash = data, sum
	h.mu.Unlock()

	h.broadcast(data)
}

// HandleEvent forwards a bus event to every viewer. It has the bus handler
// signature so the hub can subscribe to bus.AnyType.
func (h *Hub) HandleEvent(e bus.Event) error {
	data, err := json.Marshal(Message{Kind: KindEvent, Event: &EventMessage{
		Type:      e.Type(),
		Source:    e.Source(),
		Timestamp: e.Timestamp(),
		Data:      e.Data(),
	}})
	if err != nil {
		return errors.Wrapf(err, "encode event %s", e.Type())
	}
	h.broadcast(data)
	return nil
}

// Attach subscribes the hub to every event on b.
func (h *Hub) Attach(b bus.EventBus) (bus.Subscription, error) {
	return b.Subscribe(bus.AnyType, h.HandleEvent)
}

// broadcast never blocks the frame loop. A viewer whose buffer is full is
// disconnected.
func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- data:
			h.sent.Add(1)
		default:
			h.dropped.Add(1)
			h.log.Warn("slow viewer dropped", log.String("client", id))
			delete(h.clients, id)
			c.close()
		}
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns the sent, skipped and dropped counters.
func (h *Hub) Stats() (sent, skipped, dropped uint64) {
	return h.sent.Load(), h.skipped.Load(), h.dropped.Load()
}

func (h *Hub) register(conn *websocket.Conn) (*client, bool) {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.cfg.ClientBuffer),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	if h.latest != nil {
		c.send <- h.latest
	}
	h.clients[c.id] = c
	return c, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if h.clients[c.id] == c {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
	c.close()
}

// ServeHTTP upgrades the request and streams messages until the viewer goes
// away or the hub shuts down. Viewers are read-only; inbound frames are
// discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("upgrade failed", log.Err(err))
		return
	}

	c, ok := h.register(conn)
	if !ok {
		_ = conn.Close()
		return
	}
	h.log.Info("viewer connected", log.String("client", c.id), log.String("remote", conn.RemoteAddr().String()))

	go func() {
		defer h.unregister(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.writeLoop(c)
	h.log.Info("viewer disconnected", log.String("client", c.id))
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		if h.cfg.WriteTimeout > 0 {
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("write failed", log.String("client", c.id), log.Err(errors.Wrap(err, "write message")))
			h.unregister(c)
			return
		}
	}
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(time.Second),
	)
}

// Close disconnects every viewer and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		c.close()
	}
}

// Run serves the hub on cfg.Addr until ctx is cancelled, then shuts the
// server down gracefully.
func (h *Hub) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "viewer listen %s", h.cfg.Addr)
	}
	return h.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (h *Hub) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle(h.cfg.Path, h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	h.log.Info("viewer listening", log.String("addr", ln.Addr().String()), log.String("path", h.cfg.Path))

	select {
	case err := <-errCh:
		h.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "viewer serve")
	case <-ctx.Done():
	}

	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "viewer shutdown")
	}
	return nil
}
