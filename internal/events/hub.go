package events

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"farm-backend/internal/metrics"
)

// Change tells clients which list to re-read.
type Change struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeWait = 5 * time.Second

// Hub fans write notifications out to every connected websocket client.
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Change
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Change, 64),
		logger:    logger,
	}
}

// Notify queues a change. It never blocks a write path; when the queue is
// full the change is dropped and clients catch up on the next one.
func (h *Hub) Notify(entity, action string, id int) {
	select {
	case h.broadcast <- Change{Entity: entity, Action: action, ID: id, Timestamp: time.Now()}:
	default:
		h.logger.Warn("change queue full, dropping event", zap.String("entity", entity), zap.Int("id", id))
	}
}

// Run delivers queued changes until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case change := <-h.broadcast:
			h.send(change)
		}
	}
}

func (h *Hub) send(change Change) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for client := range h.clients {
		client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteJSON(change); err != nil {
			client.Close()
			delete(h.clients, client)
			metrics.WebsocketClients.Dec()
		}
	}
}

func (h *Hub) closeAll() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
		metrics.WebsocketClients.Dec()
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and keeps the connection registered until the
// client goes away. Incoming messages are ignored.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()
	metrics.WebsocketClients.Inc()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.clientsMux.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		metrics.WebsocketClients.Dec()
	}
	h.clientsMux.Unlock()
	conn.Close()
}
