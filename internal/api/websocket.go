package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"cocsim/internal/config"
)

const writeWait = 5 * time.Second

// wsMessage is the envelope of every frame sent to clients.
type wsMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func encodeMessage(event string, data any) ([]byte, error) {
	return json.Marshal(wsMessage{Event: event, Data: data})
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub fans showcase frames out to all connected clients.
// Only the Run goroutine writes to connections.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	done       chan struct{} // closed when Run returns
	mu         sync.RWMutex

	upgrader  websocket.Upgrader
	wsLimiter *WebSocketRateLimiter
	maxTotal  int

	// greeting is sent to each client right after it registers.
	greeting []byte
}

// NewWebSocketHub creates a hub enforcing the WebSocket limits of l.
func NewWebSocketHub(l config.ResourceLimits, origins *OriginChecker) *WebSocketHub {
	h := &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		wsLimiter:  NewWebSocketRateLimiter(l.MaxWSPerIP),
		maxTotal:   l.MaxWSConnections,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origins.Allowed(origin) {
				return true
			}
			log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
			RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// SetGreeting sets the message new clients receive first. Call before Run.
func (h *WebSocketHub) SetGreeting(event string, data any) error {
	msg, err := encodeMessage(event, data)
	if err != nil {
		return err
	}
	h.greeting = msg
	return nil
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every connection.
func (h *WebSocketHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn, client := range h.clients {
				h.wsLimiter.Release(client.ip)
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			UpdateWSConnections(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)
			if h.greeting != nil && !h.send(client.conn, h.greeting) {
				h.remove(client.conn)
			}

		case conn := <-h.unregister:
			h.remove(conn)

		case message := <-h.broadcast:
			h.mu.RLock()
			var dead []*websocket.Conn
			for conn := range h.clients {
				if !h.send(conn, message) {
					dead = append(dead, conn)
				}
			}
			h.mu.RUnlock()
			for _, conn := range dead {
				h.remove(conn)
			}
		}
	}
}

func (h *WebSocketHub) send(conn *websocket.Conn, message []byte) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return false
	}
	IncrementWSMessages()
	return true
}

func (h *WebSocketHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	client, ok := h.clients[conn]
	if ok {
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
		conn.Close()
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		log.Printf("📱 Client disconnected (%d remaining)", count)
		UpdateWSConnections(count)
	}
}

// Broadcast queues a message for all clients. A full queue drops it.
func (h *WebSocketHub) Broadcast(event string, data any) {
	msg, err := encodeMessage(event, data)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastShowcase sends the latest showcase frame hz times per second
// while clients are connected. It returns when ctx is cancelled.
func (h *WebSocketHub) BroadcastShowcase(ctx context.Context, src ShowcaseSource, hz int) {
	if hz <= 0 {
		hz = config.DefaultShowcase().BroadcastHz
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	var lastSeq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if h.ClientCount() == 0 {
			continue
		}
		frame := src.Latest()
		if frame == nil || frame.Snapshot.Sequence == lastSeq {
			continue
		}
		lastSeq = frame.Snapshot.Sequence
		h.Broadcast("showcase:frame", frame)
	}
}

// HandleWebSocket upgrades the request after checking connection limits.
// Client messages are read and discarded.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if total := h.ClientCount(); total >= h.maxTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", total)
		RecordConnectionRejected("ws_limit")
		writeError(w, "too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_limit")
		writeError(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}

	select {
	case h.register <- &wsClient{conn: conn, ip: ip}:
	case <-h.done:
		h.wsLimiter.Release(ip)
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()
		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
