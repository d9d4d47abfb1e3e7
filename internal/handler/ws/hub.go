package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"TickForge/internal/domain/models"
	applogger "TickForge/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// Frame is one stream message: a tick batch or a news batch.
type Frame struct {
	Type string      `json:"type"` // "ticks" or "news"
	Data interface{} `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans simulation frames out to every connected WebSocket client.
// Slow clients are dropped rather than allowed to stall the tick loop.
type Hub struct {
	l *applogger.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty stream hub.
func NewHub(l *applogger.Logger) *Hub {
	return &Hub{
		l:       l,
		clients: make(map[*client]struct{}),
	}
}

// RegisterRoutes mounts the stream endpoint.
func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/stream", h.handleStream)
}

func (h *Hub) handleStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.l.Warn("websocket upgrade failed", applogger.Error(err))
		return nil
	}

	cl := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.l.Info("stream client connected",
		applogger.String("remote", conn.RemoteAddr().String()),
		applogger.Int("clients", n),
	)

	go h.writePump(cl)
	go h.readPump(cl)
	return nil
}

// BroadcastTicks sends a tick batch to every client.
func (h *Hub) BroadcastTicks(quotes []models.Quote) {
	h.broadcast(Frame{Type: "ticks", Data: quotes})
}

// BroadcastNews sends a news batch to every client.
func (h *Hub) BroadcastNews(events []models.NewsEvent) {
	h.broadcast(Frame{Type: "news", Data: events})
}

func (h *Hub) broadcast(f Frame) {
	payload, err := json.Marshal(f)
	if err != nil {
		h.l.Error("stream frame marshal failed", applogger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			// Client is not keeping up; drop it.
			delete(h.clients, cl)
			close(cl.send)
		}
	}
}

func (h *Hub) removeClient(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) readPump(cl *client) {
	defer func() {
		h.removeClient(cl)
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// The stream is one-way; reads only service control frames.
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount reports the number of connected stream clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
