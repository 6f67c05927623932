// Package dispatch fans simulation lifecycle events out to WebSocket
// clients. It is the broadcast-to-many-clients counterpart of
// sim.Simulation.On: a simulation's tick/end listener pushes an encoded
// snapshot into a Hub, and the Hub relays it to every client subscribed to
// that simulation's id.
package dispatch

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/onnwee/graphlayout/internal/logger"
	"github.com/onnwee/graphlayout/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one subscribed WebSocket connection, scoped to a single
// simulation id.
type Client struct {
	hub  *Hub
	room string
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains, per simulation id, the set of clients subscribed to that
// simulation's tick/end broadcasts.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage

	stop chan struct{}
}

type roomMessage struct {
	room    string
	payload []byte
}

// NewHub returns a Hub with no active clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 256),
		stop:       make(chan struct{}),
	}
}

// Run drives the hub's register/unregister/broadcast loop until Stop is
// called. Intended to run in its own goroutine for the lifetime of the
// process.
func (h *Hub) Run() {
	for {
		select {
		case <-h.stop:
			return
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.room] == nil {
				h.clients[c.room] = make(map[*Client]bool)
			}
			h.clients[c.room][c] = true
			h.mu.Unlock()
			metrics.WebSocketConnections.Inc()
			logger.Info("websocket client subscribed", "simulation_id", c.room)

		case c := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.clients[c.room]; ok {
				if _, ok := room[c]; ok {
					delete(room, c)
					close(c.send)
					metrics.WebSocketConnections.Dec()
				}
				if len(room) == 0 {
					delete(h.clients, c.room)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			room := h.clients[msg.room]
			for c := range room {
				select {
				case c.send <- msg.payload:
				default:
					close(c.send)
					delete(room, c)
					metrics.WebSocketConnections.Dec()
				}
			}
			h.mu.RUnlock()
			if len(room) > 0 {
				metrics.WebSocketMessagesSent.Add(float64(len(room)))
			}
		}
	}
}

// Stop halts Run's loop. Not safe to call twice.
func (h *Hub) Stop() { close(h.stop) }

// Broadcast enqueues payload for delivery to every client subscribed to
// room. Non-blocking: a full broadcast channel drops the message rather
// than stall the caller (typically a simulation's own tick handler).
func (h *Hub) Broadcast(room string, payload []byte) {
	select {
	case h.broadcast <- roomMessage{room: room, payload: payload}:
	default:
		logger.Warn("dispatch broadcast channel full, dropping message", "simulation_id", room)
	}
}

// Serve upgrades r to a WebSocket and registers a client subscribed to
// room, blocking until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, room string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{hub: h, room: room, conn: conn, send: make(chan []byte, 32)}
	h.register <- c

	go c.writePump()
	c.readPump()
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket unexpected close", "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
