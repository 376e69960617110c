// Package tracking streams live employee movement to WebSocket clients
// watching a request.
package tracking

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"roadsaver_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
	readLimit    = 512
	sendBuffer   = 16
)

// Message is the frame written to tracking clients.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Localizer renders a message key in a language.
type Localizer func(lang, key string, params map[string]any) string

type conn struct {
	ws   *websocket.Conn
	lang string
	send chan []byte
}

// Hub fans tracking messages out to the connections of each request.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[uuid.UUID]map[*conn]struct{}
	upgrader websocket.Upgrader
	localize Localizer
	log      *logger.Logger
}

// NewHub creates a hub. allowOrigin decides which browser origins may
// connect; nil allows all.
func NewHub(localize Localizer, allowOrigin func(*http.Request) bool, log *logger.Logger) *Hub {
	if allowOrigin == nil {
		allowOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		rooms: make(map[uuid.UUID]map[*conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigin,
		},
		localize: localize,
		log:      log,
	}
}

// Serve upgrades the request and streams messages for requestID until the
// client goes away or the room is closed.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, requestID uuid.UUID, lang string) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &conn{ws: ws, lang: lang, send: make(chan []byte, sendBuffer)}
	h.add(requestID, c)
	h.log.Debug("tracking client connected", "requestId", requestID)

	go h.writePump(c)
	h.readPump(requestID, c)
	return nil
}

// Broadcast sends a message to every connection watching requestID. key is
// localised per connection when set.
func (h *Hub) Broadcast(requestID uuid.UUID, msgType, key string, params map[string]any, data any) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room := h.rooms[requestID]
	for c := range room {
		msg := Message{Type: msgType, Data: data}
		if key != "" && h.localize != nil {
			msg.Message = h.localize(c.lang, key, params)
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			h.log.Error("tracking message encode failed", "error", err)
			return 0
		}
		select {
		case c.send <- payload:
		default:
			h.log.Warn("tracking buffer full, dropping message", "requestId", requestID, "type", msgType)
		}
	}
	return len(room)
}

// CloseRoom disconnects every client of requestID after pending messages
// are written.
func (h *Hub) CloseRoom(requestID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.rooms[requestID] {
		close(c.send)
	}
	delete(h.rooms, requestID)
}

// Watchers reports how many clients follow requestID.
func (h *Hub) Watchers(requestID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[requestID])
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, room := range h.rooms {
		for c := range room {
			close(c.send)
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) add(requestID uuid.UUID, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[requestID]
	if !ok {
		room = make(map[*conn]struct{})
		h.rooms[requestID] = room
	}
	room[c] = struct{}{}
}

// remove closes c.send unless the room was already closed.
func (h *Hub) remove(requestID uuid.UUID, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[requestID]
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, requestID)
	}
}

// readPump discards client frames and keeps the read deadline alive.
func (h *Hub) readPump(requestID uuid.UUID, c *conn) {
	defer func() {
		h.remove(requestID, c)
		h.log.Debug("tracking client disconnected", "requestId", requestID)
	}()

	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the only writer of c.ws.
func (h *Hub) writePump(c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
