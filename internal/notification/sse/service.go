// Package sse provides Server-Sent Events support for real-time notifications.
package sse

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"roadsaver_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	clientBuffer      = 32
	heartbeatInterval = 25 * time.Second
)

// Notice is a notification before localisation.
type Notice struct {
	Type      string
	RequestID uuid.UUID
	Key       string
	Params    map[string]any
	Data      any
}

// Event is the payload written to a client.
type Event struct {
	Type      string    `json:"type"`
	RequestID uuid.UUID `json:"requestId,omitempty"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Localizer renders a notice key in a language.
type Localizer func(lang, key string, params map[string]any) string

type client struct {
	username string
	lang     string
	events   chan Event
}

// Service manages SSE connections and event delivery per username.
type Service struct {
	mu        sync.RWMutex
	clients   map[string][]*client
	localize  Localizer
	heartbeat time.Duration
	log       *logger.Logger
}

// New creates a new SSE service.
func New(localize Localizer, log *logger.Logger) *Service {
	return &Service{
		clients:   make(map[string][]*client),
		localize:  localize,
		heartbeat: heartbeatInterval,
		log:       log,
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.username] = append(s.clients[c.username], c)
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.clients[c.username]
	for i, cl := range clients {
		if cl == c {
			s.clients[c.username] = append(clients[:i], clients[i+1:]...)
			close(c.events)
			break
		}
	}
	if len(s.clients[c.username]) == 0 {
		delete(s.clients, c.username)
	}
}

// Publish sends a notice to every stream of username, localised per stream.
func (s *Service) Publish(username string, n Notice) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := s.clients[username]
	for _, c := range clients {
		ev := Event{Type: n.Type, RequestID: n.RequestID, Data: n.Data}
		if n.Key != "" && s.localize != nil {
			ev.Message = s.localize(c.lang, n.Key, n.Params)
		}
		select {
		case c.events <- ev:
		default:
			s.log.Warn("sse buffer full, dropping event", "username", username, "type", n.Type)
		}
	}
	return len(clients)
}

// Connected reports how many streams username has open.
func (s *Service) Connected(username string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[username])
}

// Handler returns a gin handler that streams events for the username and
// language chosen by the given extractors.
func (s *Service) Handler(getUsername func(*gin.Context) (string, bool), getLang func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := getUsername(c)
		if !ok || strings.TrimSpace(username) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			username: username,
			lang:     getLang(c),
			events:   make(chan Event, clientBuffer),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"username": username, "language": cl.lang})
		c.Writer.Flush()
		s.log.Debug("sse client connected", "username", username)

		heartbeat := time.NewTicker(s.heartbeat)
		defer heartbeat.Stop()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				s.log.Debug("sse client disconnected", "username", username)
				return
			case <-heartbeat.C:
				c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
				c.Writer.Flush()
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, _ := json.Marshal(event)
				c.SSEvent(event.Type, string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close disconnects every client.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, clients := range s.clients {
		for _, c := range clients {
			close(c.events)
		}
	}
	s.clients = make(map[string][]*client)
}
