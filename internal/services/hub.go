package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client represents one WebSocket connection watching a draft session.
type Client struct {
	ID        string
	SessionID string
	UserID    string
	Conn      *websocket.Conn
	Send      chan []byte
	Hub       *DraftHub
}

// DraftHub fans draft events out to the connections watching each session.
// Every registered client belongs to exactly one session.
type DraftHub struct {
	// Registered clients
	clients map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Connections grouped by draft session
	sessionChannels map[string][]*Client

	mu sync.RWMutex

	logger *logrus.Logger
}

// Event types pushed to session watchers
const (
	EventPickRecorded   = "pick_recorded"
	EventPickRemoved    = "pick_removed"
	EventOnTheClock     = "on_the_clock"
	EventSessionDeleted = "session_deleted"
)

// DraftEvent is the wire format for session updates.
type DraftEvent struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func NewDraftHub(logger *logrus.Logger) *DraftHub {
	return &DraftHub{
		clients:         make(map[*Client]bool),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		sessionChannels: make(map[string][]*Client),
		logger:          logger,
	}
}

// Run handles client registration and unregistration. Call it once from a
// goroutine at startup.
func (h *DraftHub) Run() {
	h.logger.Info("Starting draft WebSocket hub")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.sessionChannels[client.SessionID] = append(h.sessionChannels[client.SessionID], client)
			h.mu.Unlock()

			h.logger.WithFields(logrus.Fields{
				"client_id":  client.ID,
				"session_id": client.SessionID,
			}).Info("Draft watcher connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)

				if clients, exists := h.sessionChannels[client.SessionID]; exists {
					for i, c := range clients {
						if c == client {
							h.sessionChannels[client.SessionID] = append(clients[:i], clients[i+1:]...)
							break
						}
					}
					if len(h.sessionChannels[client.SessionID]) == 0 {
						delete(h.sessionChannels, client.SessionID)
					}
				}
			}
			h.mu.Unlock()

			h.logger.WithFields(logrus.Fields{
				"client_id":  client.ID,
				"session_id": client.SessionID,
			}).Info("Draft watcher disconnected")
		}
	}
}

// Serve upgrades the request and attaches the connection to a session. The
// caller has already verified the user owns the session.
func (h *DraftHub) Serve(w http.ResponseWriter, r *http.Request, sessionID, userID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket connection: %w", err)
	}

	client := &Client{
		ID:        fmt.Sprintf("client_%d", time.Now().UnixNano()),
		SessionID: sessionID,
		UserID:    userID,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Hub:       h,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

// NotifySession pushes an event to every connection watching a session.
func (h *DraftHub) NotifySession(sessionID, eventType string, data interface{}) {
	event := DraftEvent{
		Type:      eventType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal draft event")
		return
	}

	h.mu.RLock()
	clients := h.sessionChannels[sessionID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- payload:
		default:
			h.logger.WithFields(logrus.Fields{
				"client_id":  client.ID,
				"session_id": sessionID,
			}).Warn("Dropping draft event for slow client")
		}
	}
}

// WatcherCount reports how many connections are watching a session.
func (h *DraftHub) WatcherCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessionChannels[sessionID])
}

// readPump drains client messages to keep the connection healthy. Watchers
// are read-only; inbound payloads are discarded.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.WithError(err).Error("WebSocket error")
			}
			break
		}
	}
}

// writePump flushes queued events and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush anything queued behind this event in the same frame
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
