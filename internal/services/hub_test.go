package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialHub spins up a server that attaches every connection to the session id
// in the query string, and dials it.
func dialHub(t *testing.T, hub *DraftHub, sessionID string) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.Serve(w, r, r.URL.Query().Get("session"), uuid.NewString()); err != nil {
			t.Errorf("serve: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) DraftEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event DraftEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	return event
}

// TestHubBroadcastsToSessionWatchers tests that an event reaches every
// connection on the session
func TestHubBroadcastsToSessionWatchers(t *testing.T) {
	hub := NewDraftHub(testLogger())
	go hub.Run()

	sessionID := uuid.NewString()
	connA := dialHub(t, hub, sessionID)
	connB := dialHub(t, hub, sessionID)

	require.Eventually(t, func() bool {
		return hub.WatcherCount(sessionID) == 2
	}, time.Second, 10*time.Millisecond)

	hub.NotifySession(sessionID, EventPickRecorded, map[string]interface{}{
		"added": []string{"Bijan Robinson"},
	})

	for _, conn := range []*websocket.Conn{connA, connB} {
		event := readEvent(t, conn)
		assert.Equal(t, EventPickRecorded, event.Type)
		assert.Equal(t, sessionID, event.SessionID)
		assert.NotZero(t, event.Timestamp)

		data, ok := event.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, data, "added")
	}
}

// TestHubScopesEventsToSession tests that other sessions stay quiet
func TestHubScopesEventsToSession(t *testing.T) {
	hub := NewDraftHub(testLogger())
	go hub.Run()

	sessionA := uuid.NewString()
	sessionB := uuid.NewString()
	connA := dialHub(t, hub, sessionA)
	connB := dialHub(t, hub, sessionB)

	require.Eventually(t, func() bool {
		return hub.WatcherCount(sessionA) == 1 && hub.WatcherCount(sessionB) == 1
	}, time.Second, 10*time.Millisecond)

	hub.NotifySession(sessionA, EventOnTheClock, nil)

	event := readEvent(t, connA)
	assert.Equal(t, EventOnTheClock, event.Type)

	require.NoError(t, connB.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := connB.ReadMessage()
	assert.Error(t, err, "watcher of another session must not receive the event")
}

// TestHubUnregistersOnDisconnect tests watcher cleanup when a connection
// drops
func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub := NewDraftHub(testLogger())
	go hub.Run()

	sessionID := uuid.NewString()
	conn := dialHub(t, hub, sessionID)

	require.Eventually(t, func() bool {
		return hub.WatcherCount(sessionID) == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return hub.WatcherCount(sessionID) == 0
	}, time.Second, 10*time.Millisecond)

	// Notifying an empty session is a no-op, not a panic.
	hub.NotifySession(sessionID, EventSessionDeleted, nil)
}
