package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/aura-social/liveroom/internal/service"
)

func dialTestRoom(t *testing.T, hub *Hub, roomID string) *websocket.Conn {
	t.Helper()
	combos := service.NewComboService(time.Minute, nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, roomID, "u1", nil, combos)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, roomID string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		got := len(hub.rooms[roomID])
		hub.mu.RUnlock()
		if got == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s never reached %d clients", roomID, n)
}

func TestServeWS_PongReply(t *testing.T) {
	hub := NewHub(nil, nil)
	go hub.Run()
	conn := dialTestRoom(t, hub, "r1")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var frame map[string]string
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, "pong", frame["type"])
}

func TestServeWS_BroadcastReachesRoomClient(t *testing.T) {
	hub := NewHub(nil, nil)
	go hub.Run()
	conn := dialTestRoom(t, hub, "r1")
	waitForClients(t, hub, "r1", 1)

	hub.BroadcastToRoom("r1", []byte(`{"type":"room"}`))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var frame map[string]string
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, "room", frame["type"])
}

// Pong replies and broadcasts both drain through the client's send
// channel; interleaving them must never corrupt a frame.
func TestServeWS_PingDuringBroadcastKeepsFramesIntact(t *testing.T) {
	hub := NewHub(nil, nil)
	go hub.Run()
	conn := dialTestRoom(t, hub, "r1")
	waitForClients(t, hub, "r1", 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			hub.BroadcastToRoom("r1", []byte(`{"type":"room"}`))
		}
	}()
	for i := 0; i < 20; i++ {
		require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	}
	<-done

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 30; i++ {
		var frame map[string]string
		require.NoError(t, conn.ReadJSON(&frame))
		typ := frame["type"]
		require.True(t, typ == "room" || typ == "pong", "unexpected frame type %q", typ)
	}
}
