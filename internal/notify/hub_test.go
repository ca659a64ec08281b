package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.ServeWS(w, r, r.URL.Query().Get("user")); err != nil {
			t.Logf("upgrade failed: %v", err)
		}
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server, user string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user=" + user
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	msg := read(t, ws)
	require.Equal(t, TypeConnection, msg.Type)
	return ws
}

func read(t *testing.T, ws *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func expectSilence(t *testing.T, ws *websocket.Conn) {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := ws.ReadMessage()
	require.Error(t, err, "expected no frame")
}

func TestHub_PingPong(t *testing.T) {
	hub := NewHub("*")
	ws := dial(t, newTestServer(t, hub), "u1")

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "ping"}))

	msg := read(t, ws)
	assert.Equal(t, TypePong, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestHub_PublishIsUserScoped(t *testing.T) {
	hub := NewHub("*")
	srv := newTestServer(t, hub)
	alice := dial(t, srv, "alice")
	aliceTab := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 3 }, time.Second, 5*time.Millisecond)

	hub.Publish("alice", TypeExpenseUpdate, map[string]string{"action": "created"})

	for _, ws := range []*websocket.Conn{alice, aliceTab} {
		msg := read(t, ws)
		assert.Equal(t, TypeExpenseUpdate, msg.Type)
		assert.Equal(t, map[string]any{"action": "created"}, msg.Data)
	}
	expectSilence(t, bob)
}

func TestHub_BroadcastAll(t *testing.T) {
	hub := NewHub("*")
	srv := newTestServer(t, hub)
	a := dial(t, srv, "alice")
	b := dial(t, srv, "bob")
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.BroadcastAll(TypeAnalyticsUpdate, nil)

	assert.Equal(t, TypeAnalyticsUpdate, read(t, a).Type)
	assert.Equal(t, TypeAnalyticsUpdate, read(t, b).Type)
}

func TestHub_UnregistersOnClientClose(t *testing.T) {
	hub := NewHub("*")
	ws := dial(t, newTestServer(t, hub), "u1")
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, ws.Close())

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 0 }, time.Second, 5*time.Millisecond)
	hub.Publish("u1", TypeExpenseUpdate, nil)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	hub := NewHub("https://app.example.com")
	srv := newTestServer(t, hub)

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"?user=u1", header)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestConn_DropsWhenQueueFull(t *testing.T) {
	c := &conn{send: make(chan []byte, 2)}

	c.enqueue([]byte("1"))
	c.enqueue([]byte("2"))
	c.enqueue([]byte("3"))

	assert.Len(t, c.send, 2)
	assert.Equal(t, "1", string(<-c.send))
}

func TestConn_EnqueueAfterCloseIsNoop(t *testing.T) {
	c := &conn{send: make(chan []byte, 1)}
	c.close()
	c.close()

	assert.NotPanics(t, func() { c.enqueue([]byte("x")) })
}
