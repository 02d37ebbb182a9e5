package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"chirper/internal/notifications"

	"github.com/alicebob/miniredis/v2"
	gws "github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listen serves the app on a loopback port and returns its address.
func listen(t *testing.T, s *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.App().Listener(ln) }()
	return ln.Addr().String()
}

func readEvent(t *testing.T, conn *gws.Conn) notifications.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev notifications.Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func TestEventStream_ThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s, db := newTestServer(t, rdb)
	_, tweet, _ := seedThread(t, db)
	require.NoError(t, s.startRealtime())
	addr := listen(t, s)

	conn, _, err := gws.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	require.Eventually(t, func() bool { return s.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	status, _ := doJSON(t, s, http.MethodPost, "/comments", map[string]any{"text": "live", "tweetId": tweet.ID})
	require.Equal(t, http.StatusOK, status)

	ev := readEvent(t, conn)
	assert.Equal(t, notifications.CommentCreated, ev.Type)
	payload, ok := ev.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "live", payload["text"])
}

func TestEventStream_LocalWithoutRedis(t *testing.T) {
	s, db := newTestServer(t, nil)
	_, _, first := seedThread(t, db)
	addr := listen(t, s)

	conn, _, err := gws.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	require.Eventually(t, func() bool { return s.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	status, _ := doJSON(t, s, http.MethodPost, "/comments", map[string]any{"commentId": first.ID, "likeCounter": 4})
	require.Equal(t, http.StatusOK, status)

	ev := readEvent(t, conn)
	assert.Equal(t, notifications.CommentLiked, ev.Type)
	payload, ok := ev.Payload.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 4, payload["likeCounter"])
}

func TestEventStream_DisabledFlagPublishesNothing(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s, db := newTestServer(t, rdb)
	s.featureFlags = nil
	_, tweet, _ := seedThread(t, db)

	sub := rdb.Subscribe(context.Background(), notifications.CommentEventsChannel)
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	status, _ := doJSON(t, s, http.MethodPost, "/comments", map[string]any{"text": "quiet", "tweetId": tweet.ID})
	require.Equal(t, http.StatusOK, status)

	select {
	case msg := <-sub.Channel():
		t.Fatalf("unexpected event %s", msg.Payload)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestEventStream_RequiresUpgrade(t *testing.T) {
	s, _ := newTestServer(t, nil)

	status, env := doJSON(t, s, http.MethodGet, "/ws", nil)
	assert.Equal(t, http.StatusUpgradeRequired, status)
	assert.Equal(t, "Upgrade Required", env.Status)
}
