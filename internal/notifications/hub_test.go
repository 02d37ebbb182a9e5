package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	h := NewHub()

	a, err := h.Register(nil, 0)
	require.NoError(t, err)
	b, err := h.Register(nil, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Count())
	assert.NotEqual(t, a.ID, b.ID)

	h.BroadcastAll(`{"type":"comment_created"}`)
	assert.Equal(t, `{"type":"comment_created"}`, string(<-a.Send))
	assert.Equal(t, `{"type":"comment_created"}`, string(<-b.Send))

	h.UnregisterClient(a)
	h.UnregisterClient(a)
	assert.Equal(t, 1, h.Count())
	_, open := <-a.Send
	assert.False(t, open)
}

func TestHub_ConnectionLimit(t *testing.T) {
	h := NewHub()
	h.limit = 1

	_, err := h.Register(nil, 0)
	require.NoError(t, err)
	_, err = h.Register(nil, 0)
	assert.ErrorIs(t, err, ErrConnectionLimit)
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	h := NewHub()
	c, err := h.Register(nil, 0)
	require.NoError(t, err)

	for i := 0; i < sendBuffer; i++ {
		require.True(t, c.TrySend([]byte("x")))
	}
	assert.False(t, c.TrySend([]byte("overflow")))
}

func TestHub_Shutdown(t *testing.T) {
	h := NewHub()
	c, err := h.Register(nil, 0)
	require.NoError(t, err)

	require.NoError(t, h.Shutdown(context.Background()))
	assert.Zero(t, h.Count())
	_, open := <-c.Send
	assert.False(t, open)

	_, err = h.Register(nil, 0)
	assert.ErrorIs(t, err, ErrConnectionLimit)
}

func TestHub_StartWiring(t *testing.T) {
	h := NewHub()
	n := NewNotifier(newTestRedis(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := h.Register(nil, 0)
	require.NoError(t, err)
	require.NoError(t, h.StartWiring(ctx, n))

	require.NoError(t, n.PublishCommentEvent(context.Background(), CommentDeleted, map[string]int{"commentId": 1}))

	select {
	case msg := <-c.Send:
		assert.Contains(t, string(msg), `"type":"comment_deleted"`)
	case <-time.After(time.Second):
		t.Fatal("event not forwarded to client")
	}
}
