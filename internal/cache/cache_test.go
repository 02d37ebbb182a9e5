package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedTweet struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "tweet:42", TweetKey(42))
	assert.Equal(t, "user:7", UserKey(7))
}

func TestAside_MissThenHit(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedTweet) func() error {
		return func() error {
			calls++
			*dest = cachedTweet{ID: 1, Text: "Tweet1"}
			return nil
		}
	}

	var first cachedTweet
	require.NoError(t, Aside(ctx, TweetKey(1), &first, TweetTTL, fetch(&first)))
	assert.Equal(t, "Tweet1", first.Text)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("tweet:1"))
	assert.Equal(t, TweetTTL, mr.TTL("tweet:1"))

	var second cachedTweet
	require.NoError(t, Aside(ctx, TweetKey(1), &second, TweetTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second read must be served from cache")
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := setupMiniredis(t)
	boom := errors.New("boom")

	var dest cachedTweet
	err := Aside(context.Background(), TweetKey(2), &dest, TweetTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("tweet:2"))
}

func TestAside_RedisDownFallsBackToFetch(t *testing.T) {
	mr := setupMiniredis(t)
	mr.Close()

	var dest cachedTweet
	err := Aside(context.Background(), TweetKey(3), &dest, time.Minute, func() error {
		dest = cachedTweet{ID: 3, Text: "fresh"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", dest.Text)
}

func TestNilClientIsNoop(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, "missing", &cachedTweet{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(ctx, "k", cachedTweet{}, time.Minute))
	Invalidate(ctx, "k")
}

func TestInvalidateTweet(t *testing.T) {
	mr := setupMiniredis(t)
	require.NoError(t, mr.Set("tweet:5", `{"id":5}`))

	InvalidateTweet(context.Background(), 5)
	assert.False(t, mr.Exists("tweet:5"))
}

func TestInitRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	assert.Nil(t, InitRedis(addr))
	assert.Nil(t, GetClient())
	assert.Nil(t, InitRedis(""))
}

func TestInitRedis_URL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := InitRedis("redis://" + mr.Addr())
	require.NotNil(t, c)
	t.Cleanup(func() {
		SetClient(nil)
		_ = c.Close()
	})
	assert.Same(t, c, GetClient())
}
