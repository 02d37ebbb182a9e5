package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"chirper/internal/config"
	"chirper/internal/database"
	"chirper/internal/middleware"
	"chirper/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status         string                 `json:"status"`
	Data           json.RawMessage        `json:"data"`
	PaginationInfo *models.PaginationInfo `json:"paginationInfo"`
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Env:            "test",
		Driver:         "sqlite",
		DBPath:         ":memory:",
		JWTSecret:      "test-secret-with-enough-length-0123456789",
		JWTTTLMinutes:  15,
		AllowedOrigins: "*",
		FeatureFlags:   "comment_events=on",
	}
}

// newTestServer builds a server over a migrated in-memory SQLite database.
func newTestServer(t *testing.T, rdb *redis.Client) (*Server, *gorm.DB) {
	t.Helper()
	cfg := testConfig()

	lifecycle := database.NewLifecycle(cfg, middleware.Logger)
	db, err := lifecycle.Init(context.Background())
	require.NoError(t, err)

	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	s.lifecycle = lifecycle
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s, db
}

// seedThread inserts one user, one tweet and one comment on it.
func seedThread(t *testing.T, db *gorm.DB) (models.User, models.Tweet, models.Comment) {
	t.Helper()
	user := models.User{Username: "user1", Name: "User 1", Email: "user1@test.com", Password: "12345", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	tweet := models.Tweet{Text: "Tweet1", UserID: user.ID}
	require.NoError(t, db.Create(&tweet).Error)
	comment := models.Comment{Text: "Comment1", TweetID: tweet.ID}
	require.NoError(t, db.Create(&comment).Error)
	return user, tweet, comment
}

func doJSON(t *testing.T, s *Server, method, path string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func countComments(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	return n
}
