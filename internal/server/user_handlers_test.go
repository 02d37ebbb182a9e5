package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chirper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_CreateAndGet(t *testing.T) {
	s, _ := newTestServer(t, nil)

	status, env := doJSON(t, s, http.MethodPost, "/users", map[string]any{
		"username": "alice", "name": "Alice", "email": "Alice@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, status, env.Status)

	var created createUserResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotNil(t, created.User)
	assert.Equal(t, "alice@example.com", created.User.Email)
	assert.Equal(t, models.RoleUser, created.User.Role)
	assert.NotEmpty(t, created.AccessToken)
	assert.NotContains(t, string(env.Data), "secret1")

	status, env = doJSON(t, s, http.MethodGet, fmt.Sprintf("/users/%d", created.User.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var got models.User
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "alice", got.Username)

	status, _ = doJSON(t, s, http.MethodPost, "/users", map[string]any{
		"username": "alice", "name": "Other", "email": "other@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, env = doJSON(t, s, http.MethodGet, "/users/404", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", env.Status)

	// The issued token identifies the author of a tweet without a userId.
	body := strings.NewReader(`{"text":"from token"}`)
	req := httptest.NewRequest(http.MethodPost, "/tweets", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+created.AccessToken)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tweetEnv envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tweetEnv))
	var tweet models.Tweet
	require.NoError(t, json.Unmarshal(tweetEnv.Data, &tweet))
	assert.Equal(t, created.User.ID, tweet.UserID)
}

func TestUsers_RejectsInvalidPayload(t *testing.T) {
	s, _ := newTestServer(t, nil)

	status, env := doJSON(t, s, http.MethodPost, "/users", map[string]any{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Bad request", env.Status)
}
