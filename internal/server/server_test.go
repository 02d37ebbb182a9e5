package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerWithDeps_RequiresDB(t *testing.T) {
	_, err := NewServerWithDeps(testConfig(), nil, nil)
	assert.Error(t, err)
}

func TestHealthChecks(t *testing.T) {
	s, _ := newTestServer(t, nil)

	status, env := doJSON(t, s, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", env.Status)

	status, env = doJSON(t, s, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, status)
	var ready struct {
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ready))
	assert.Equal(t, "healthy", ready.Checks["database"])
	assert.Equal(t, "disabled", ready.Checks["redis"])
}

func TestReadiness_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s, _ := newTestServer(t, rdb)
	mr.SetError("LOADING server is loading")

	status, env := doJSON(t, s, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", env.Status)
}

func TestUnknownRoute_ReturnsEnvelope(t *testing.T) {
	s, _ := newTestServer(t, nil)

	status, env := doJSON(t, s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Cannot GET /nope", env.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=0", 20, 0},
		{"?limit=1000", maxPaginationLimit, 0},
		{"?offset=-3", 20, 0},
		{"?limit=abc", 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c, defaultPaginationLimit)
				return nil
			})
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}
