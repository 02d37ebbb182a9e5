package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommentRequests counts POST /comments outcomes by resolved intent.
	CommentRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirper_comment_requests_total",
		Help: "Comment endpoint requests by intent and outcome",
	}, []string{"intent", "outcome"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirper_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheLookups counts cache-aside lookups by result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirper_cache_lookups_total",
		Help: "Cache-aside lookups by result",
	}, []string{"result"})

	// EventDrops counts realtime events dropped because a client buffer was full or closed.
	EventDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirper_event_drops_total",
		Help: "Realtime events dropped by reason",
	}, []string{"reason"})
)
