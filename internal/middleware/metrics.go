package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus

	// ActiveWebSockets is the number of open event stream connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chirper_active_websockets",
		Help: "Number of open websocket connections",
	})
)

// InitMetrics returns the process-wide HTTP metrics middleware. Collectors
// register with the default registry only once.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}
