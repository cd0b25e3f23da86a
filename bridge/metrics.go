package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callsTotal    = promauto.NewCounterVec(prometheus.CounterOpts{Name: "neon_boundary_calls_total", Help: "Forwarded boundary calls by operation and outcome"}, []string{"op", "outcome"})
	clientHandles = promauto.NewGauge(prometheus.GaugeOpts{Name: "neon_boundary_client_handles", Help: "Live client handles"})
	hostHandles   = promauto.NewGauge(prometheus.GaugeOpts{Name: "neon_boundary_host_handles", Help: "Live host handles"})
)

func observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	callsTotal.WithLabelValues(op, outcome).Inc()
}
