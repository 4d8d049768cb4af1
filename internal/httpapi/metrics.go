package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics aggregates the prometheus instruments for the API. Each
// Server owns its own registry so tests never collide on the default
// one.
type metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	analyzeDuration prometheus.Histogram
	analysesByRisk  *prometheus.CounterVec
	degradedTotal   prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tokensentry_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "status"}),
		analyzeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tokensentry_analyze_duration_seconds",
			Help:    "Wall time of full token analyses.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 45},
		}),
		analysesByRisk: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tokensentry_analyses_total",
			Help: "Completed analyses, by resulting risk level.",
		}, []string{"risk"}),
		degradedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "tokensentry_analyses_degraded_total",
			Help: "Analyses that fell back to the degraded path.",
		}),
	}
}
