package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"g2b-bids/internal/g2b"
)

// Metrics counts search runs by outcome and times them.
type Metrics struct {
	Registry *prometheus.Registry
	searches *prometheus.CounterVec
	duration prometheus.Histogram
	rows     prometheus.Histogram
}

// NewMetrics registers the search collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "g2b_searches_total",
			Help: "Bid searches by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "g2b_search_duration_seconds",
			Help:    "Wall time of one search including the upstream request.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "g2b_search_rows",
			Help:    "Rows left after filtering.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	m.Registry.MustRegister(m.searches, m.duration, m.rows)
	return m
}

func (m *Metrics) observe(res g2b.Result, elapsed time.Duration) {
	m.searches.WithLabelValues(string(res.Outcome)).Inc()
	m.duration.Observe(elapsed.Seconds())
	m.rows.Observe(float64(res.Table.Len()))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{MaxRequestsInFlight: 5})
}
