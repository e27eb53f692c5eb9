package web

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes counted by Metrics.
const (
	outcomeRendered = "rendered"
	outcomeFallback = "fallback"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// Metrics records page serving. A nil *Metrics records nothing.
type Metrics struct {
	pages    *prometheus.CounterVec
	duration prometheus.Histogram
	handler  http.Handler
}

// NewMetrics creates the page metrics and registers them with reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "knownblog",
			Name:      "pages_total",
			Help:      "Blog page requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "knownblog",
			Name:      "page_seconds",
			Help:      "Time to produce a blog page, including cache hits.",
			Buckets:   prometheus.DefBuckets,
		}),
		handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	reg.MustRegister(m.pages, m.duration)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

func (m *Metrics) count(outcome string) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observe(start time.Time) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
}
