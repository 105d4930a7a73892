package directory

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments directory calls on a private registry so importing
// applications can expose or scrape it without fighting the default one.
type Metrics struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the directory client collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_client_requests_total",
		Help: "Total number of course directory requests by outcome",
	}, []string{"method", "endpoint", "outcome"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "directory_client_request_duration_seconds",
		Help:    "Duration of course directory requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	registry.MustRegister(requestTotal, requestDuration)

	return &Metrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
	}
}

// Gatherer exposes the private registry for scraping.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Metrics) observe(method, endpoint, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(method, endpoint, outcome).Inc()
	m.requestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
