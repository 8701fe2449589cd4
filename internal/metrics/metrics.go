// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chrissnell/cropclimate/internal/log"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cropclimate_build_info",
		Help: "Build information of the cropclimate API server",
	},
		[]string{"version"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cropclimate_http_requests_total",
		Help: "Total number of HTTP requests by route, method and status code",
	},
		[]string{"route", "method", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cropclimate_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
	},
		[]string{"route"},
	)

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cropclimate_query_duration_seconds",
		Help:    "Analytical query latency by operation",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 16),
	},
		[]string{"operation"},
	)

	DatabaseUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cropclimate_database_up",
		Help: "Whether the last database health check succeeded",
	})

	QueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cropclimate_query_errors_total",
		Help: "Total number of failed analytical queries by operation",
	},
		[]string{"operation"},
	)
)

// ObserveHTTP records a completed request. It matches log.HTTPObserver.
func ObserveHTTP(e log.HTTPLogEntry) {
	HTTPRequestsTotal.WithLabelValues(e.Route, e.Method, strconv.Itoa(e.Status)).Inc()
	HTTPRequestDuration.WithLabelValues(e.Route).Observe(e.Duration.Seconds())
}

// ObserveQuery records the outcome of one repository query
func ObserveQuery(operation string, started time.Time, err error) {
	QueryDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if err != nil {
		QueryErrorsTotal.WithLabelValues(operation).Inc()
	}
}
