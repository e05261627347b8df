// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recognition",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recognition",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recognition",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	redemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recognition",
			Subsystem: "ledger",
			Name:      "redemptions_total",
			Help:      "Total number of redemption attempts by outcome.",
		},
		[]string{"outcome"},
	)

	pointsAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recognition",
			Subsystem: "ledger",
			Name:      "points_awarded_total",
			Help:      "Total points credited through admin awards.",
		},
	)
)

func init() {
	Registry.MustRegister(httpInFlight, httpRequests, httpDuration, redemptions, pointsAwarded)
}

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts, durations and in-flight gauge.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpInFlight.Inc()
		start := time.Now()
		c.Next()
		httpInFlight.Dec()

		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// ObserveRedemption records one redemption attempt outcome
// ("completed", "out_of_stock", "insufficient_points", "error", ...).
func ObserveRedemption(outcome string) {
	redemptions.WithLabelValues(outcome).Inc()
}

// ObservePointsAwarded records credited points from an admin award.
func ObservePointsAwarded(points int) {
	if points > 0 {
		pointsAwarded.Add(float64(points))
	}
}
