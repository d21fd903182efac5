package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// AggregationFailures counts recomputations that failed after the
	// triggering mutation already committed. The aggregate values are stale
	// but valid until the next successful recompute.
	AggregationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregation_failures_total",
			Help: "Total number of failed derived-statistics recomputations",
		},
		[]string{"scope"},
	)

	// StaleAggregates tracks how many courses currently hold stale derived
	// fields; surfaced on the health endpoint so staleness is observable.
	StaleAggregates = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stale_aggregates",
			Help: "Number of courses with stale derived statistics",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(AggregationFailures)
	prometheus.MustRegister(StaleAggregates)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
