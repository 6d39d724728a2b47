package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	httpMetricsInstance *httpMetrics
	httpMetricsOnce     sync.Once
	httpDefaultRegistry = prometheus.DefaultRegisterer
)

func newHTTPMetrics() *httpMetrics {
	httpMetricsOnce.Do(func() {
		httpMetricsInstance = &httpMetrics{
			requests: promauto.With(httpDefaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			}, []string{"method", "route", "status"}),
			duration: promauto.With(httpDefaultRegistry).NewHistogramVec(prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			}, []string{"method", "route"}),
		}
	})
	return httpMetricsInstance
}

// MetricsMiddleware records request counts and latency per matched route.
// Unmatched paths are grouped under "unmatched" to keep label cardinality bounded.
func MetricsMiddleware() gin.HandlerFunc {
	m := newHTTPMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
