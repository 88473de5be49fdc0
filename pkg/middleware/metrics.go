package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 请求量与耗时指标，按路由模板聚合（未匹配的路由统一记为 unknown）
func Metrics(registerer prometheus.Registerer) gin.HandlerFunc {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total http requests counter",
		},
		[]string{"handler", "method", "status"},
	)
	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of the http requests",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"handler", "method", "status"},
	)
	registerer.MustRegister(requestCounter, requestLatency)

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		requestCounter.WithLabelValues(handler, c.Request.Method, status).Inc()
		requestLatency.WithLabelValues(handler, c.Request.Method, status).Observe(time.Since(start).Seconds())
	}
}
