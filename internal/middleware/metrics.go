package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/trakmymedia/internal/metrics"
)

// MetricsMiddleware records per-route request counts and latency.
// Unmatched routes are grouped under one label to keep cardinality bounded.
func MetricsMiddleware(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordHTTPRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
