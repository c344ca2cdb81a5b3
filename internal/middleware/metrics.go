package middleware

import (
	"strconv"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per route template. Unmatched
// routes are grouped under "unmatched" to keep label cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), start)
	}
}
