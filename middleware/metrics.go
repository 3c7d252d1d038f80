package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/advisor/metrics"
)

// Metrics counts requests by route template so ids do not explode cardinality.
func Metrics(m *metrics.Collectors) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
