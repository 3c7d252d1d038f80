package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/advisor/logging"
)

// Traffic tracks visitors on every request and timing on analysis requests.
func Traffic(t *logging.Traffic) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		t.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.Method != http.MethodPost || !strings.Contains(c.FullPath(), "analyze") {
			return
		}
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		t.TrackAnalysis(id, time.Since(start), c.Writer.Status() >= 400)
	}
}
