package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seo-optimizer/advisor/logging"
	"github.com/seo-optimizer/advisor/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "buckets are per client")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	t.Run("middleware answers 429", func(t *testing.T) {
		limiter := NewRateLimiter(0, 1)
		r := gin.New()
		r.Use(limiter.RateLimit())
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", nil).Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/ping", nil).Code)
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "unexpected error")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("generated", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/id", nil)
		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/id", http.Header{RequestIDHeader: {"abc-123"}})
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/content/:id/analysis", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/api/content/1/analysis", nil)
	serve(r, http.MethodGet, "/api/content/2/analysis", nil)
	serve(r, http.MethodGet, "/nope", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/content/:id/analysis", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestTrafficTracksAnalyses(t *testing.T) {
	tr := logging.NewTraffic()
	r := gin.New()
	r.Use(Traffic(tr))
	r.POST("/api/content/:id/analyze", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodPost, "/api/content/9/analyze", nil)
	serve(r, http.MethodGet, "/api/health", nil)

	s := tr.Snapshot(true)
	require.Equal(t, 1, s.AnalysisRequests)
	assert.Equal(t, 1, s.UniqueVisitors24h)
	assert.Equal(t, map[int64]int{9: 1}, s.PopularContent)
}
