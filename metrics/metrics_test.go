package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAnalysis(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.ObserveAnalysis("content", "full", "ok", 20*time.Millisecond, 85)
	c.ObserveAnalysis("content", "full", "ok", 10*time.Millisecond, 40)
	c.ObserveAnalysis("product", "fast", "invalid_product", time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Analyses.WithLabelValues("content", "full", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Analyses.WithLabelValues("product", "fast", "invalid_product")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.Scores))
}

func TestNilCollectorsAreSafe(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.ObserveAnalysis("content", "fast", "ok", time.Millisecond, 50)
	})
}
