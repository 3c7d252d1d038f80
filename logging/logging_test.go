package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		_, err := New(Options{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("writes rotated file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "advisor.log")
		logger, err := New(Options{Level: "debug", File: path, Service: "advisor"})
		require.NoError(t, err)

		logger.Info("hello")
		_ = logger.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"hello"`)
		assert.Contains(t, string(data), `"service":"advisor"`)
	})
}

func TestTraffic(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTraffic()
	tr.now = func() time.Time { return now }

	tr.TrackVisitor("10.0.0.1")
	tr.TrackVisitor("10.0.0.2")
	tr.TrackVisitor("10.0.0.1")

	tr.TrackAnalysis(7, 100*time.Millisecond, false)
	tr.TrackAnalysis(7, 300*time.Millisecond, true)
	tr.TrackAnalysis(0, 200*time.Millisecond, false)

	s := tr.Snapshot(false)
	assert.Equal(t, 2, s.UniqueVisitors24h)
	assert.Equal(t, 3, s.AnalysisRequests)
	assert.InDelta(t, 33.33, s.ErrorRate, 0.01)
	assert.InDelta(t, 200, s.AverageLoadTimeMs, 0.001)
	assert.Nil(t, s.PopularContent)

	detailed := tr.Snapshot(true)
	assert.Equal(t, map[int64]int{7: 2}, detailed.PopularContent)

	t.Run("visitors expire", func(t *testing.T) {
		now = now.Add(VisitorWindow + time.Minute)
		assert.Equal(t, 0, tr.Snapshot(false).UniqueVisitors24h)

		tr.TrackVisitor("10.0.0.3")
		assert.Equal(t, 1, tr.Snapshot(false).UniqueVisitors24h)
	})
}
