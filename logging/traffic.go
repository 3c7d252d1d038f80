package logging

import (
	"sync"
	"time"
)

// VisitorWindow is the period over which unique visitors are counted.
const VisitorWindow = 24 * time.Hour

// Traffic collects request statistics for the analysis endpoints.
type Traffic struct {
	mu             sync.RWMutex
	visitors       map[string]time.Time // IP -> last visit
	analysisCount  int
	errorCount     int
	totalLatency   time.Duration
	popularContent map[int64]int
	now            func() time.Time
}

// NewTraffic returns an empty collector.
func NewTraffic() *Traffic {
	return &Traffic{
		visitors:       make(map[string]time.Time),
		popularContent: make(map[int64]int),
		now:            time.Now,
	}
}

// TrackVisitor records a visit from ip and forgets visitors outside the window.
func (t *Traffic) TrackVisitor(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.visitors[ip] = now
	cutoff := now.Add(-VisitorWindow)
	for addr, last := range t.visitors {
		if last.Before(cutoff) {
			delete(t.visitors, addr)
		}
	}
}

// TrackAnalysis records one analysis request. contentID is 0 for requests
// that name no single item.
func (t *Traffic) TrackAnalysis(contentID int64, latency time.Duration, failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.analysisCount++
	t.totalLatency += latency
	if failed {
		t.errorCount++
	}
	if contentID > 0 {
		t.popularContent[contentID]++
	}
}

// TrafficSnapshot is the public view of Traffic.
type TrafficSnapshot struct {
	UniqueVisitors24h int           `json:"uniqueVisitors24h"`
	AnalysisRequests  int           `json:"totalRequests"`
	ErrorRate         float64       `json:"errorRate"`
	AverageLoadTimeMs float64       `json:"averageLoadTime"`
	PopularContent    map[int64]int `json:"popularContent,omitempty"`
}

// Snapshot returns the current statistics. Per-item counts are only
// included when detailed is set.
func (t *Traffic) Snapshot(detailed bool) TrafficSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := t.now().Add(-VisitorWindow)
	s := TrafficSnapshot{AnalysisRequests: t.analysisCount}
	for _, last := range t.visitors {
		if !last.Before(cutoff) {
			s.UniqueVisitors24h++
		}
	}
	if t.analysisCount > 0 {
		s.ErrorRate = float64(t.errorCount) / float64(t.analysisCount) * 100
		s.AverageLoadTimeMs = float64(t.totalLatency.Milliseconds()) / float64(t.analysisCount)
	}
	if detailed {
		s.PopularContent = make(map[int64]int, len(t.popularContent))
		for id, n := range t.popularContent {
			s.PopularContent[id] = n
		}
	}
	return s
}
