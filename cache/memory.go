// Package cache stores fast-mode analysis results between requests.
package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/seo-optimizer/advisor/models"
)

type entry struct {
	result    *models.AnalysisResult
	timestamp time.Time
}

// Memory is an in-process TTL cache bounded to maxSize entries.
// Cached results are shared and must not be modified by callers.
type Memory struct {
	mu              sync.RWMutex
	entries         map[string]entry
	ttl             time.Duration
	maxSize         int
	cleanupInterval time.Duration
	done            chan struct{}
	once            sync.Once
	now             func() time.Time
}

// NewMemory creates a cache and starts its periodic cleanup.
func NewMemory(ttl time.Duration, maxSize int) *Memory {
	m := &Memory{
		entries:         make(map[string]entry),
		ttl:             ttl,
		maxSize:         maxSize,
		cleanupInterval: 5 * time.Minute,
		done:            make(chan struct{}),
		now:             time.Now,
	}
	go m.periodicCleanup()
	return m
}

func (m *Memory) periodicCleanup() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

// cleanup drops expired entries, then the oldest ones until the size limit holds.
func (m *Memory) cleanup() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, e := range m.entries {
		if now.Sub(e.timestamp) > m.ttl {
			delete(m.entries, key)
		}
	}
	if m.maxSize <= 0 || len(m.entries) <= m.maxSize {
		return
	}

	type aged struct {
		key       string
		timestamp time.Time
	}
	entries := make([]aged, 0, len(m.entries))
	for key, e := range m.entries {
		entries = append(entries, aged{key, e.timestamp})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].timestamp.Before(entries[j].timestamp)
	})
	for i := 0; i < len(entries)-m.maxSize; i++ {
		delete(m.entries, entries[i].key)
	}
}

// Get returns a live entry.
func (m *Memory) Get(_ context.Context, key string) (*models.AnalysisResult, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || m.now().Sub(e.timestamp) > m.ttl {
		return nil, false
	}
	return e.result, true
}

// Set stores a result. Exceeding the size limit triggers an immediate cleanup.
func (m *Memory) Set(_ context.Context, key string, r *models.AnalysisResult) {
	m.mu.Lock()
	m.entries[key] = entry{result: r, timestamp: m.now()}
	over := m.maxSize > 0 && len(m.entries) > m.maxSize
	m.mu.Unlock()

	if over {
		m.cleanup()
	}
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close stops the cleanup goroutine.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}
