// Package stats keeps month-bucketed usage counters of the advisor in a JSON file.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	monthLayout   = "2006-01"
	fileName      = "stats.json"
	fileVersion   = 1
	flushInterval = 5 * time.Minute
	flushDebounce = time.Minute
)

// Counters are the usage counters of one month.
type Counters struct {
	FullRuns    int       `json:"full_runs"`
	FastRuns    int       `json:"fast_runs"`
	ProductRuns int       `json:"product_runs"`
	Failures    int       `json:"failures"`
	CacheHits   int       `json:"cache_hits"`
	CacheMisses int       `json:"cache_misses"`
	LastUpdated time.Time `json:"last_updated"`
}

// Delta is added to the counters of the current month.
type Delta struct {
	FullRuns    int
	FastRuns    int
	ProductRuns int
	Failures    int
	CacheHits   int
	CacheMisses int
}

func (c *Counters) add(d Delta, at time.Time) {
	c.FullRuns += d.FullRuns
	c.FastRuns += d.FastRuns
	c.ProductRuns += d.ProductRuns
	c.Failures += d.Failures
	c.CacheHits += d.CacheHits
	c.CacheMisses += d.CacheMisses
	c.LastUpdated = at
}

// MonthCounters pairs a "YYYY-MM" month with its counters.
type MonthCounters struct {
	Month string `json:"month"`
	Counters
}

type document struct {
	Version int                  `json:"version"`
	Months  map[string]*Counters `json:"months"`
}

// Usage is the usage ledger. Writes go through a background writer that
// persists at most once per flushDebounce on activity and every flushInterval.
type Usage struct {
	mu        sync.RWMutex
	months    map[string]*Counters
	dirty     bool
	lastFlush time.Time

	path      string
	wake      chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
	now       func() time.Time
}

// Open loads dir/stats.json, creating dir if needed, and starts the writer.
func Open(dir string, logger *zap.Logger) (*Usage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}

	u := &Usage{
		months:  make(map[string]*Counters),
		path:    filepath.Join(dir, fileName),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  logger.Named("stats"),
		now:     time.Now,
	}
	if err := u.load(); err != nil {
		return nil, err
	}

	go u.writer()
	return u, nil
}

func (u *Usage) load() error {
	data, err := os.ReadFile(u.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", u.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode %s: %w", u.path, err)
	}
	if doc.Version > fileVersion {
		return fmt.Errorf("%s has unsupported version %d", u.path, doc.Version)
	}
	for month, c := range doc.Months {
		if c != nil {
			u.months[month] = c
		}
	}
	return nil
}

// Flush writes the ledger to disk now.
func (u *Usage) Flush() error {
	u.mu.Lock()
	data, err := json.MarshalIndent(document{Version: fileVersion, Months: u.months}, "", "  ")
	u.dirty = false
	u.lastFlush = u.now()
	u.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	tmp := u.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, u.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", u.path, err)
	}
	return nil
}

func (u *Usage) writer() {
	defer close(u.stopped)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-u.done:
			if err := u.Flush(); err != nil {
				u.logger.Error("final stats flush failed", zap.Error(err))
			}
			return
		case <-u.wake:
		case <-ticker.C:
		}

		u.mu.RLock()
		dirty := u.dirty
		u.mu.RUnlock()
		if !dirty {
			continue
		}
		if err := u.Flush(); err != nil {
			u.logger.Warn("stats flush failed", zap.Error(err))
		}
	}
}

func (u *Usage) signal() {
	select {
	case u.wake <- struct{}{}:
	default:
	}
}

// Record adds d to the current month.
func (u *Usage) Record(d Delta) {
	at := u.now()
	key := at.Format(monthLayout)

	u.mu.Lock()
	c, ok := u.months[key]
	if !ok {
		c = &Counters{}
		u.months[key] = c
	}
	c.add(d, at)
	u.dirty = true
	due := at.Sub(u.lastFlush) > flushDebounce
	u.mu.Unlock()

	if due {
		u.signal()
	}
}

// Current returns the counters of the current month.
func (u *Usage) Current() Counters {
	c, _ := u.Month(u.now().Format(monthLayout))
	return c
}

// Month returns the counters of a "YYYY-MM" month.
func (u *Usage) Month(key string) (Counters, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if c, ok := u.months[key]; ok {
		return *c, true
	}
	return Counters{}, false
}

// Months lists the months with counters, newest first.
func (u *Usage) Months() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.sortedKeys()
}

// History returns every month with its counters, newest first.
func (u *Usage) History() []MonthCounters {
	u.mu.RLock()
	defer u.mu.RUnlock()

	out := make([]MonthCounters, 0, len(u.months))
	for _, key := range u.sortedKeys() {
		out = append(out, MonthCounters{Month: key, Counters: *u.months[key]})
	}
	return out
}

func (u *Usage) sortedKeys() []string {
	keys := make([]string, 0, len(u.months))
	for k := range u.months {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// Prune keeps the newest retain months, the current one included.
func (u *Usage) Prune(retain int) {
	if retain < 1 {
		retain = 1
	}
	now := u.now()
	oldest := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(retain - 1), 0).
		Format(monthLayout)

	u.mu.Lock()
	removed := 0
	for key := range u.months {
		// "YYYY-MM" keys order lexically
		if key < oldest {
			delete(u.months, key)
			removed++
		}
	}
	if removed > 0 {
		u.dirty = true
	}
	u.mu.Unlock()

	if removed > 0 {
		u.signal()
	}
	u.logger.Debug("stats pruned", zap.Int("retain_months", retain), zap.Int("removed", removed))
}

// Close stops the writer after a final flush. It is safe to call more than once.
func (u *Usage) Close() {
	u.closeOnce.Do(func() {
		close(u.done)
		<-u.stopped
	})
}
