package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAt(t *testing.T, dir string, now time.Time) *Usage {
	t.Helper()
	u, err := Open(dir, nil)
	require.NoError(t, err)
	u.now = func() time.Time { return now }
	t.Cleanup(u.Close)
	return u
}

func TestRecord(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	u := openAt(t, t.TempDir(), now)

	u.Record(Delta{FullRuns: 2, FastRuns: 3, ProductRuns: 1, Failures: 1, CacheHits: 4, CacheMisses: 5})
	c := u.Current()
	assert.Equal(t, Counters{
		FullRuns: 2, FastRuns: 3, ProductRuns: 1, Failures: 1, CacheHits: 4, CacheMisses: 5, LastUpdated: now,
	}, c)

	t.Run("concurrent", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					u.Record(Delta{FullRuns: 1})
					u.Current()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1002, u.Current().FullRuns)
	})
}

func TestPruneAndHistory(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	u := openAt(t, t.TempDir(), now)

	for _, month := range []string{"2025-11", "2026-01", "2026-02"} {
		u.months[month] = &Counters{FullRuns: 1}
	}
	u.Record(Delta{FastRuns: 1})

	assert.Equal(t, []string{"2026-03", "2026-02", "2026-01", "2025-11"}, u.Months())

	u.Prune(3)
	history := u.History()
	require.Len(t, history, 3)
	assert.Equal(t, "2026-03", history[0].Month)
	assert.Equal(t, 1, history[0].FastRuns)
	assert.Equal(t, "2026-01", history[2].Month)

	_, ok := u.Month("2025-11")
	assert.False(t, ok)

	u.Prune(0)
	assert.Equal(t, []string{"2026-03"}, u.Months())
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	u, err := Open(dir, nil)
	require.NoError(t, err)
	u.now = func() time.Time { return now }
	u.Record(Delta{FullRuns: 7, CacheMisses: 2})
	u.Close()
	assert.NotPanics(t, u.Close)

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, fileVersion, doc.Version)
	require.Contains(t, doc.Months, "2026-10")

	reloaded := openAt(t, dir, now)
	got := reloaded.Current()
	assert.Equal(t, 7, got.FullRuns)
	assert.Equal(t, 2, got.CacheMisses)
}

func TestOpenRejectsBadFiles(t *testing.T) {
	t.Run("corrupt", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("{not json"), 0644))
		_, err := Open(dir, nil)
		assert.Error(t, err)
	})

	t.Run("newer version", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte(`{"version":99,"months":{}}`), 0644))
		_, err := Open(dir, nil)
		assert.Error(t, err)
	})
}
