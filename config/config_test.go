package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/advisor/models"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "SITE_URL", "CACHE_TTL", "BATCH_CONCURRENCY", "ALLOWED_ORIGINS", "SITE_HTTPS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 4, cfg.BatchConcurrency)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.True(t, cfg.SiteHTTPS)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SITE_URL", "https://example.com/")
	t.Setenv("ACTIVE_PLUGINS", "wordpress-seo, wp-schema-pro,,")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.SiteURL)
	assert.Equal(t, []string{"wordpress-seo", "wp-schema-pro"}, cfg.ActivePlugins)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 0.5, cfg.RateLimit)
}

func TestLoadCollectsErrors(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("BATCH_CONCURRENCY", "0")
	t.Setenv("SITE_HTTPS", "maybe")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
	assert.Contains(t, err.Error(), "BATCH_CONCURRENCY")
	assert.Contains(t, err.Error(), "SITE_HTTPS")
}

func TestSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file yields defaults", func(t *testing.T) {
		s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yml"))
		require.NoError(t, err)

		analysis, err := s.AnalysisSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultAnalysisSettings(), analysis)

		general, err := s.GeneralSettings(ctx)
		require.NoError(t, err)
		assert.True(t, general.Analyzable(models.TypePost))
		assert.True(t, general.ProductIntegration)
	})

	t.Run("partial document keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yml")
		require.NoError(t, os.WriteFile(path, []byte("analysis:\n  analyze_images: false\n  default_keyword: shoes\ngeneral:\n  post_types: [page]\n"), 0644))

		s, err := LoadSettings(path)
		require.NoError(t, err)
		assert.False(t, s.Analysis.AnalyzeImages)
		assert.True(t, s.Analysis.AnalyzeMeta)
		assert.Equal(t, "shoes", s.Analysis.DefaultKeyword)
		assert.Equal(t, models.StrictnessMedium, s.Analysis.Strictness)
		assert.False(t, s.General.Analyzable(models.TypePost))
		assert.True(t, s.General.Analyzable(models.TypePage))
	})

	t.Run("unknown strictness", func(t *testing.T) {
		_, err := ParseSettings([]byte("analysis:\n  strictness: extreme\n"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseSettings([]byte("analysis: [unterminated"))
		assert.Error(t, err)
	})
}
