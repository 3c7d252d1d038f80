package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/seo-optimizer/advisor/models"
)

const keyPrefix = "seo-advisor:analysis:"

// Redis stores results as JSON with a TTL. Errors degrade to cache misses.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, ttl: ttl, logger: logger.Named("cache")}
}

// Get fetches and decodes a result.
func (r *Redis) Get(ctx context.Context, key string) (*models.AnalysisResult, bool) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &result, true
}

// Set encodes and stores a result.
func (r *Redis) Set(ctx context.Context, key string, result *models.AnalysisResult) {
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
