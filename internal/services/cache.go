package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get for absent keys. Callers treat it as a
// signal to recompute, never as a failure.
var ErrCacheMiss = fmt.Errorf("cache miss")

// CacheService wraps redis for projection and feed caching. A nil client is
// valid: every operation degrades to a miss, so the app runs without redis
// in development and in tests.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{client: client}
}

// Enabled reports whether a backing redis client is configured.
func (s *CacheService) Enabled() bool {
	return s.client != nil
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if s.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if s.client == nil {
		return ErrCacheMiss
	}

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if s.client == nil || len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Flush clears all cache entries.
func (s *CacheService) Flush() error {
	if s.client == nil {
		return nil
	}
	return s.client.FlushDB(context.Background()).Err()
}

// Cache key generators
func ProjectionCacheKey(playerID uint, season, round int) string {
	return fmt.Sprintf("projection:%d:%d:%d", playerID, season, round)
}

func DefenseCacheKey(team string, season int) string {
	return fmt.Sprintf("defense:%s:%d", team, season)
}

func ValuePicksCacheKey(season, round int) string {
	return fmt.Sprintf("value-picks:%d:%d", season, round)
}
