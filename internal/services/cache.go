package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss signals an absent key. It is not a failure: a miss is the
// normal trigger for population.
var ErrCacheMiss = errors.New("cache miss")

// CacheService is the hot tier. With a Redis client it is shared across
// instances; without one it degrades to a per-process map, which keeps
// single-instance deployments and tests working with no Redis around.
type CacheService struct {
	client *redis.Client

	mu    sync.RWMutex
	local map[string]localEntry
}

type localEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewCacheService(client *redis.Client) *CacheService {
	s := &CacheService{client: client}
	if client == nil {
		s.local = make(map[string]localEntry)
	}
	return s
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if s.client == nil {
		entry := localEntry{data: data}
		if expiration > 0 {
			entry.expiresAt = time.Now().Add(expiration)
		}
		s.mu.Lock()
		s.local[key] = entry
		s.mu.Unlock()
		return nil
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	var data []byte

	if s.client == nil {
		s.mu.RLock()
		entry, ok := s.local[key]
		s.mu.RUnlock()
		if !ok || (!entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)) {
			return ErrCacheMiss
		}
		data = entry.data
	} else {
		raw, err := s.client.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrCacheMiss
			}
			return fmt.Errorf("failed to get cache: %w", err)
		}
		data = []byte(raw)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if s.client == nil {
		s.mu.Lock()
		for _, key := range keys {
			delete(s.local, key)
		}
		s.mu.Unlock()
		return nil
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

func (s *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	if s.client == nil {
		s.mu.RLock()
		entry, ok := s.local[key]
		s.mu.RUnlock()
		if !ok {
			return false, nil
		}
		return entry.expiresAt.IsZero() || time.Now().Before(entry.expiresAt), nil
	}

	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cache existence: %w", err)
	}
	return val > 0, nil
}

// Ping verifies the hot tier for readiness checks. The in-process tier is
// always reachable.
func (s *CacheService) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Cache key generators
func PlayersCacheKey(seasonYear int) string {
	return fmt.Sprintf("players:%d", seasonYear)
}

func TierCacheKey(userID string) string {
	return fmt.Sprintf("tier:%s", userID)
}

// Cache with retry logic
func (s *CacheService) SetWithRetry(ctx context.Context, key string, value interface{}, expiration time.Duration, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = s.Set(ctx, key, value, expiration); err == nil {
			return nil
		}
		logrus.Warnf("Cache set failed (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(time.Millisecond * 100 * time.Duration(i+1))
	}
	return err
}

// Flush clears all cache entries
func (s *CacheService) Flush() error {
	if s.client == nil {
		s.mu.Lock()
		s.local = make(map[string]localEntry)
		s.mu.Unlock()
		return nil
	}
	return s.client.FlushDB(context.Background()).Err()
}
