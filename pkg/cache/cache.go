package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/richxcame/limo-booking/pkg/logger"
	redisclient "github.com/richxcame/limo-booking/pkg/redis"
	"go.uber.org/zap"
)

// ErrMiss is returned by Get when the key is not cached
var ErrMiss = errors.New("cache miss")

// Manager handles caching operations with JSON serialization
type Manager struct {
	redis redisclient.ClientInterface
}

// NewManager creates a new cache manager
func NewManager(redis redisclient.ClientInterface) *Manager {
	return &Manager{redis: redis}
}

// Get retrieves a cached value and unmarshals it into result
func (m *Manager) Get(ctx context.Context, key string, result interface{}) error {
	data, err := m.redis.GetString(ctx, key)
	if errors.Is(err, redisclient.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(data), result); err != nil {
		return fmt.Errorf("failed to unmarshal cache value %s: %w", key, err)
	}
	return nil
}

// Set marshals and caches a value with expiration
func (m *Manager) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return m.redis.SetWithExpiration(ctx, key, string(data), ttl)
}

// GetOrSet retrieves from cache or executes fn and caches the result.
// Cache failures are logged and never fail the call.
func (m *Manager) GetOrSet(ctx context.Context, key string, ttl time.Duration, result interface{}, fn func() (interface{}, error)) error {
	err := m.Get(ctx, key, result)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrMiss) {
		logger.WarnContext(ctx, "cache read failed", zap.String("key", key), zap.Error(err))
	}

	data, err := fn()
	if err != nil {
		return err
	}

	if ttl > 0 {
		if err := m.Set(ctx, key, data, ttl); err != nil {
			logger.WarnContext(ctx, "cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, result)
}

// Delete removes keys from cache
func (m *Manager) Delete(ctx context.Context, keys ...string) error {
	return m.redis.Delete(ctx, keys...)
}

// Claim atomically marks key as taken for ttl. Only the first caller gets true.
func (m *Manager) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	claimed, err := m.redis.SetIfAbsent(ctx, key, "1", ttl)
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", key, err)
	}
	return claimed, nil
}

// CacheKeys defines cache key patterns
type CacheKeys struct{}

var Keys = CacheKeys{}

// PricingSettings returns the key of the resolved settings document
func (k CacheKeys) PricingSettings() string {
	return "pricing:settings"
}

// Package returns the cache key for a service package
func (k CacheKeys) Package(id string) string {
	return fmt.Sprintf("catalog:package:%s", id)
}

// Vehicle returns the cache key for a vehicle
func (k CacheKeys) Vehicle(id string) string {
	return fmt.Sprintf("catalog:vehicle:%s", id)
}

// Quote returns the cache key for an issued quote
func (k CacheKeys) Quote(id string) string {
	return fmt.Sprintf("quote:%s", id)
}

// QuoteConfirmation returns the key claimed when a quote is confirmed
func (k CacheKeys) QuoteConfirmation(id string) string {
	return fmt.Sprintf("quote:%s:confirmed", id)
}
