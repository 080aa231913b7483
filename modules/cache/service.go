// Package cache provides a JSON cache over mono's storage interface, backed
// by Redis in production.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-monolith/mono/pkg/storage"
)

// CacheService is the cache API consumed by other modules.
type CacheService interface {
	// Get unmarshals the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores a value with the default TTL.
	Set(ctx context.Context, key string, value any) error

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes a single key.
	Delete(ctx context.Context, key string) error

	// Close closes the underlying storage connection.
	Close() error
}

type cacheService struct {
	storage storage.Storage
	prefix  string
	ttl     time.Duration
}

// NewCacheService wraps a storage backend. Keys are namespaced by prefix.
func NewCacheService(s storage.Storage, prefix string, ttl time.Duration) CacheService {
	return &cacheService{
		storage: s,
		prefix:  prefix,
		ttl:     ttl,
	}
}

func (c *cacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.storage.GetWithContext(ctx, c.prefix+key)
	if err != nil {
		return false, fmt.Errorf("cache get error: %w", err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return true, nil
}

func (c *cacheService) Set(ctx context.Context, key string, value any) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

func (c *cacheService) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.storage.SetWithContext(ctx, c.prefix+key, data, ttl); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

func (c *cacheService) Delete(ctx context.Context, key string) error {
	if err := c.storage.DeleteWithContext(ctx, c.prefix+key); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

func (c *cacheService) Close() error {
	return c.storage.Close()
}
