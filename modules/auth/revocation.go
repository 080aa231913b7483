package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers revoked token IDs until the token would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocations keeps one expiring key per revoked token.
type RedisRevocations struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocations creates a Redis-backed store.
func NewRedisRevocations(client *redis.Client, prefix string) *RedisRevocations {
	return &RedisRevocations{client: client, prefix: prefix + "revoked:"}
}

// Revoke marks tokenID revoked until the given time.
func (s *RedisRevocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store revocation: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (s *RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

// MemoryRevocations is the single-process store used without Redis.
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocations creates an in-memory store.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks tokenID revoked until the given time and drops lapsed entries.
func (s *MemoryRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	if until.After(now) {
		s.revoked[tokenID] = until
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not lapsed.
func (s *MemoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.revoked[tokenID]
	return ok && exp.After(s.now()), nil
}
