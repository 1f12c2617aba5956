package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL bounds how long a validated read result is served
// without consulting the backend.
const DefaultCacheTTL = 5 * time.Minute

// Store caches validated backend responses in Redis, keyed by resource
// identity. Entries are written whole and invalidated by key, never
// mutated in place.
type Store struct {
	client *redis.Client
}

// NewStore creates a Redis-backed response cache.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Get returns the cached payload for key, reporting a miss as (nil,
// false, nil).
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached response: %w", err)
	}
	return data, true, nil
}

// Set stores a payload under key for the given TTL.
func (s *Store) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// Invalidate removes the given keys after a mutation touched their
// resources.
func (s *Store) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache keys: %w", err)
	}
	return nil
}
