package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultIdempotencyPrefix namespaces Idempotency-Key entries.
const DefaultIdempotencyPrefix = "trafficadmin:idempotency:"

// pendingMarker is stored while the first request holding a key is still
// running. An empty value marks a key released after a failed write.
const pendingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore on Redis for record
// writes carrying an Idempotency-Key header.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a store under DefaultIdempotencyPrefix.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: DefaultIdempotencyPrefix,
	}
}

// CheckAndSet claims key for a new write. When the key is already held it
// returns true with the stored value: either the pending marker or a
// finished response. A released key is claimed again.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	value := []byte(pendingMarker)
	if response != nil {
		value = response
	}

	claimed, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if claimed {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		// Expired between the two calls.
		return false, nil, s.client.Set(ctx, fullKey, value, ttl).Err()
	case err != nil:
		return false, nil, err
	case len(existing) == 0:
		return false, nil, s.client.Set(ctx, fullKey, value, ttl).Err()
	}

	return true, existing, nil
}

// Update stores the final response for key, or an empty value to release it.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}
