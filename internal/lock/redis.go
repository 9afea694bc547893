package lock

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of a shared Redis client using
// SET key owner NX EX ttl for acquisition and DEL for release. The client is
// constructed once at startup and injected; the store never dials on its own.
type RedisStore struct {
	client   *redis.Client
	failOpen bool
}

// NewRedisStore returns a RedisStore bound to the given client.
//
// failOpen controls the policy when Redis is unreachable. The default (false)
// fails closed: Acquire returns an error wrapping ErrUnavailable and the
// caller rejects the claim. Setting failOpen treats unreachability as
// permission granted, which disables the mutual-exclusion guarantee entirely;
// it exists only for single-node deployments where Redis is optional.
func NewRedisStore(client *redis.Client, failOpen bool) *RedisStore {
	if client == nil {
		panic("nil redis client passed to NewRedisStore")
	}
	return &RedisStore{client: client, failOpen: failOpen}
}

// Acquire performs the atomic create-if-absent with expiry.
func (s *RedisStore) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		if s.failOpen {
			log.Printf("lock: redis unreachable, failing open for key %s: %v", key, err)
			return true, nil
		}
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ok, nil
}

// Release deletes the key. Missing keys are not an error.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		if s.failOpen {
			log.Printf("lock: release of %s failed, relying on TTL: %v", key, err)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
