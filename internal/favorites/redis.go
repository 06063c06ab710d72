package favorites

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "favorites:"

// toggleScript flips set membership atomically and refreshes the expiry of the set.
var toggleScript = redis.NewScript(`
local added = 0
if redis.call('SISMEMBER', KEYS[1], ARGV[1]) == 1 then
	redis.call('SREM', KEYS[1], ARGV[1])
else
	redis.call('SADD', KEYS[1], ARGV[1])
	added = 1
end
redis.call('EXPIRE', KEYS[1], ARGV[2])
return added
`)

// RedisStore keeps one Redis set per visitor, expiring after ttl without changes.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore wraps a go-redis client.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Toggle(ctx context.Context, visitorID, placeID string) (bool, error) {
	if visitorID == "" || placeID == "" {
		return false, ErrEmptyKey
	}

	added, err := toggleScript.Run(ctx, r.client, []string{keyPrefix + visitorID}, placeID, int(r.ttl.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return added == 1, nil
}

func (r *RedisStore) List(ctx context.Context, visitorID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, keyPrefix+visitorID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	slices.Sort(ids)

	return ids, nil
}

func (r *RedisStore) Contains(ctx context.Context, visitorID, placeID string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, keyPrefix+visitorID, placeID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	return ok, nil
}
