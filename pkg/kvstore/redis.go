package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 3 * time.Second

// Redis backs the adapter with a Redis instance, used for shared or
// simulator environments where device storage is not available.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis builds a Redis-backed store. All keys are namespaced with prefix.
func NewRedis(addr, password string, db int, prefix string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix: prefix,
	}
}

func (r *Redis) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
