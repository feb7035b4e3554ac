package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	// Get decodes the JSON value stored at 'key' into 'dst'.
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Invalidate drops every key starting with 'prefix'.
	Invalidate(ctx context.Context, prefix string) error
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings, so a wrong address fails at startup
// and not on the first request.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type RedisCache struct {
	c *redis.Client
}

func NewRedisCache(c *redis.Client) *RedisCache { return &RedisCache{c: c} }

func (r *RedisCache) Get(ctx context.Context, key string, dst any) error {
	val, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}

	if err != nil {
		return err
	}
	return json.Unmarshal(val, dst)
}

func (r *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.c.Set(ctx, key, data, ttl).Err()
}

func (r *RedisCache) Invalidate(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := r.c.Scan(ctx, cursor, prefix+"*", 200).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := r.c.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Nop is used when no Redis address is configured. Every read misses.
type Nop struct{}

func (Nop) Get(context.Context, string, any) error { return ErrMiss }

func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }

func (Nop) Invalidate(context.Context, string) error { return nil }
