package kv

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// Redis implements Backend on plain Redis string keys.
type Redis struct {
	client *redis.Client
}

// NewRedis connects using either a redis:// URL or a bare host:port.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	client, err := Connect(redisURL)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "redis: ping")
	}
	return &Redis{client: client}, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Connect builds a client from a redis:// URL or host:port without dialing.
func Connect(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		redisURL = "localhost:6379"
	}
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, eris.Wrap(err, "redis: parse url")
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrapf(err, "redis: get %s", key)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return eris.Wrapf(r.client.Set(ctx, key, value, 0).Err(), "redis: set %s", key)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return eris.Wrapf(r.client.Del(ctx, key).Err(), "redis: delete %s", key)
}

func (r *Redis) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, globPattern(prefix), 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, eris.Wrap(err, "redis: scan keys")
	}
	// SCAN may return a key more than once.
	slices.Sort(keys)
	return slices.Compact(keys), nil
}

// globPattern turns prefix into a MATCH pattern, escaping glob metacharacters.
func globPattern(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(prefix) + "*"
}
