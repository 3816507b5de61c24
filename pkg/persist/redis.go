package persist

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "chronoflow:"

// Redis stores blobs as plain string values under a chronoflow: prefix
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	if client == nil {
		panic("persist.NewRedis: client is nil")
	}
	return &Redis{client: client}
}

// DialRedis connects using a redis:// URL
func DialRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedis(client), nil
}

func redisKey(key string) string {
	return redisPrefix + key
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	bs, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return bs, err
}

func (r *Redis) Put(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, redisKey(key), data, 0).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
