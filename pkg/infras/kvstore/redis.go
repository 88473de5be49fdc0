package kvstore

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisConfig ...
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisBackend 直连 redis，INCRBY 由 redis 保证原子性
type RedisBackend struct {
	client *redis.Client
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend ...
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// Name ...
func (b *RedisBackend) Name() string {
	return BackendRedis
}

// IncrBy ...
func (b *RedisBackend) IncrBy(ctx context.Context, key string, amount int64) (int64, error) {
	return b.client.IncrBy(ctx, key, amount).Result()
}

// Get ...
func (b *RedisBackend) Get(ctx context.Context, key string) (int64, bool, error) {
	value, err := b.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// MGet ...
func (b *RedisBackend) MGet(ctx context.Context, keys []string) ([]int64, error) {
	items, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	values := make([]int64, len(items))
	for idx, item := range items {
		if item == nil {
			continue
		}
		text, ok := item.(string)
		if !ok {
			return nil, errors.Wrapf(ErrStore, "unexpected mget value type %T", item)
		}
		if values[idx], err = strconv.ParseInt(text, 10, 64); err != nil {
			return nil, errors.Wrapf(ErrStore, "value %q of %s is not an integer", text, keys[idx])
		}
	}
	return values, nil
}

// Close ...
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
