package redisdict

import (
	"context"
	"time"

	"github.com/go-redis/redis"
)

const defaultScanCount = 64

// NewRedisStore wraps a go-redis client. The client, its pool and its
// credentials belong to the caller; Close closes the client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, scanCount: defaultScanCount}
}

// RedisStore runs HashStore operations against Redis. Every error other
// than a missing field is returned as *StoreUnavailableError.
type RedisStore struct {
	client    *redis.Client
	scanCount int64
}

func (rs *RedisStore) c(ctx context.Context) *redis.Client {
	if ctx == nil {
		return rs.client
	}
	return rs.client.WithContext(ctx)
}

// Client exposes the underlying client
func (rs *RedisStore) Client() *redis.Client {
	return rs.client
}

func (rs *RedisStore) Ping(ctx context.Context) error {
	if err := rs.c(ctx).Ping().Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (rs *RedisStore) HGet(ctx context.Context, key, field string) (string, bool, error) {
	raw, err := rs.c(ctx).HGet(key, field).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("hget", err)
	}
	return raw, true, nil
}

func (rs *RedisStore) HSet(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	if len(fields) == 0 {
		return nil
	}

	_, err := rs.c(ctx).TxPipelined(func(p redis.Pipeliner) error {
		for f, raw := range fields {
			p.HSet(key, f, raw)
		}
		if ttl > 0 {
			p.Expire(key, ttl)
		}
		return nil
	})
	if err != nil {
		return unavailable("hset", err)
	}
	return nil
}

func (rs *RedisStore) HDel(ctx context.Context, key string, fields []string, ttl time.Duration) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	var del *redis.IntCmd
	_, err := rs.c(ctx).TxPipelined(func(p redis.Pipeliner) error {
		del = p.HDel(key, fields...)
		if ttl > 0 {
			p.Expire(key, ttl)
		}
		return nil
	})
	if err != nil {
		return 0, unavailable("hdel", err)
	}
	return del.Val(), nil
}

func (rs *RedisStore) HExists(ctx context.Context, key, field string) (bool, error) {
	ok, err := rs.c(ctx).HExists(key, field).Result()
	if err != nil {
		return false, unavailable("hexists", err)
	}
	return ok, nil
}

func (rs *RedisStore) HKeys(ctx context.Context, key string) ([]string, error) {
	fields, err := rs.c(ctx).HKeys(key).Result()
	if err != nil {
		return nil, unavailable("hkeys", err)
	}
	return fields, nil
}

func (rs *RedisStore) HVals(ctx context.Context, key string) ([]string, error) {
	vals, err := rs.c(ctx).HVals(key).Result()
	if err != nil {
		return nil, unavailable("hvals", err)
	}
	return vals, nil
}

func (rs *RedisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := rs.c(ctx).HGetAll(key).Result()
	if err != nil {
		return nil, unavailable("hgetall", err)
	}
	return m, nil
}

func (rs *RedisStore) HLen(ctx context.Context, key string) (int64, error) {
	n, err := rs.c(ctx).HLen(key).Result()
	if err != nil {
		return 0, unavailable("hlen", err)
	}
	return n, nil
}

// Scan uses HSCAN, a field may be reported twice when the hash is rehashed
// during the walk
func (rs *RedisStore) Scan(ctx context.Context, key string, f func(field, raw string) bool) error {
	it := rs.c(ctx).HScan(key, 0, "", rs.scanCount).Iterator()

	// HSCAN yields field, value, field, value...
	for it.Next() {
		field := it.Val()
		if !it.Next() {
			break
		}
		if !f(field, it.Val()) {
			return nil
		}
	}

	if err := it.Err(); err != nil {
		return unavailable("hscan", err)
	}
	return nil
}

func (rs *RedisStore) Del(ctx context.Context, key string) error {
	if err := rs.c(ctx).Del(key).Err(); err != nil {
		return unavailable("del", err)
	}
	return nil
}

func (rs *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := rs.c(ctx).Exists(key).Result()
	if err != nil {
		return false, unavailable("exists", err)
	}
	return n > 0, nil
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
