package redisdict

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	s := miniredis.RunT(t)

	rs := NewRedisStore(redis.NewClient(&redis.Options{Addr: s.Addr()}))
	t.Cleanup(func() { rs.Close() })

	return s, rs
}

func TestRedisStoreHash(t *testing.T) {
	ctx := context.Background()
	s, rs := newTestRedis(t)

	assert.Nil(t, rs.Ping(ctx))

	err := rs.HSet(ctx, "sess1", map[string]string{"a": "1", "b": "2"}, 0)
	assert.Nil(t, err)
	assert.Equal(t, "1", s.HGet("sess1", "a"))
	assert.Equal(t, time.Duration(0), s.TTL("sess1"))

	raw, ok, err := rs.HGet(ctx, "sess1", "b")
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", raw)

	_, ok, err = rs.HGet(ctx, "sess1", "c")
	assert.Nil(t, err)
	assert.False(t, ok)

	ok, err = rs.HExists(ctx, "sess1", "a")
	assert.Nil(t, err)
	assert.True(t, ok)

	keys, err := rs.HKeys(ctx, "sess1")
	assert.Nil(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	vals, err := rs.HVals(ctx, "sess1")
	assert.Nil(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, vals)

	all, err := rs.HGetAll(ctx, "sess1")
	assert.Nil(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, all)

	n, err := rs.HLen(ctx, "sess1")
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)

	n, err = rs.HDel(ctx, "sess1", []string{"a", "x"}, 0)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), n)

	n, err = rs.HDel(ctx, "sess1", nil, 0)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), n)

	ok, err = rs.Exists(ctx, "sess1")
	assert.Nil(t, err)
	assert.True(t, ok)

	assert.Nil(t, rs.Del(ctx, "sess1"))
	assert.False(t, s.Exists("sess1"))

	ok, err = rs.Exists(ctx, "sess1")
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	s, rs := newTestRedis(t)

	err := rs.HSet(ctx, "sess1", map[string]string{"a": "1", "b": "2"}, 30*time.Second)
	assert.Nil(t, err)
	assert.Equal(t, 30*time.Second, s.TTL("sess1"))

	s.SetTTL("sess1", 5*time.Second)
	_, err = rs.HDel(ctx, "sess1", []string{"a"}, 30*time.Second)
	assert.Nil(t, err)
	assert.Equal(t, 30*time.Second, s.TTL("sess1"))

	// deleting a missing field still refreshes
	s.SetTTL("sess1", 5*time.Second)
	_, err = rs.HDel(ctx, "sess1", []string{"x"}, 30*time.Second)
	assert.Nil(t, err)
	assert.Equal(t, 30*time.Second, s.TTL("sess1"))

	s.FastForward(31 * time.Second)
	ok, err := rs.Exists(ctx, "sess1")
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestRedisStoreScan(t *testing.T) {
	ctx := context.Background()
	_, rs := newTestRedis(t)

	fields := map[string]string{}
	for i := 0; i < 200; i++ {
		fields[fmt.Sprintf("f%03d", i)] = fmt.Sprintf("v%d", i)
	}
	assert.Nil(t, rs.HSet(ctx, "big", fields, 0))

	seen := map[string]string{}
	err := rs.Scan(ctx, "big", func(field, raw string) bool {
		seen[field] = raw
		return true
	})
	assert.Nil(t, err)
	assert.Equal(t, fields, seen)

	count := 0
	err = rs.Scan(ctx, "big", func(field, raw string) bool {
		count++
		return count < 3
	})
	assert.Nil(t, err)
	assert.Equal(t, 3, count)

	err = rs.Scan(ctx, "missing", func(field, raw string) bool {
		t.Fatal("missing hash has no fields")
		return false
	})
	assert.Nil(t, err)
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	s, rs := newTestRedis(t)

	assert.Nil(t, rs.HSet(ctx, "sess1", map[string]string{"a": "1"}, 0))
	s.Close()

	ops := map[string]func() error{
		"ping": func() error { return rs.Ping(ctx) },
		"hget": func() error { _, _, err := rs.HGet(ctx, "sess1", "a"); return err },
		"hset": func() error { return rs.HSet(ctx, "sess1", map[string]string{"a": "2"}, 0) },
		"hdel": func() error { _, err := rs.HDel(ctx, "sess1", []string{"a"}, 0); return err },
		"hexists": func() error { _, err := rs.HExists(ctx, "sess1", "a"); return err },
		"hkeys":   func() error { _, err := rs.HKeys(ctx, "sess1"); return err },
		"hvals":   func() error { _, err := rs.HVals(ctx, "sess1"); return err },
		"hgetall": func() error { _, err := rs.HGetAll(ctx, "sess1"); return err },
		"hlen":    func() error { _, err := rs.HLen(ctx, "sess1"); return err },
		"hscan": func() error {
			return rs.Scan(ctx, "sess1", func(field, raw string) bool { return true })
		},
		"del":    func() error { return rs.Del(ctx, "sess1") },
		"exists": func() error { _, err := rs.Exists(ctx, "sess1"); return err },
	}

	for op, f := range ops {
		err := f()

		var serr *StoreUnavailableError
		if assert.True(t, errors.As(err, &serr), "%s: %v", op, err) {
			assert.Equal(t, op, serr.Op)
		}
	}
}
