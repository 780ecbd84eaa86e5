package redisdict

import (
	"context"
	"testing"
	"time"

	"github.com/bluele/gcache"
	"github.com/stretchr/testify/assert"
)

func TestMemStoreHash(t *testing.T) {
	ctx := context.Background()

	ms := NewMemStore(MemStoreOpt{})
	defer ms.Close()

	k := "longtest1"

	err := ms.HSet(ctx, k, map[string]string{"a": "1", "b": "2"}, 0)
	assert.Nil(t, err)

	// get
	raw, ok, err := ms.HGet(ctx, k, "a")
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", raw)

	_, ok, err = ms.HGet(ctx, k, "c")
	assert.Nil(t, err)
	assert.False(t, ok)

	_, ok, err = ms.HGet(ctx, "longtest2", "a")
	assert.Nil(t, err)
	assert.False(t, ok)

	// has
	ok, _ = ms.HExists(ctx, k, "b")
	assert.True(t, ok)

	// listing
	keys, _ := ms.HKeys(ctx, k)
	assert.Equal(t, []string{"a", "b"}, keys)

	vals, _ := ms.HVals(ctx, k)
	assert.Equal(t, []string{"1", "2"}, vals)

	all, _ := ms.HGetAll(ctx, k)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, all)

	// the copy does not alias the hash
	all["c"] = "3"
	n, _ := ms.HLen(ctx, k)
	assert.Equal(t, int64(2), n)

	// del
	n, err = ms.HDel(ctx, k, []string{"a", "c"}, 0)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), n)

	ok, _ = ms.Exists(ctx, k)
	assert.True(t, ok)

	n, _ = ms.HDel(ctx, k, []string{"b"}, 0)
	assert.Equal(t, int64(1), n)

	// a hash disappears with its last field
	ok, _ = ms.Exists(ctx, k)
	assert.False(t, ok)
	assert.Equal(t, []string{}, ms.HashKeys())

	n, err = ms.HDel(ctx, k, []string{"b"}, 0)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), n)

	// empty lookups
	keys, _ = ms.HKeys(ctx, k)
	assert.Empty(t, keys)
	all, _ = ms.HGetAll(ctx, k)
	assert.Empty(t, all)
}

func TestMemStoreExpire(t *testing.T) {
	ctx := context.Background()
	clock := gcache.NewFakeClock()

	ms := NewMemStore(MemStoreOpt{Clock: clock})

	err := ms.HSet(ctx, "s1", map[string]string{"a": "1"}, 10*time.Second)
	assert.Nil(t, err)
	err = ms.HSet(ctx, "s2", map[string]string{"a": "1"}, 0)
	assert.Nil(t, err)

	clock.Advance(5 * time.Second)

	// writes without ttl keep the current expiration
	err = ms.HSet(ctx, "s1", map[string]string{"b": "2"}, 0)
	assert.Nil(t, err)

	clock.Advance(6 * time.Second)

	ok, _ := ms.Exists(ctx, "s1")
	assert.False(t, ok)
	ok, _ = ms.Exists(ctx, "s2")
	assert.True(t, ok)
	assert.Equal(t, []string{"s2"}, ms.HashKeys())

	// writes and deletes with ttl refresh it
	err = ms.HSet(ctx, "s3", map[string]string{"a": "1", "b": "2"}, 10*time.Second)
	assert.Nil(t, err)

	clock.Advance(8 * time.Second)
	_, err = ms.HDel(ctx, "s3", []string{"a"}, 10*time.Second)
	assert.Nil(t, err)

	clock.Advance(8 * time.Second)
	raw, ok, _ := ms.HGet(ctx, "s3", "b")
	assert.True(t, ok)
	assert.Equal(t, "2", raw)

	clock.Advance(3 * time.Second)
	_, ok, _ = ms.HGet(ctx, "s3", "b")
	assert.False(t, ok)
}

func TestMemStoreScan(t *testing.T) {
	ctx := context.Background()

	ms := NewMemStore(MemStoreOpt{})
	ms.HSet(ctx, "k", map[string]string{"a": "1", "b": "2", "c": "3"}, 0)

	seen := map[string]string{}
	err := ms.Scan(ctx, "k", func(field, raw string) bool {
		seen[field] = raw
		return true
	})
	assert.Nil(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, seen)

	// stop early
	count := 0
	err = ms.Scan(ctx, "k", func(field, raw string) bool {
		count++
		return false
	})
	assert.Nil(t, err)
	assert.Equal(t, 1, count)

	// the walk may write to the hash
	err = ms.Scan(ctx, "k", func(field, raw string) bool {
		ms.HDel(ctx, "k", []string{field}, 0)
		return true
	})
	assert.Nil(t, err)
	ok, _ := ms.Exists(ctx, "k")
	assert.False(t, ok)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	ms.HSet(ctx, "k", map[string]string{"a": "1"}, 0)
	err = ms.Scan(cctx, "k", func(field, raw string) bool { return true })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemStoreClose(t *testing.T) {
	ctx := context.Background()

	ms := NewMemStore(MemStoreOpt{Size: 10})
	ms.HSet(ctx, "a", map[string]string{"f": "1"}, 0)
	ms.HSet(ctx, "b", map[string]string{"f": "1"}, 0)
	assert.Equal(t, []string{"a", "b"}, ms.HashKeys())

	assert.Nil(t, ms.Del(ctx, "a"))
	assert.Equal(t, []string{"b"}, ms.HashKeys())

	assert.Nil(t, ms.Close())
	assert.Equal(t, []string{}, ms.HashKeys())
}

func TestMemStoreScanNilContext(t *testing.T) {
	ms := NewMemStore(MemStoreOpt{})
	ms.HSet(context.Background(), "k", map[string]string{"a": "1"}, 0)

	var ctx context.Context
	seen := []string{}
	err := ms.Scan(ctx, "k", func(field, raw string) bool {
		seen = append(seen, field)
		return true
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"a"}, seen)
}
