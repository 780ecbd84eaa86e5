package redisdict

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bluele/gcache"
)

type MemStoreOpt struct {
	// Size bounds the number of hashes, 0 means no bound
	Size int
	// Clock drives expiration, tests use gcache.NewFakeClock()
	Clock gcache.Clock
}

// NewMemStore create an in-process HashStore. It follows the Redis rules
// the adapter relies on: a hash disappears with its last field and writes
// with a ttl refresh the expiration of the whole hash.
func NewMemStore(opt MemStoreOpt) *MemStore {
	if opt.Clock == nil {
		opt.Clock = gcache.NewRealClock()
	}

	return &MemStore{
		hashes: gcache.New(opt.Size).Simple().Clock(opt.Clock).Build(),
	}
}

type MemStore struct {
	mu sync.RWMutex

	// key -> memHash
	hashes gcache.Cache
}

type memHash map[string]string

func (ms *MemStore) hash(key string) (memHash, bool) {
	v, err := ms.hashes.Get(key)
	if err != nil {
		return nil, false
	}
	return v.(memHash), true
}

func (ms *MemStore) HGet(ctx context.Context, key, field string) (string, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	h, ok := ms.hash(key)
	if !ok {
		return "", false, nil
	}

	raw, ok := h[field]
	return raw, ok, nil
}

func (ms *MemStore) HSet(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	h, ok := ms.hash(key)
	if !ok {
		h = memHash{}
	}

	for f, raw := range fields {
		h[f] = raw
	}

	if len(h) == 0 {
		return nil
	}

	switch {
	case ttl > 0:
		return ms.hashes.SetWithExpire(key, h, ttl)
	case !ok:
		return ms.hashes.Set(key, h)
	}

	// existing hash was changed in place, its expiration stays
	return nil
}

func (ms *MemStore) HDel(ctx context.Context, key string, fields []string, ttl time.Duration) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	h, ok := ms.hash(key)
	if !ok {
		return 0, nil
	}

	var n int64
	for _, f := range fields {
		if _, exists := h[f]; exists {
			delete(h, f)
			n++
		}
	}

	if len(h) == 0 {
		ms.hashes.Remove(key)
		return n, nil
	}

	if ttl > 0 {
		return n, ms.hashes.SetWithExpire(key, h, ttl)
	}

	return n, nil
}

func (ms *MemStore) HExists(ctx context.Context, key, field string) (bool, error) {
	_, ok, err := ms.HGet(ctx, key, field)
	return ok, err
}

func (ms *MemStore) HKeys(ctx context.Context, key string) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	h, _ := ms.hash(key)
	return h.fields(), nil
}

func (ms *MemStore) HVals(ctx context.Context, key string) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	h, _ := ms.hash(key)

	vals := make([]string, 0, len(h))
	for _, f := range h.fields() {
		vals = append(vals, h[f])
	}
	return vals, nil
}

func (ms *MemStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	h, _ := ms.hash(key)
	return h.copy(), nil
}

func (ms *MemStore) HLen(ctx context.Context, key string) (int64, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	h, _ := ms.hash(key)
	return int64(len(h)), nil
}

func (ms *MemStore) Scan(ctx context.Context, key string, f func(field, raw string) bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ms.mu.RLock()
	h, _ := ms.hash(key)
	snapshot := h.copy()
	ms.mu.RUnlock()

	for _, field := range memHash(snapshot).fields() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !f(field, snapshot[field]) {
			return nil
		}
	}

	return nil
}

func (ms *MemStore) Del(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.hashes.Remove(key)
	return nil
}

func (ms *MemStore) Exists(ctx context.Context, key string) (bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	_, ok := ms.hash(key)
	return ok, nil
}

// HashKeys lists the live hash keys, sorted
func (ms *MemStore) HashKeys() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	keys := []string{}
	for _, k := range ms.hashes.Keys(true) {
		keys = append(keys, k.(string))
	}
	sort.Strings(keys)
	return keys
}

func (ms *MemStore) Close() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.hashes.Purge()
	return nil
}

func (h memHash) fields() []string {
	fields := make([]string, 0, len(h))
	for f := range h {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (h memHash) copy() map[string]string {
	m := make(map[string]string, len(h))
	for f, raw := range h {
		m[f] = raw
	}
	return m
}
