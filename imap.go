package redisdict

import (
	"context"
	"time"
)

// HashStore is the raw string side of a remote hash. Every method is one
// round trip; ttl > 0 refreshes the expiration of key in the same round trip
// as the write.
type HashStore interface {
	HGet(ctx context.Context, key, field string) (raw string, ok bool, err error)
	HSet(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	HDel(ctx context.Context, key string, fields []string, ttl time.Duration) (int64, error)
	HExists(ctx context.Context, key, field string) (bool, error)
	HKeys(ctx context.Context, key string) ([]string, error)
	HVals(ctx context.Context, key string) ([]string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HLen(ctx context.Context, key string) (int64, error)

	// Scan walks the fields lazily until f returns false. Fields changed
	// during the walk may or may not be seen.
	Scan(ctx context.Context, key string, f func(field, raw string) bool) error

	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	Close() error
}

type RangeFunc = func(ctx context.Context, field string, val Value) bool

// Dict presents one remote hash as a mutable mapping
type Dict interface {
	Key() string

	Get(ctx context.Context, field string) (Value, error)
	Set(ctx context.Context, field string, val interface{}) error
	Delete(ctx context.Context, field string) (bool, error)
	Has(ctx context.Context, field string) (bool, error)

	Keys(ctx context.Context) ([]string, error)
	Values(ctx context.Context) ([]Value, error)
	Items(ctx context.Context) (map[string]Value, error)
	Range(ctx context.Context, f RangeFunc) error
	Len(ctx context.Context) (int64, error)

	Update(ctx context.Context, fields map[string]interface{}) error
	DeleteFields(ctx context.Context, fields ...string) (int64, error)

	Clear(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
}

var (
	_ HashStore = &MemStore{}
	_ HashStore = &RedisStore{}
	_ Dict      = &HashDict{}
)
