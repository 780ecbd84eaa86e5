package redisdict

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// New create a dict over the hash opt.KeyPrefix+opt.Key in store. A key is
// generated when opt.Key is empty; the hash itself is created by the first
// write.
func New(store HashStore, opt Options) (*HashDict, error) {
	if store == nil {
		return nil, ErrNoStore
	}

	if err := opt.valid(); err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}

	id := opt.Key
	if id == "" {
		var err error
		id, err = opt.IDFunc()
		if err != nil {
			return nil, err
		}
	}

	key := opt.KeyPrefix + id

	return &HashDict{
		store:  store,
		codec:  opt.Codec,
		id:     id,
		key:    key,
		maxAge: opt.MaxAge,
		logger: opt.Logger.With(slog.String("key", key)),
		hooks:  opt.Hooks,
	}, nil
}

// HashDict reflects mapping operations to one remote hash. It keeps no
// state besides its key: every call is a round trip and concurrent writers
// are only seen through later calls.
type HashDict struct {
	store HashStore
	codec *Codec

	id     string
	key    string
	maxAge time.Duration

	logger *slog.Logger
	hooks  Hooks
}

// Key is the full key of the hash, prefix included
func (d *HashDict) Key() string { return d.key }

// ID is the key without prefix
func (d *HashDict) ID() string { return d.id }

func (d *HashDict) MaxAge() time.Duration { return d.maxAge }

func (d *HashDict) Codec() *Codec { return d.codec }

func (d *HashDict) String() string {
	return fmt.Sprintf("HashDict(key=%q, max_age=%s)", d.key, d.maxAge)
}

func (d *HashDict) decode(field, raw string) (Value, error) {
	v, err := d.codec.Decode(raw)
	if err != nil {
		d.logger.Warn("malformed field payload", slog.String("field", field), slog.Any("err", err))
		return Value{}, errors.Wrapf(err, "decode field %s", field)
	}
	return v, nil
}

// Get returns ErrFieldNotFound when the field does not exist
func (d *HashDict) Get(ctx context.Context, field string) (Value, error) {
	var resVal Value
	var resErr error

	// cb
	defer func() { d.hooks.CBGet(ctx, field, resVal, resErr) }()

	raw, ok, err := d.store.HGet(ctx, d.key, field)
	if err != nil {
		resErr = err
		return resVal, resErr
	}
	if !ok {
		resErr = errors.Wrap(ErrFieldNotFound, field)
		return resVal, resErr
	}

	resVal, resErr = d.decode(field, raw)
	d.logger.Debug("get", slog.String("field", field), slog.Bool("ok", resErr == nil))
	return resVal, resErr
}

// Set converts val with the codec (see Codec.ValueOf) and writes it
func (d *HashDict) Set(ctx context.Context, field string, val interface{}) error {
	var resVal Value
	var resErr error

	// cb
	defer func() { d.hooks.CBSet(ctx, field, resVal, resErr) }()

	resVal, resErr = d.codec.ValueOf(val)
	if resErr != nil {
		return resErr
	}

	raw, err := d.codec.Encode(resVal)
	if err != nil {
		resErr = errors.Wrapf(err, "encode field %s", field)
		return resErr
	}

	resErr = d.store.HSet(ctx, d.key, map[string]string{field: raw}, d.maxAge)
	d.logger.Debug("set", slog.String("field", field), slog.Int("size", len(raw)))
	return resErr
}

// Delete removes field and reports whether it existed, deleting a missing
// field is not an error
func (d *HashDict) Delete(ctx context.Context, field string) (bool, error) {
	var existed bool
	var resErr error

	// cb
	defer func() { d.hooks.CBDel(ctx, field, existed, resErr) }()

	n, err := d.store.HDel(ctx, d.key, []string{field}, d.maxAge)
	if err != nil {
		resErr = err
		return false, resErr
	}

	existed = n > 0
	d.logger.Debug("delete", slog.String("field", field), slog.Bool("existed", existed))
	return existed, nil
}

func (d *HashDict) Has(ctx context.Context, field string) (bool, error) {
	return d.store.HExists(ctx, d.key, field)
}

func (d *HashDict) Keys(ctx context.Context) ([]string, error) {
	return d.store.HKeys(ctx, d.key)
}

func (d *HashDict) Values(ctx context.Context) ([]Value, error) {
	raws, err := d.store.HVals(ctx, d.key)
	if err != nil {
		return nil, err
	}

	vals := make([]Value, 0, len(raws))
	for _, raw := range raws {
		v, err := d.decode("", raw)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (d *HashDict) Items(ctx context.Context) (map[string]Value, error) {
	raws, err := d.store.HGetAll(ctx, d.key)
	if err != nil {
		return nil, err
	}

	items := make(map[string]Value, len(raws))
	for field, raw := range raws {
		v, err := d.decode(field, raw)
		if err != nil {
			return nil, err
		}
		items[field] = v
	}
	return items, nil
}

// Range walks the fields without loading the whole hash. It stops at the
// first field that can not be decoded and returns its error.
func (d *HashDict) Range(ctx context.Context, f RangeFunc) error {
	var decodeErr error

	err := d.store.Scan(ctx, d.key, func(field, raw string) bool {
		v, err := d.decode(field, raw)
		if err != nil {
			decodeErr = err
			return false
		}
		return f(ctx, field, v)
	})
	if err != nil {
		return err
	}

	return decodeErr
}

func (d *HashDict) Len(ctx context.Context) (int64, error) {
	return d.store.HLen(ctx, d.key)
}

// Update writes several fields in one round trip. Nothing is written when
// one of the values can not be encoded.
func (d *HashDict) Update(ctx context.Context, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	raws := make(map[string]string, len(fields))
	for field, x := range fields {
		raw, err := d.codec.Marshal(x)
		if err != nil {
			return errors.Wrapf(err, "encode field %s", field)
		}
		raws[field] = raw
	}

	err := d.store.HSet(ctx, d.key, raws, d.maxAge)
	d.logger.Debug("update", slog.Int("fields", len(raws)))
	return err
}

// DeleteFields removes several fields in one round trip and returns how
// many existed
func (d *HashDict) DeleteFields(ctx context.Context, fields ...string) (int64, error) {
	n, err := d.store.HDel(ctx, d.key, fields, d.maxAge)
	if err != nil {
		return 0, err
	}

	d.logger.Debug("delete fields", slog.Int("fields", len(fields)), slog.Int64("deleted", n))
	return n, nil
}

// Clear deletes the whole hash
func (d *HashDict) Clear(ctx context.Context) error {
	var resErr error

	// cb
	defer func() { d.hooks.CBClear(ctx, d.key, resErr) }()

	resErr = d.store.Del(ctx, d.key)
	d.logger.Debug("clear")
	return resErr
}

// Exists reports whether the hash holds at least one field
func (d *HashDict) Exists(ctx context.Context) (bool, error) {
	return d.store.Exists(ctx, d.key)
}
