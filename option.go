package redisdict

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/imdario/mergo"
)

// callbacks run after an operation finished, with its result
type CBGet = func(ctx context.Context, field string, val Value, err error)
type CBSet = func(ctx context.Context, field string, val Value, err error)
type CBDel = func(ctx context.Context, field string, existed bool, err error)
type CBClear = func(ctx context.Context, key string, err error)

type Hooks struct {
	CBGet
	CBSet
	CBDel
	CBClear
}

type Options struct {
	// Key of the hash without KeyPrefix, generated by IDFunc when empty
	Key       string
	KeyPrefix string

	// MaxAge > 0 resets the hash TTL on every write and delete
	MaxAge time.Duration

	// Codec defaults to DefaultCodec()
	Codec  *Codec
	IDFunc IDFunc

	// Logger defaults to a logger that discards everything
	Logger *slog.Logger

	Hooks Hooks
}

func defaultOptions() Options {
	return Options{
		IDFunc: NewID,
		Hooks: Hooks{
			CBGet:   func(ctx context.Context, field string, val Value, err error) {},
			CBSet:   func(ctx context.Context, field string, val Value, err error) {},
			CBDel:   func(ctx context.Context, field string, existed bool, err error) {},
			CBClear: func(ctx context.Context, key string, err error) {},
		},
	}
}

// valid fills every unset option with its default
func (opt *Options) valid() error {
	if err := mergo.Merge(opt, defaultOptions()); err != nil {
		return err
	}

	if opt.Codec == nil {
		opt.Codec = DefaultCodec()
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return nil
}
