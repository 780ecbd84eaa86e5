package redisdict

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-redis/redis"
	"github.com/imdario/mergo"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Duration reads "30m" style strings from yaml and json
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	td, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(td)
	return nil
}

// Config describes a redis connection and the dicts opened on it
type Config struct {
	Addr         string   `yaml:"addr" json:"addr"`
	Password     string   `yaml:"password" json:"password"`
	DB           int      `yaml:"db" json:"db"`
	DialTimeout  Duration `yaml:"dial_timeout" json:"dial_timeout"`
	ReadTimeout  Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout" json:"write_timeout"`
	PoolSize     int      `yaml:"pool_size" json:"pool_size"`

	KeyPrefix         string   `yaml:"key_prefix" json:"key_prefix"`
	MaxAge            Duration `yaml:"max_age" json:"max_age"`
	CompressThreshold int      `yaml:"compress_threshold" json:"compress_threshold"`
}

func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		DialTimeout:  Duration(5 * time.Second),
		ReadTimeout:  Duration(3 * time.Second),
		WriteTimeout: Duration(3 * time.Second),
	}
}

// LoadConfig reads a .yaml, .yml or .json file, unset fields keep their
// DefaultConfig value
func LoadConfig(path string) (Config, error) {
	cfg := Config{}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "open config file fail")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = jsoniter.Unmarshal(b, &cfg)
	default:
		return cfg, errors.Errorf("unknown config format %s", path)
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "unmarshal config %s fail", path)
	}

	if err := cfg.valid(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (cfg *Config) valid() error {
	if err := mergo.Merge(cfg, DefaultConfig()); err != nil {
		return errors.Wrap(err, "merge config defaults fail")
	}

	if cfg.MaxAge < 0 {
		return errors.Errorf("max_age must not be negative, got %s", time.Duration(cfg.MaxAge))
	}
	if cfg.CompressThreshold < 0 {
		return errors.Errorf("compress_threshold must not be negative, got %d", cfg.CompressThreshold)
	}

	return nil
}

func (cfg Config) RedisOptions() *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  time.Duration(cfg.DialTimeout),
		ReadTimeout:  time.Duration(cfg.ReadTimeout),
		WriteTimeout: time.Duration(cfg.WriteTimeout),
		PoolSize:     cfg.PoolSize,
	}
}

// Options for dicts opened with this config, key and logger are left to
// the caller
func (cfg Config) Options() (Options, error) {
	codec, err := NewCodec(CodecOpt{CompressThreshold: cfg.CompressThreshold})
	if err != nil {
		return Options{}, err
	}

	return Options{
		KeyPrefix: cfg.KeyPrefix,
		MaxAge:    time.Duration(cfg.MaxAge),
		Codec:     codec,
	}, nil
}

// DialRedis connects and pings the configured server
func DialRedis(ctx context.Context, cfg Config) (*RedisStore, error) {
	if err := cfg.valid(); err != nil {
		return nil, err
	}

	store := NewRedisStore(redis.NewClient(cfg.RedisOptions()))
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return store, nil
}
