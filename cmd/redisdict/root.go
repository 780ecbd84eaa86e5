package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"redisdict"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	addr       string
	keyPrefix  string
	maxAge     time.Duration
	compress   int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "redisdict",
	Short: "Inspect and edit redis hashes written by redisdict",
	Long: `redisdict reads and writes the fields of a redis hash the way the
redisdict library does: values are tagged json, keys are prefixed and
writes refresh the hash TTL when --max-age is set.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "", "Redis address, overrides the config file")
	rootCmd.PersistentFlags().StringVar(&keyPrefix, "prefix", "", "Hash key prefix, overrides the config file")
	rootCmd.PersistentFlags().DurationVar(&maxAge, "max-age", 0, "Hash TTL refreshed on writes, overrides the config file")
	rootCmd.PersistentFlags().IntVar(&compress, "compress", 0, "Compress payloads longer than this many bytes")
}

// loadConfig merges the config file and the flags that were set
func loadConfig(cmd *cobra.Command) (redisdict.Config, error) {
	cfg := redisdict.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = redisdict.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = addr
	}
	if flags.Changed("prefix") {
		cfg.KeyPrefix = keyPrefix
	}
	if flags.Changed("max-age") {
		cfg.MaxAge = redisdict.Duration(maxAge)
	}
	if flags.Changed("compress") {
		cfg.CompressThreshold = compress
	}

	return cfg, nil
}

// openDict opens the hash named key, the returned func closes the connection
func openDict(ctx context.Context, cmd *cobra.Command, key string) (*redisdict.HashDict, func()) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fatal("Error loading config", err)
	}

	store, err := redisdict.DialRedis(ctx, cfg)
	if err != nil {
		fatal("Error connecting to redis", err)
	}

	opt, err := cfg.Options()
	if err != nil {
		store.Close()
		fatal("Error building codec", err)
	}
	opt.Key = key
	opt.Logger = slog.Default()

	d, err := redisdict.New(store, opt)
	if err != nil {
		store.Close()
		fatal("Error opening hash", err)
	}

	slog.Debug("opened hash", "key", d.Key(), "addr", cfg.Addr)
	return d, func() { store.Close() }
}
