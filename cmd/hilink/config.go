package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/eshaffer321/hilink-go/internal/logging"
	"github.com/eshaffer321/hilink-go/pkg/hilink"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

// Config is the merged CLI configuration.
type Config struct {
	URL      string  `mapstructure:"url"`
	Timeout  int     `mapstructure:"timeout"`
	Retries  int     `mapstructure:"retries"`
	Format   string  `mapstructure:"format"`
	Verbose  bool    `mapstructure:"verbose"`
	Username string  `mapstructure:"username"`
	Password string  `mapstructure:"password"`
	Rate     float64 `mapstructure:"rate"`
	LogLevel string  `mapstructure:"log_level"`
}

var configKeys = []string{"url", "timeout", "retries", "format", "verbose", "username", "password", "rate"}

// bindFlags makes every persistent flag a viper key of the same name.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for _, key := range configKeys {
		_ = v.BindPFlag(key, cmd.PersistentFlags().Lookup(key))
	}
}

// loadConfig merges flags, HILINK_* environment variables and the config file.
// A missing default config file is not an error; a missing explicit one is.
func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("HILINK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("log_level", logging.LogLevelEnvVar)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".hilink")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("url", hilink.DefaultBaseURL)
	v.SetDefault("timeout", 30)
	v.SetDefault("retries", 3)
	v.SetDefault("format", formatTable)
}

func (c *Config) validate() error {
	switch c.Format {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", c.Format)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}
	if c.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", c.Retries)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %v", c.Rate)
	}
	return nil
}

// newClient builds the device client the commands share.
func newClient(cfg *Config, logger *logging.Logger) (*hilink.Client, error) {
	policy := hilink.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.Retries

	opts := &hilink.ClientOptions{
		BaseURL:     cfg.URL,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		Logger:      logger,
		RetryPolicy: &policy,
		SentryDSN:   os.Getenv("HILINK_SENTRY_DSN"),
	}
	if cfg.Rate > 0 {
		opts.RateLimiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	return hilink.NewClient(opts)
}
