package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/adamwoolhether/pixeldrain/client"
	"github.com/adamwoolhether/pixeldrain/client/transfer"
)

const (
	// EnvAPIKey overrides the api_key setting when set.
	EnvAPIKey = "PIXELDRAIN_API_KEY"

	MinConcurrency = 1
	MaxConcurrency = 32
)

// Config represents the CLI configuration file.
type Config struct {
	APIKey      string         `toml:"api_key"`
	BaseURL     string         `toml:"base_url"`
	Timeout     time.Duration  `toml:"timeout"`
	UserAgent   string         `toml:"user_agent,omitempty"`
	ChunkSize   int            `toml:"chunk_size"`
	Concurrency int            `toml:"concurrency"`
	LogLevel    string         `toml:"log_level"`
	Throttle    ThrottleConfig `toml:"throttle"`
}

// ThrottleConfig limits the request rate. Zero values disable it.
type ThrottleConfig struct {
	RPS   int `toml:"rps"`
	Burst int `toml:"burst"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     client.DefaultBaseURL,
		ChunkSize:   transfer.DefaultChunkSize,
		Concurrency: 4,
		LogLevel:    "info",
	}
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "pixeldrain", "config.toml"), nil
}

// Load loads configuration from a TOML file. A missing file yields the
// defaults. EnvAPIKey, when set, replaces the file's api_key.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if key, ok := os.LookupEnv(EnvAPIKey); ok {
		cfg.APIKey = key
	}

	return cfg, nil
}

// Save writes the configuration to configPath, creating its directory.
// The file holds the API key, so it is only readable by the owner.
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(configPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}

	return f.Close()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	u, err := url.ParseRequestURI(c.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("base_url is invalid: %q", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be greater than zero")
	}
	if c.Concurrency < MinConcurrency || c.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between %d and %d", MinConcurrency, MaxConcurrency)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}

	t := c.Throttle
	if (t.RPS != 0 || t.Burst != 0) && (t.RPS <= 0 || t.Burst <= 0) {
		return fmt.Errorf("throttle.rps and throttle.burst must both be positive to enable throttling")
	}

	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel)))
	return level, err
}

// ClientOptions translates the configuration into client options.
func (c *Config) ClientOptions(logger *slog.Logger) []client.Option {
	opts := []client.Option{
		client.WithBaseURL(c.BaseURL),
		client.WithAPIKey(c.APIKey),
		client.WithTimeout(c.Timeout),
	}

	if c.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(c.UserAgent))
	}
	if c.Throttle.RPS > 0 && c.Throttle.Burst > 0 {
		opts = append(opts, client.WithThrottle(c.Throttle.RPS, c.Throttle.Burst))
	}
	if logger != nil {
		opts = append(opts, client.WithLogger(logger))
	}

	return opts
}

// TransferOptions returns the transfer settings shared by every command.
func (c *Config) TransferOptions() []transfer.Option {
	return []transfer.Option{transfer.WithChunkSize(c.ChunkSize)}
}
