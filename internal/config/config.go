// ABOUTME: Configuration management for socialify with YAML config loading.
// ABOUTME: Handles social API settings, feed tuning, logging, server address, and ~ expansion.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Feed source names accepted in feed.source.
const (
	SourceSynthetic = "synthetic"
	SourceLocal     = "local"
	SourceRemote    = "remote"
)

// Defaults applied to zero-valued settings on Load.
const (
	DefaultPageSize          = 10
	DefaultLatency           = 1500 * time.Millisecond
	DefaultFetchTimeout      = 10 * time.Second
	DefaultPrefetchThreshold = 0.5
	DefaultLogLevel          = "info"
	DefaultServerAddr        = "127.0.0.1:8787"
)

// Config stores socialify configuration loaded from ~/.config/socialify/config.yaml.
type Config struct {
	Social  SocialConfig  `yaml:"social"`
	Feed    FeedConfig    `yaml:"feed"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// SocialConfig holds remote social media API settings.
type SocialConfig struct {
	APIKey string `yaml:"api_key"`
	TeamID string `yaml:"team_id"`
	APIURL string `yaml:"api_url"`
}

// FeedConfig tunes the feed screen.
type FeedConfig struct {
	Source            string        `yaml:"source"`
	PageSize          int           `yaml:"page_size"`
	Latency           time.Duration `yaml:"latency"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	MaxPosts          int           `yaml:"max_posts"`
	PrefetchThreshold float64       `yaml:"prefetch_threshold"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ServerConfig holds the development API server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Feed.Source == "" {
		c.Feed.Source = SourceSynthetic
	}
	if c.Feed.PageSize <= 0 {
		c.Feed.PageSize = DefaultPageSize
	}
	if c.Feed.Latency == 0 {
		c.Feed.Latency = DefaultLatency
	}
	if c.Feed.FetchTimeout == 0 {
		c.Feed.FetchTimeout = DefaultFetchTimeout
	}
	if c.Feed.PrefetchThreshold <= 0 {
		c.Feed.PrefetchThreshold = DefaultPrefetchThreshold
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate checks settings that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.Feed.Source {
	case SourceSynthetic, SourceLocal, SourceRemote:
	default:
		return fmt.Errorf("unknown feed source %q (want synthetic, local or remote)", c.Feed.Source)
	}
	if c.Feed.Source == SourceRemote && !c.HasRemote() {
		return fmt.Errorf("feed source %q requires social.api_key, social.team_id and social.api_url", SourceRemote)
	}
	if c.Feed.PrefetchThreshold > 1 {
		return fmt.Errorf("feed.prefetch_threshold must be at most 1, got %v", c.Feed.PrefetchThreshold)
	}
	if c.Feed.MaxPosts < 0 {
		return fmt.Errorf("feed.max_posts must not be negative, got %d", c.Feed.MaxPosts)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// HasRemote returns true if remote social posting is configured.
func (c *Config) HasRemote() bool {
	return c.Social.APIKey != "" && c.Social.TeamID != "" && c.Social.APIURL != ""
}

// GetSocialDataDir returns the social media data directory.
func (c *Config) GetSocialDataDir() (string, error) {
	return SocialDataDir()
}

// GetLogFile returns the configured log file path, or the default under the
// data directory when fallback is set and no file is configured.
func (c *Config) GetLogFile(fallback bool) (string, error) {
	if c.Logging.File != "" {
		return ExpandPath(c.Logging.File)
	}
	if !fallback {
		return "", nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "socialify.log"), nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid logging.level %q: %w", name, err)
	}
	return level, nil
}

// DataDir returns the socialify data directory.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "socialify"), nil
}

// SocialDataDir returns the default social data directory.
func SocialDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "social"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "socialify", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
