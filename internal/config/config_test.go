// ABOUTME: Tests for socialify configuration loading and path expansion.
// ABOUTME: Covers YAML parsing, defaults, validation, path expansion, and remote detection.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde slash", "~/foo/bar", filepath.Join(home, "foo", "bar")},
		{"absolute", "/tmp/foo", "/tmp/foo"},
		{"relative", "foo/bar", "foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	// Set config path to a non-existent location
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Social.APIKey != "" {
		t.Error("expected empty api_key in default config")
	}
	if cfg.HasRemote() {
		t.Error("expected HasRemote() to be false for default config")
	}
	if cfg.Feed.Source != SourceSynthetic {
		t.Errorf("Feed.Source = %q, want %q", cfg.Feed.Source, SourceSynthetic)
	}
	if cfg.Feed.PageSize != DefaultPageSize {
		t.Errorf("Feed.PageSize = %d, want %d", cfg.Feed.PageSize, DefaultPageSize)
	}
	if cfg.Feed.Latency != 1500*time.Millisecond {
		t.Errorf("Feed.Latency = %s, want 1.5s", cfg.Feed.Latency)
	}
	if cfg.Feed.FetchTimeout != 10*time.Second {
		t.Errorf("Feed.FetchTimeout = %s, want 10s", cfg.Feed.FetchTimeout)
	}
	if cfg.Feed.MaxPosts != 0 {
		t.Errorf("Feed.MaxPosts = %d, want 0 (unbounded)", cfg.Feed.MaxPosts)
	}
	if cfg.Feed.PrefetchThreshold != 0.5 {
		t.Errorf("Feed.PrefetchThreshold = %v, want 0.5", cfg.Feed.PrefetchThreshold)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "socialify")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configData := `social:
  api_key: "test-key"
  team_id: "test-team"
  api_url: "https://api.example.com"
feed:
  source: remote
  page_size: 25
  latency: 250ms
  fetch_timeout: 3s
  max_posts: 200
  prefetch_threshold: 0.25
logging:
  level: debug
  file: "~/socialify.log"
server:
  addr: ":9000"
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configData), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Social.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Social.APIKey)
	}
	if cfg.Social.TeamID != "test-team" {
		t.Errorf("expected team_id 'test-team', got %q", cfg.Social.TeamID)
	}
	if cfg.Social.APIURL != "https://api.example.com" {
		t.Errorf("expected api_url 'https://api.example.com', got %q", cfg.Social.APIURL)
	}
	if !cfg.HasRemote() {
		t.Error("expected HasRemote() to be true")
	}
	if cfg.Feed.Source != SourceRemote || cfg.Feed.PageSize != 25 || cfg.Feed.MaxPosts != 200 {
		t.Errorf("unexpected feed config: %+v", cfg.Feed)
	}
	if cfg.Feed.Latency != 250*time.Millisecond || cfg.Feed.FetchTimeout != 3*time.Second {
		t.Errorf("unexpected durations: latency=%s timeout=%s", cfg.Feed.Latency, cfg.Feed.FetchTimeout)
	}
	if cfg.Feed.PrefetchThreshold != 0.25 {
		t.Errorf("PrefetchThreshold = %v, want 0.25", cfg.Feed.PrefetchThreshold)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	logFile, err := cfg.GetLogFile(false)
	if err != nil {
		t.Fatalf("GetLogFile() error: %v", err)
	}
	if logFile != filepath.Join(home, "socialify.log") {
		t.Errorf("GetLogFile() = %q", logFile)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "socialify")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("feed: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := Default()
	cfg.Social = SocialConfig{
		APIKey: "saved-key",
		TeamID: "saved-team",
		APIURL: "https://saved.example.com",
	}
	cfg.Feed.FetchTimeout = 7 * time.Second

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.Social.APIKey != "saved-key" {
		t.Errorf("expected api_key 'saved-key', got %q", loaded.Social.APIKey)
	}
	if loaded.Social.TeamID != "saved-team" {
		t.Errorf("expected team_id 'saved-team', got %q", loaded.Social.TeamID)
	}
	if loaded.Feed.FetchTimeout != 7*time.Second {
		t.Errorf("FetchTimeout = %s, want 7s", loaded.Feed.FetchTimeout)
	}
}

func TestHasRemotePartial(t *testing.T) {
	cfg := &Config{
		Social: SocialConfig{
			APIKey: "key",
			// missing TeamID and APIURL
		},
	}
	if cfg.HasRemote() {
		t.Error("HasRemote() should be false when team_id and api_url are empty")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown source", func(c *Config) { c.Feed.Source = "carrier-pigeon" }, "unknown feed source"},
		{"remote without credentials", func(c *Config) { c.Feed.Source = SourceRemote }, "requires social.api_key"},
		{"threshold above one", func(c *Config) { c.Feed.PrefetchThreshold = 1.5 }, "prefetch_threshold"},
		{"negative max posts", func(c *Config) { c.Feed.MaxPosts = -1 }, "max_posts"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestDefaultPaths(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	dir, err := SocialDataDir()
	if err != nil {
		t.Fatalf("SocialDataDir() error: %v", err)
	}
	if dir != filepath.Join(dataHome, "socialify", "social") {
		t.Errorf("SocialDataDir() = %q", dir)
	}

	cfg := Default()
	logFile, err := cfg.GetLogFile(true)
	if err != nil {
		t.Fatalf("GetLogFile() error: %v", err)
	}
	if logFile != filepath.Join(dataHome, "socialify", "socialify.log") {
		t.Errorf("GetLogFile(true) = %q", logFile)
	}
	if none, _ := cfg.GetLogFile(false); none != "" {
		t.Errorf("GetLogFile(false) = %q, want empty", none)
	}
}
