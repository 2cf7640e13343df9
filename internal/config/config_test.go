package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "open" {
		t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Search.Debounce != 300*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 300ms", cfg.Search.Debounce)
	}
	if cfg.Search.ScrollSlack != 20 {
		t.Errorf("Search.ScrollSlack = %d, want 20", cfg.Search.ScrollSlack)
	}
	if !cfg.Search.DiscardStale {
		t.Error("Search.DiscardStale should default to true")
	}
	if cfg.API.TrackingPath == "" || cfg.API.CartPath == "" {
		t.Error("API paths should not be empty")
	}
	if cfg.API.UserAgent == "" {
		t.Error("API.UserAgent should not be empty")
	}
	if cfg.UI.Opener == "" {
		t.Error("UI.Opener should not be empty")
	}
	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Keys.Bindings.Quit != "q" {
		t.Errorf("Keys.Bindings.Quit = %s, want 'q'", cfg.Keys.Bindings.Quit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Search.Debounce != 300*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 300ms", cfg.Search.Debounce)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[api]
base_url = "https://shop.example.com"
tracking_path = "/v2/parcels"
cart_path = "/v2/cart"
timeout = "5s"
user_agent = "test-agent"

[search]
debounce = "450ms"
scroll_slack = 4
max_query_length = 32
discard_stale = false

[ui.colors]
primary = "#FF0000"

[fixture]
addr = "127.0.0.1:9999"
page_size = 3
`

	if writeErr := os.WriteFile(configPath, []byte(configContent), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://shop.example.com" {
		t.Errorf("API.BaseURL = %s, want 'https://shop.example.com'", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.API.UserAgent != "test-agent" {
		t.Errorf("API.UserAgent = %s, want 'test-agent'", cfg.API.UserAgent)
	}
	if cfg.Search.Debounce != 450*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 450ms", cfg.Search.Debounce)
	}
	if cfg.Search.ScrollSlack != 4 {
		t.Errorf("Search.ScrollSlack = %d, want 4", cfg.Search.ScrollSlack)
	}
	if cfg.Search.DiscardStale {
		t.Error("Search.DiscardStale = true, want false")
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}
	if cfg.Fixture.PageSize != 3 {
		t.Errorf("Fixture.PageSize = %d, want 3", cfg.Fixture.PageSize)
	}
}

func TestLoad_RejectsInvalidBaseURL(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.toml")
	content := `
[api]
base_url = "ftp://shop.example.com"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected an error for ftp base url")
	}
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero debounce", mutate: func(c *Config) { c.Search.Debounce = 0 }, wantErr: true},
		{name: "negative slack", mutate: func(c *Config) { c.Search.ScrollSlack = -1 }, wantErr: true},
		{name: "zero page size", mutate: func(c *Config) { c.Fixture.PageSize = 0 }, wantErr: true},
		{name: "empty base url", mutate: func(c *Config) { c.API.BaseURL = "" }, wantErr: true},
		{name: "zero slack", mutate: func(c *Config) { c.Search.ScrollSlack = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.API.BaseURL = "https://api.example.com"
	cfg.API.UserAgent = "test-save-agent"
	cfg.Search.Debounce = 150 * time.Millisecond
	cfg.Keys.Modifier = "alt"

	savePath := filepath.Join(tmpDir, "saved-config.toml")
	if saveErr := Save(cfg, savePath); saveErr != nil {
		t.Fatalf("Save() error = %v", saveErr)
	}

	if _, statErr := os.Stat(savePath); os.IsNotExist(statErr) {
		t.Fatal("Save() did not create config file")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("Loaded API.BaseURL = %s, want %s", loaded.API.BaseURL, cfg.API.BaseURL)
	}
	if loaded.API.UserAgent != cfg.API.UserAgent {
		t.Errorf("Loaded API.UserAgent = %s, want %s", loaded.API.UserAgent, cfg.API.UserAgent)
	}
	if loaded.Search.Debounce != cfg.Search.Debounce {
		t.Errorf("Loaded Search.Debounce = %v, want %v", loaded.Search.Debounce, cfg.Search.Debounce)
	}
	if loaded.Keys.Modifier != cfg.Keys.Modifier {
		t.Errorf("Loaded Keys.Modifier = %s, want %s", loaded.Keys.Modifier, cfg.Keys.Modifier)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "generated.toml")
	if genErr := GenerateDefaultConfig(configPath); genErr != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", genErr)
	}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		t.Fatal("GenerateDefaultConfig() did not create file")
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Generated config has Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}
	if cfg.API.UserAgent != "shopr-test/1.0" {
		t.Errorf("TestConfig API.UserAgent = %s, want 'shopr-test/1.0'", cfg.API.UserAgent)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("TestConfig Log.Level = %s, want 'off'", cfg.Log.Level)
	}
}
