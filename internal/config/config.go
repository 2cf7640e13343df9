package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/shopr/internal/validation"
)

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Search  SearchConfig  `mapstructure:"search"`
	UI      UIConfig      `mapstructure:"ui"`
	Keys    KeyConfig     `mapstructure:"keys"`
	Log     LogConfig     `mapstructure:"log"`
	Fixture FixtureConfig `mapstructure:"fixture"`
}

type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	TrackingPath string        `mapstructure:"tracking_path"`
	CartPath     string        `mapstructure:"cart_path"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
}

type SearchConfig struct {
	Debounce       time.Duration `mapstructure:"debounce"`
	ScrollSlack    int           `mapstructure:"scroll_slack"`
	MaxQueryLength int           `mapstructure:"max_query_length"`
	// DiscardStale drops page responses that belong to a session which has
	// since been reset. When false a late response is applied to the list.
	DiscardStale bool `mapstructure:"discard_stale"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
	Opener string   `mapstructure:"opener"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Header    string `mapstructure:"header"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Back      string `mapstructure:"back"`
	Search    string `mapstructure:"search"`
	Profile   string `mapstructure:"profile"`
	Tracking  string `mapstructure:"tracking"`
	Cart      string `mapstructure:"cart"`
	Increase  string `mapstructure:"increase"`
	Decrease  string `mapstructure:"decrease"`
	Remove    string `mapstructure:"remove"`
	OpenImage string `mapstructure:"open_image"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type FixtureConfig struct {
	Addr     string `mapstructure:"addr"`
	File     string `mapstructure:"file"`
	PageSize int    `mapstructure:"page_size"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		API: APIConfig{
			BaseURL:      "http://127.0.0.1:8787",
			TrackingPath: "/api/tracking-my-parcel",
			CartPath:     "/api/cart",
			Timeout:      15 * time.Second,
			UserAgent:    "shopr/1.0 (https://github.com/pders01/shopr)",
		},
		Search: SearchConfig{
			Debounce:       300 * time.Millisecond,
			ScrollSlack:    20,
			MaxQueryLength: 256,
			DiscardStale:   true,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#183153",
				Secondary: "#1B3C60",
				Accent:    "#4ECDC4",
				Header:    "#FFFFFF",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
			Opener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:      "q",
				Back:      "esc",
				Search:    "f",
				Profile:   "p",
				Tracking:  "t",
				Cart:      "k",
				Increase:  "+",
				Decrease:  "-",
				Remove:    "d",
				OpenImage: "o",
			},
		},
		Log: LogConfig{
			Level: "off",
			Path:  filepath.Join(homeDir, ".shopr", "shopr.log"),
		},
		Fixture: FixtureConfig{
			Addr:     "127.0.0.1:8787",
			PageSize: 10,
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shopr", "config.toml")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("search", cfg.Search)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)
	v.SetDefault("fixture", cfg.Fixture)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SHOPR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports the first setting that would leave the client unusable.
func (c *Config) Validate() error {
	if _, err := validation.NormalizeBaseURL(c.API.BaseURL); err != nil {
		return fmt.Errorf("%w: api.base_url: %v", ErrInvalid, err)
	}
	if c.Search.Debounce <= 0 {
		return fmt.Errorf("%w: search.debounce must be positive", ErrInvalid)
	}
	if c.Search.ScrollSlack < 0 {
		return fmt.Errorf("%w: search.scroll_slack must not be negative", ErrInvalid)
	}
	if c.Fixture.PageSize <= 0 {
		return fmt.Errorf("%w: fixture.page_size must be positive", ErrInvalid)
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Log.Path = expandPath(cfg.Log.Path)
	cfg.Fixture.File = expandPath(cfg.Fixture.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Sections are written as maps so durations stay readable and keys keep
	// their snake_case names.
	apiCfg := map[string]interface{}{
		"base_url":      config.API.BaseURL,
		"tracking_path": config.API.TrackingPath,
		"cart_path":     config.API.CartPath,
		"timeout":       config.API.Timeout.String(),
		"user_agent":    config.API.UserAgent,
	}

	searchCfg := map[string]interface{}{
		"debounce":         config.Search.Debounce.String(),
		"scroll_slack":     config.Search.ScrollSlack,
		"max_query_length": config.Search.MaxQueryLength,
		"discard_stale":    config.Search.DiscardStale,
	}

	b := config.Keys.Bindings
	keysCfg := map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":       b.Quit,
			"back":       b.Back,
			"search":     b.Search,
			"profile":    b.Profile,
			"tracking":   b.Tracking,
			"cart":       b.Cart,
			"increase":   b.Increase,
			"decrease":   b.Decrease,
			"remove":     b.Remove,
			"open_image": b.OpenImage,
		},
	}

	fixtureCfg := map[string]interface{}{
		"addr":      config.Fixture.Addr,
		"file":      config.Fixture.File,
		"page_size": config.Fixture.PageSize,
	}

	v.Set("api", apiCfg)
	v.Set("search", searchCfg)
	v.Set("ui", config.UI)
	v.Set("keys", keysCfg)
	v.Set("log", config.Log)
	v.Set("fixture", fixtureCfg)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
