package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.API.BaseURL = "http://127.0.0.1:0"
	cfg.API.Timeout = 2 * time.Second
	cfg.API.UserAgent = "shopr-test/1.0"
	cfg.Search.Debounce = 10 * time.Millisecond
	cfg.Log = LogConfig{Level: "off"}
	cfg.Fixture.PageSize = 2
	return cfg
}
