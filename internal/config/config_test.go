package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
			Mode: "release",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Upstream: UpstreamConfig{
			CreateURL: "https://www.bing.com/turing/conversation/create",
			WSSURL:    "wss://sydney.bing.com/sydney/ChatHub",
			KBlobURL:  "https://www.bing.com/images/kblob",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Limit:   30,
			Window:  time.Minute,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad mode", func(c *Config) { c.Server.Mode = "production" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "logfmt" }, true},
		{"missing create url", func(c *Config) { c.Upstream.CreateURL = "" }, true},
		{"missing wss url", func(c *Config) { c.Upstream.WSSURL = "" }, true},
		{"missing kblob url", func(c *Config) { c.Upstream.KBlobURL = "" }, true},
		{"rate limit zero limit", func(c *Config) { c.RateLimit.Limit = 0 }, true},
		{"rate limit zero window", func(c *Config) { c.RateLimit.Window = 0 }, true},
		{"rate limit disabled skips checks", func(c *Config) {
			c.RateLimit = RateLimitConfig{Enabled: false}
		}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestGetServerAddr(t *testing.T) {
	cfg := validConfig()
	if got := cfg.GetServerAddr(); got != "127.0.0.1:8080" {
		t.Errorf("expected 127.0.0.1:8080, got %s", got)
	}
}
