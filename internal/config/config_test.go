package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.ListenAddr != ":5000" || cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.MaxTokens != 150 || cfg.Temperature != 0.7 {
		t.Fatalf("generation limits: %d %v", cfg.MaxTokens, cfg.Temperature)
	}
	if cfg.MemoryCapacity != 100 || cfg.NativeLanguage != "cs" {
		t.Fatalf("persona defaults: %+v", cfg)
	}
	if cfg.ExternalTimeout != 20*time.Second || cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("durations: %v %v", cfg.ExternalTimeout, cfg.SessionTTL)
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "yandex")
	t.Setenv("TELEGRAM_ALLOWED_USERS", "1:2:3")
	t.Setenv("EXTERNAL_TIMEOUT", "5s")
	cfg, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.LLMProvider != ProviderYandex || len(cfg.TelegramAllowedUsers) != 3 || cfg.ExternalTimeout != 5*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestNewRejectsOversizedMemory(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MEMORY_CAPACITY", "500")
	if cfg, err := New(); err == nil {
		t.Fatalf("capacity 500 accepted: %d", cfg.MemoryCapacity)
	}
	t.Setenv("MEMORY_CAPACITY", "100")
	if _, err := New(); err != nil {
		t.Fatalf("capacity 100 rejected: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"zero temperature", func(c *Config) { c.Temperature = 0 }},
		{"temperature too high", func(c *Config) { c.Temperature = 1.5 }},
		{"zero capacity", func(c *Config) { c.MemoryCapacity = 0 }},
		{"capacity above limit", func(c *Config) { c.MemoryCapacity = MaxMemoryCapacity + 1 }},
		{"zero timeout", func(c *Config) { c.ExternalTimeout = 0 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
	c := valid()
	if err := c.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func valid() Config {
	return Config{
		MaxTokens:       150,
		Temperature:     0.7,
		MemoryCapacity:  100,
		ExternalTimeout: time.Second,
		NativeLanguage:  "cs",
		LogFormat:       "console",
	}
}
