package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if !cfg.IsDev() {
		t.Errorf("default env should be development")
	}
	if cfg.AIProvider != "openai" {
		t.Errorf("AIProvider = %q", cfg.AIProvider)
	}
	if got := cfg.Origins(); len(got) != 1 || got[0] != "*" {
		t.Errorf("Origins() = %v", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("AI_PROVIDER", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.AIProvider != "claude" || cfg.ClaudeKey != "sk-test" {
		t.Errorf("provider config = %q / %q", cfg.AIProvider, cfg.ClaudeKey)
	}
	if got := cfg.Origins(); len(got) != 2 || got[1] != "https://b.example.com" {
		t.Errorf("Origins() = %v", got)
	}
}

func TestLoadProductionRequiresProviderKey(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CLAUDE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without provider keys in production")
	}

	t.Setenv("OPENAI_API_KEY", "sk-live")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with key: %v", err)
	}
}
