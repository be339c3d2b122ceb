// Package config handles application configuration loading from the
// environment and an optional .env file. It provides a centralized
// Config struct used across the application.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string `mapstructure:"APP_HOST"`
	Port string `mapstructure:"APP_PORT"`
	Env  string `mapstructure:"APP_ENV"` // "development", "production", "testing"

	// AI provider settings
	AIProvider    string `mapstructure:"AI_PROVIDER"` // "openai", "claude"
	OpenAIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel   string `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`
	ClaudeKey     string `mapstructure:"CLAUDE_API_KEY"`
	ClaudeModel   string `mapstructure:"CLAUDE_MODEL"`

	// Image generation workflow
	ImageWorkflowURL string `mapstructure:"IMAGE_WORKFLOW_URL"`

	// Voice synthesis
	ElevenLabsKey   string `mapstructure:"ELEVENLABS_API_KEY"`
	ElevenLabsVoice string `mapstructure:"ELEVENLABS_VOICE_ID"`

	// Valkey (Redis-compatible cache), optional
	ValkeyHost     string `mapstructure:"VALKEY_HOST"`
	ValkeyPort     string `mapstructure:"VALKEY_PORT"`
	ValkeyPassword string `mapstructure:"VALKEY_PASSWORD"`

	// CORS allowed origins, comma separated. "*" for any.
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
}

// Load reads configuration from environment variables and an optional
// .env file, applying defaults for development. Returns an error if
// critical values are missing in production mode.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("AI_PROVIDER", "openai")
	v.SetDefault("OPENAI_MODEL", "meta-llama/Llama-3.3-70B-Instruct")
	v.SetDefault("OPENAI_BASE_URL", "https://api.studio.nebius.ai/v1")
	v.SetDefault("CLAUDE_MODEL", "claude-sonnet-4-20250514")
	v.SetDefault("CORS_ORIGINS", "*")

	// AutomaticEnv only resolves keys viper already knows about, so
	// every secret needs an explicit empty default.
	for _, key := range []string{
		"OPENAI_API_KEY", "CLAUDE_API_KEY",
		"IMAGE_WORKFLOW_URL",
		"ELEVENLABS_API_KEY", "ELEVENLABS_VOICE_ID",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	} {
		v.SetDefault(key, "")
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Env == "production" && cfg.OpenAIKey == "" && cfg.ClaudeKey == "" {
		return nil, fmt.Errorf("at least one AI provider key must be set in production")
	}

	return &cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Origins returns the CORS allowlist as a slice.
func (c *Config) Origins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
