// Package ai provides a unified interface for the external completion
// services that generate designs. Each provider handles its own HTTP
// communication and response parsing; the Registry selects the active
// one by name.
package ai

import (
	"context"
	"fmt"
	"sync"
)

// Message is one prior conversation turn replayed to the model.
type Message struct {
	Role    string
	Content string
}

// Request is a single completion call. Temperature nil means provider
// default; the code-generation call pins it to zero so identical
// prompts produce identical output. Image, when set, is a base64 data
// URL attached to the user turn as a multimodal part.
type Request struct {
	System      string
	History     []Message
	User        string
	Temperature *float64
	Image       string
}

// Temp returns a *float64 literal for Request.Temperature.
func Temp(v float64) *float64 { return &v }

// Provider defines the interface all completion providers implement.
type Provider interface {
	// Complete sends the request and returns the first choice's text,
	// or an error carrying a human-readable detail string. It never
	// silently returns empty text.
	Complete(ctx context.Context, req Request) (string, error)

	// Name returns the provider identifier (e.g., "openai", "claude").
	Name() string
}

// ProviderConfig holds the credentials and settings for one provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Registry manages available providers and selects the active one.
// Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
	moderator *moderator // nil when no moderation endpoint is configured
}

// NewRegistry creates a registry and initialises a provider for every
// config with a non-empty API key. Providers without keys are skipped.
// When an OpenAI-compatible key exists its moderation endpoint is wired
// in for prompt safety checks.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		case "claude":
			r.providers[name] = newClaude(cfg)
		}
	}

	if cfg, ok := configs["openai"]; ok && cfg.APIKey != "" {
		r.moderator = newModerator(cfg.APIKey, cfg.BaseURL)
	}

	return r
}

// Complete calls the active provider.
func (r *Registry) Complete(ctx context.Context, req Request) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Complete(ctx, req)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the names of all providers with valid API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Register adds or replaces a provider, and activates it when the
// registry has no active provider yet. Used to inject fakes in tests.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
	if r.active == "" {
		r.active = name
	}
}

// CheckPrompt runs the user prompt through the moderation endpoint
// before generation. Returns Safe=true when no moderator is configured
// — providers still apply their own built-in safety filters.
func (r *Registry) CheckPrompt(ctx context.Context, text string) (*ModerationResult, error) {
	if r.moderator == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return r.moderator.check(ctx, text)
}
