// Package main is the entry point for the design generation server.
// It loads configuration, wires the AI providers and external
// collaborators, sets up routing, and starts the HTTP server with
// graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uigen/internal/ai"
	"uigen/internal/cache"
	"uigen/internal/config"
	"uigen/internal/handlers"
	"uigen/internal/imagegen"
	"uigen/internal/router"
	"uigen/internal/voice"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai": {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"claude": {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Image workflow client. Without an endpoint every request falls
	// back to a placeholder image.
	imageClient := imagegen.New(cfg.ImageWorkflowURL)
	if !imageClient.Configured() {
		slog.Warn("image workflow not configured — placeholder images only")
	}

	// Voice synthesis. Missing credentials disable the voice endpoint
	// and nothing else.
	voiceClient := voice.New(cfg.ElevenLabsKey, cfg.ElevenLabsVoice, "")
	if !voiceClient.Configured() {
		slog.Warn("voice synthesis not configured — /synthesize-voice disabled")
	}

	// Valkey is optional: without it the image cache is simply off.
	var imageCache *cache.ImageCache
	if cfg.ValkeyHost != "" {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, image caching disabled", "error", err)
		} else {
			defer valkeyClient.Close()
			imageCache = cache.NewImageCache(valkeyClient, cache.DefaultImageTTL)
		}
	}

	design := handlers.NewDesign(aiRegistry, imageClient, voiceClient, imageCache)

	r := router.New(design, cfg.Origins())

	// WriteTimeout must accommodate generation rounds that wait on LLM
	// responses (typically 10-30s, up to 90s for complex prompts).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
