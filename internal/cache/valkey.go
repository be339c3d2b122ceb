// Package cache provides Valkey (Redis-compatible) client
// initialization and response caching for the generation service.
// Caching is optional: a nil cache disables it without any caller-side
// checks.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// connectTimeout bounds the startup ping. Valkey being down must not
// stall service boot.
const connectTimeout = 5 * time.Second

// ConnectValkey creates a Valkey client and verifies the connection
// with a ping. Empty host or port fall back to a local default, so a
// bare VALKEY_HOST=localhost deployment needs no port setting.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	addr := valkeyAddr(host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}

// valkeyAddr builds the dial address, defaulting to localhost:6379.
func valkeyAddr(host, port string) string {
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}
	return net.JoinHostPort(host, port)
}
