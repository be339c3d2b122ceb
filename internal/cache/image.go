// image.go provides a Valkey-backed cache for image workflow responses.
// Image generation is the slowest and most expensive external call, and
// identical prompts are common when users iterate on the same design,
// so responses are cached by prompt digest.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// imageKeyPrefix is the Valkey key prefix for cached image responses.
	imageKeyPrefix = "image:"

	// DefaultImageTTL is how long an image response stays cached.
	DefaultImageTTL = 24 * time.Hour
)

// ImageCache stores serialized image workflow responses in Valkey.
// A nil *ImageCache is valid and misses on every Get.
type ImageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewImageCache creates an image cache backed by the given Valkey
// client. A nil client yields a nil cache.
func NewImageCache(client *redis.Client, ttl time.Duration) *ImageCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultImageTTL
	}
	return &ImageCache{client: client, ttl: ttl}
}

// Get retrieves a cached response for a prompt. Returns false on miss
// or any cache error.
func (ic *ImageCache) Get(ctx context.Context, prompt string) ([]byte, bool) {
	if ic == nil {
		return nil, false
	}

	key := imageKeyPrefix + PromptKey(prompt)
	val, err := ic.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("image cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("image cache hit", "key", key)
	return val, true
}

// Set stores a serialized response for a prompt with the configured
// TTL. Errors are logged and swallowed; the cache is best effort.
func (ic *ImageCache) Set(ctx context.Context, prompt string, payload []byte) {
	if ic == nil {
		return
	}

	key := imageKeyPrefix + PromptKey(prompt)
	if err := ic.client.Set(ctx, key, payload, ic.ttl).Err(); err != nil {
		slog.Warn("image cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the cached response for one prompt.
func (ic *ImageCache) Invalidate(ctx context.Context, prompt string) {
	if ic == nil {
		return
	}

	key := imageKeyPrefix + PromptKey(prompt)
	if err := ic.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("image cache invalidate error", "key", key, "error", err)
	}
}

// PromptKey digests a prompt into a fixed-length cache key. Prompts are
// user text: arbitrary length, arbitrary bytes.
func PromptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
