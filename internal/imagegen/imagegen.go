// Package imagegen calls the external image-generation workflow. The
// workflow's response shape varies between deployments, so the client
// normalizes it: whatever comes back, callers always get a payload with
// a usable imageUrl field. Generation failures degrade to a fixed
// placeholder image rather than an error — a missing illustration never
// blocks a design round.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// FallbackImageURL is returned when the workflow is unreachable, times
// out, or answers with nothing extractable.
const FallbackImageURL = "https://placehold.co/1024x1024/1e293b/f8fafc?text=Image+Unavailable"

// Client calls one image workflow endpoint.
type Client struct {
	endpoint string
	client   *http.Client
}

// New creates a client for the given workflow URL. An empty endpoint
// yields a client that always falls back; callers need no nil checks.
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether a workflow endpoint is set.
func (c *Client) Configured() bool { return c.endpoint != "" }

// Generate requests an image for the prompt. The returned payload is
// the upstream response (passed through for forward compatibility)
// with imageUrl guaranteed present. Generate never returns an error.
func (c *Client) Generate(ctx context.Context, prompt string) map[string]any {
	payload, err := c.call(ctx, prompt)
	if err != nil {
		slog.Warn("image workflow failed, using fallback", "error", err)
		return map[string]any{"imageUrl": FallbackImageURL}
	}

	url := extractURL(payload)
	if url == "" {
		slog.Warn("image workflow response had no extractable URL")
		url = FallbackImageURL
	}
	payload["imageUrl"] = url
	return payload
}

func (c *Client) call(ctx context.Context, prompt string) (map[string]any, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("imagegen: no workflow endpoint configured")
	}

	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("imagegen marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("imagegen request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagegen http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("imagegen read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagegen API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var payload map[string]any
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("imagegen unmarshal: %w", err)
	}
	return payload, nil
}

// extractURL tries the response shapes seen in the wild, in order:
// OpenAI-style data[0].url, a flat imageUrl or url field, and JSON
// double-encoded into a string field.
func extractURL(payload map[string]any) string {
	if data, ok := payload["data"].([]any); ok && len(data) > 0 {
		if first, ok := data[0].(map[string]any); ok {
			if url, ok := first["url"].(string); ok && url != "" {
				return url
			}
		}
	}

	for _, key := range []string{"imageUrl", "url"} {
		if url, ok := payload[key].(string); ok && url != "" {
			return url
		}
	}

	// Some workflows return their JSON result serialized into a string.
	for _, key := range []string{"output", "result", "data"} {
		s, ok := payload[key].(string)
		if !ok || !strings.HasPrefix(strings.TrimSpace(s), "{") {
			continue
		}
		var nested map[string]any
		if err := json.Unmarshal([]byte(s), &nested); err != nil {
			continue
		}
		if url := extractURL(nested); url != "" {
			return url
		}
	}

	return ""
}
