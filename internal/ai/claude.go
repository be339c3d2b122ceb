package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// claudeProvider implements the Provider interface using the Anthropic
// Messages API (POST /v1/messages).
type claudeProvider struct {
	config ProviderConfig
	client *http.Client
}

// newClaude creates a new Anthropic Claude provider.
func newClaude(cfg ProviderConfig) *claudeProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	return &claudeProvider{
		config: cfg,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *claudeProvider) Name() string { return "claude" }

// Complete sends a message to the Anthropic Messages API. History is
// replayed as alternating turns; a reference image becomes an image
// content block on the final user turn. The Messages API has no
// temperature-zero default, so the request pins it when set.
func (p *claudeProvider) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]claudeMessage, 0, len(req.History)+1)
	for _, m := range req.History {
		role := m.Role
		if role == "bot" {
			role = "assistant"
		}
		messages = append(messages, claudeMessage{Role: role, Content: m.Content})
	}

	if req.Image != "" {
		mediaType, data := splitDataURL(req.Image)
		messages = append(messages, claudeMessage{
			Role: "user",
			Content: []claudeContentBlock{
				{Type: "image", Source: &claudeImageSource{Type: "base64", MediaType: mediaType, Data: data}},
				{Type: "text", Text: req.User},
			},
		})
	} else {
		messages = append(messages, claudeMessage{Role: "user", Content: req.User})
	}

	body := claudeRequest{
		Model:       p.config.Model,
		MaxTokens:   8192,
		System:      req.System,
		Messages:    messages,
		Temperature: req.Temperature,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("claude marshal: %w", err)
	}

	url := p.config.BaseURL + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("claude request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.config.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("claude read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("claude API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result claudeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("claude unmarshal: %w", err)
	}

	// Extract text from the first text content block.
	for _, block := range result.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("claude: no text content in response")
}

// splitDataURL separates a "data:image/png;base64,..." URL into its
// media type and payload. Bare base64 defaults to image/png.
func splitDataURL(s string) (mediaType, data string) {
	mediaType = "image/png"
	data = s
	if !strings.HasPrefix(s, "data:") {
		return mediaType, data
	}
	rest := strings.TrimPrefix(s, "data:")
	if i := strings.Index(rest, ";base64,"); i != -1 {
		if rest[:i] != "" {
			mediaType = rest[:i]
		}
		data = rest[i+len(";base64,"):]
	}
	return mediaType, data
}

// --- Anthropic Messages API types ---

// claudeMessage's Content is either a plain string or a slice of
// content blocks when an image is attached.
type claudeMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type claudeImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
}

type claudeContentBlock struct {
	Type   string             `json:"type"`
	Text   string             `json:"text,omitempty"`
	Source *claudeImageSource `json:"source,omitempty"`
}

type claudeResponse struct {
	Content []claudeContentBlock `json:"content"`
}
