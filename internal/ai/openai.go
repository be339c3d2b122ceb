package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// openAIProvider implements the Provider interface against the OpenAI
// chat completions API (POST /v1/chat/completions). Any OpenAI-compatible
// host works via BaseURL, which is how Nebius-hosted models are reached.
type openAIProvider struct {
	config ProviderConfig
	client *http.Client
}

// newOpenAI creates a new OpenAI-compatible provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &openAIProvider{
		config: cfg,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *openAIProvider) Name() string { return "openai" }

// Complete sends a chat completion request and returns the assistant's
// response text. History turns are replayed between the system and
// current user message, with UI-side "bot" roles mapped to "assistant"
// (the chat completions API rejects unknown roles); a reference image
// turns the user message into a multimodal content array.
func (p *openAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openAIMessage, 0, len(req.History)+2)
	messages = append(messages, openAIMessage{Role: "system", Content: req.System})
	for _, m := range req.History {
		role := m.Role
		if role == "bot" {
			role = "assistant"
		}
		messages = append(messages, openAIMessage{Role: role, Content: m.Content})
	}

	if req.Image != "" {
		messages = append(messages, openAIMessage{
			Role: "user",
			Content: []openAIContentPart{
				{Type: "text", Text: req.User},
				{Type: "image_url", ImageURL: &openAIImageURL{URL: req.Image}},
			},
		})
	} else {
		messages = append(messages, openAIMessage{Role: "user", Content: req.User})
	}

	body := openAIRequest{
		Model:       p.config.Model,
		Messages:    messages,
		Temperature: req.Temperature,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("openai marshal: %w", err)
	}

	url := p.config.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result openAIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("openai unmarshal: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	text, ok := result.Choices[0].Message.Content.(string)
	if !ok || text == "" {
		return "", fmt.Errorf("openai: empty message content")
	}

	return text, nil
}

// --- OpenAI-compatible request/response types ---

// openAIMessage's Content is either a plain string or a slice of
// content parts when a reference image is attached.
type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIChoice struct {
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}
