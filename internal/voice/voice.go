// Package voice turns response text into speech through an
// ElevenLabs-compatible text-to-speech endpoint. Voice is an optional
// capability: missing credentials disable synthesis without touching
// any other part of the service.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when no API key is set. Callers map it
// to a service error on the voice endpoint only.
var ErrNotConfigured = errors.New("voice: synthesis credentials not configured")

const defaultBaseURL = "https://api.elevenlabs.io/v1"

// Voice tuning applied to every request. Mid-range stability keeps
// short UI confirmations from sounding flat.
const (
	defaultStability       = 0.5
	defaultSimilarityBoost = 0.75
)

// Client calls the text-to-speech API for one configured voice.
type Client struct {
	apiKey  string
	voiceID string
	baseURL string
	client  *http.Client
}

// New creates a synthesis client. Empty credentials are allowed; every
// Synthesize call then returns ErrNotConfigured.
func New(apiKey, voiceID, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether synthesis credentials are present.
func (c *Client) Configured() bool { return c.apiKey != "" && c.voiceID != "" }

// Synthesize converts text to speech and returns the raw audio bytes
// along with the response content type.
func (c *Client) Synthesize(ctx context.Context, text string) (audio []byte, contentType string, err error) {
	if !c.Configured() {
		return nil, "", ErrNotConfigured
	}

	body := synthesisRequest{
		TextInput:       text,
		VoiceID:         c.voiceID,
		Stability:       defaultStability,
		SimilarityBoost: defaultSimilarityBoost,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("voice marshal: %w", err)
	}

	url := c.baseURL + "/text-to-speech/" + c.voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("voice request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("voice http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("voice read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("voice API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	contentType = resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return respBody, contentType, nil
}

// --- Text-to-speech API types ---

type synthesisRequest struct {
	TextInput       string  `json:"textInput"`
	VoiceID         string  `json:"voiceId"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarityBoost"`
}
