package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"uigen/internal/models"
)

// Remote is a Backend that talks to the generation endpoint over HTTP.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote creates a backend for the service at baseURL. The timeout
// covers the whole round including the completion call, so it is
// generous.
func NewRemote(baseURL string) *Remote {
	return &Remote{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// CreateDesign posts one generation round and decodes the result.
// Non-200 responses carry an {error, details} envelope whose fields
// become the returned error.
func (r *Remote) CreateDesign(ctx context.Context, req models.CreateDesignRequest) (*models.GenerationResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("create-design marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/create-design", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create-design request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create-design http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create-design read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
			return nil, fmt.Errorf("create-design: %s: %s", envelope.Error, envelope.Details)
		}
		return nil, fmt.Errorf("create-design: unexpected status %d", resp.StatusCode)
	}

	var result models.GenerationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("create-design unmarshal: %w", err)
	}
	return &result, nil
}
