// Package handlers implements the HTTP endpoints of the design
// generation service. Every error response uses the same JSON envelope:
// {"error": "...", "details": "..."}.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"uigen/internal/ai"
	"uigen/internal/cache"
	"uigen/internal/catalog"
	"uigen/internal/engine"
	"uigen/internal/imagegen"
	"uigen/internal/models"
	"uigen/internal/prompt"
	"uigen/internal/sanitize"
	"uigen/internal/voice"
)

// maxRequestBody caps request payloads. Reference images arrive as
// base64 data URLs, so the limit is generous.
const maxRequestBody = 10 << 20

// Design bundles the collaborators of the generation endpoints.
type Design struct {
	registry   *ai.Registry
	images     *imagegen.Client
	voice      *voice.Client
	imageCache *cache.ImageCache
}

// NewDesign creates the handler set. imageCache may be nil.
func NewDesign(registry *ai.Registry, images *imagegen.Client, tts *voice.Client, imageCache *cache.ImageCache) *Design {
	return &Design{
		registry:   registry,
		images:     images,
		voice:      tts,
		imageCache: imageCache,
	}
}

// CreateDesign runs one generation round: prompt assembly, completion,
// post-processing, sanitization. The endpoint is stateless; the request
// carries all session state and the response carries everything the
// client needs for the next round.
func (d *Design) CreateDesign(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDesignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "text is required")
		return
	}

	if !d.checkPromptSafety(w, r, text) {
		return
	}

	// Unknown template ids degrade to unconstrained generation rather
	// than failing the round.
	tmpl := catalog.ByID(req.TemplateID)
	if req.TemplateID != "" && tmpl == nil {
		slog.Warn("unknown template id, generating without template", "template", req.TemplateID)
	}

	system, user := prompt.Build(prompt.Input{
		UserText:     text,
		Template:     tmpl,
		PreviousHTML: req.PreviousDesign,
	})

	raw, err := d.registry.Complete(r.Context(), ai.Request{
		System:      system,
		History:     promptHistory(req.PreviousMessages),
		User:        user,
		Temperature: ai.Temp(0),
		Image:       req.ReferenceImage,
	})
	if err != nil {
		slog.Error("completion failed", "error", err, "provider", d.registry.ActiveName())
		writeError(w, http.StatusInternalServerError, "Failed to generate design", truncate(err.Error(), 300))
		return
	}

	result, err := engine.New(tmpl).Process(raw)
	if err != nil {
		if errors.Is(err, engine.ErrNoContent) {
			writeError(w, http.StatusInternalServerError, "Failed to generate design", "the completion service returned no content")
			return
		}
		slog.Error("post-processing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate design", truncate(err.Error(), 300))
		return
	}

	result.HTML = sanitize.Clean(result.HTML)

	writeJSON(w, http.StatusOK, models.GenerationResult{
		AIResponse:    result.AIResponse,
		HTML:          result.HTML,
		ImageURL:      result.ImageURL,
		DesignChoices: result.DesignChoices,
	})
}

// GetImage proxies the image workflow, caching responses by prompt.
// The response always carries a usable imageUrl; workflow failures
// degrade to a placeholder instead of an error status.
func (d *Design) GetImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keywords string `json:"keywords"`
		Prompt   string `json:"prompt"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	// "keywords" is the canonical field; "prompt" stays as an alias for
	// older clients.
	promptText := strings.TrimSpace(req.Keywords)
	if promptText == "" {
		promptText = strings.TrimSpace(req.Prompt)
	}
	if promptText == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "keywords is required")
		return
	}

	if cached, ok := d.imageCache.Get(r.Context(), promptText); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	payload := d.images.Generate(r.Context(), promptText)

	if body, err := json.Marshal(payload); err == nil {
		// Placeholder fallbacks are not worth remembering.
		if payload["imageUrl"] != imagegen.FallbackImageURL {
			d.imageCache.Set(r.Context(), promptText, body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": imagegen.FallbackImageURL})
}

// SynthesizeVoice converts response text to speech. Missing credentials
// disable only this endpoint; everything else keeps working.
func (d *Design) SynthesizeVoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "text is required")
		return
	}

	audio, contentType, err := d.voice.Synthesize(r.Context(), text)
	if err != nil {
		if errors.Is(err, voice.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError, "Voice synthesis unavailable", "synthesis credentials are not configured")
			return
		}
		slog.Error("voice synthesis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Voice synthesis failed", truncate(err.Error(), 300))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

// Templates lists the preset templates the client can offer.
func (d *Design) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.All())
}

// Health reports liveness and the active provider.
func (d *Design) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"provider": d.registry.ActiveName(),
	})
}

// checkPromptSafety runs moderation on the user prompt. Moderation
// errors fail open: the providers keep their own safety filters. Writes
// the rejection response itself and returns false when flagged.
func (d *Design) checkPromptSafety(w http.ResponseWriter, r *http.Request, text string) bool {
	result, err := d.registry.CheckPrompt(r.Context(), text)
	if err != nil {
		slog.Warn("moderation check failed, continuing", "error", err)
		return true
	}
	if !result.Safe {
		writeError(w, http.StatusBadRequest, "Request rejected",
			"the prompt was flagged for: "+strings.Join(result.Categories, ", "))
		return false
	}
	return true
}

// promptHistory converts replayed transcript turns to provider turns.
func promptHistory(msgs []models.PromptMessage) []ai.Message {
	out := make([]ai.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ai.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// decodeJSON reads a JSON body with a size cap and strict field
// handling lenient enough for forward-compatible clients.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response", "error", err)
	}
}

// writeError writes the service's JSON error envelope.
func writeError(w http.ResponseWriter, status int, errMsg, details string) {
	writeJSON(w, status, map[string]string{
		"error":   errMsg,
		"details": details,
	})
}

// truncate shortens s for error details and log lines.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
