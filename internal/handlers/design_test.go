package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"uigen/internal/ai"
	"uigen/internal/imagegen"
	"uigen/internal/models"
	"uigen/internal/voice"
)

// fakeProvider returns a canned completion.
type fakeProvider struct {
	resp    string
	err     error
	lastReq ai.Request
}

func (f *fakeProvider) Complete(ctx context.Context, req ai.Request) (string, error) {
	f.lastReq = req
	return f.resp, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func newTestHandler(p ai.Provider, imageURL string) *Design {
	registry := ai.NewRegistry("fake", nil)
	registry.Register("fake", p)
	return NewDesign(registry, imagegen.New(imageURL), voice.New("", "", ""), nil)
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var envelope map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not the JSON envelope: %v", err)
	}
	return envelope
}

// --- CreateDesign ---

const cannedCompletion = "<!-- AI_RESPONSE: Built you a landing page with a bold hero. -->\n" +
	"<section id=\"hero\"><!-- hero banner --><img src=\"IMAGE_PLACEHOLDER\" alt=\"hero\"><script>evil()</script></section>"

func TestCreateDesign(t *testing.T) {
	provider := &fakeProvider{resp: cannedCompletion}
	d := newTestHandler(provider, "")

	rec := postJSON(t, d.CreateDesign, models.CreateDesignRequest{
		Text:       "make me a landing page",
		TemplateID: "modern-landing",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result models.GenerationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}

	if result.AIResponse != "Built you a landing page with a bold hero." {
		t.Errorf("aiResponse = %q", result.AIResponse)
	}
	if strings.ContainsAny(result.AIResponse, "<>") {
		t.Errorf("aiResponse contains markup: %q", result.AIResponse)
	}
	if strings.Contains(result.HTML, "IMAGE_PLACEHOLDER") {
		t.Errorf("placeholder survived to the response")
	}
	if strings.Contains(result.HTML, "evil()") {
		t.Errorf("script survived sanitization")
	}
	if !strings.Contains(result.HTML, "<!DOCTYPE html>") {
		t.Errorf("response is not a full document")
	}
	if result.ImageURL == "" {
		t.Errorf("imageUrl missing")
	}

	// Completion call must be pinned to temperature zero.
	if provider.lastReq.Temperature == nil || *provider.lastReq.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", provider.lastReq.Temperature)
	}
}

func TestCreateDesignCarriesPreviousDesign(t *testing.T) {
	provider := &fakeProvider{resp: cannedCompletion}
	d := newTestHandler(provider, "")

	previous := "<!DOCTYPE html><html><body><section id=\"hero\">old</section></body></html>"
	rec := postJSON(t, d.CreateDesign, models.CreateDesignRequest{
		Text:           "make the header blue",
		TemplateID:     "modern-landing",
		PreviousDesign: previous,
		PreviousMessages: []models.PromptMessage{
			{Role: "user", Content: "make me a landing page"},
			{Role: "bot", Content: "Built it."},
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(provider.lastReq.System, previous) {
		t.Errorf("previous design not embedded in system prompt")
	}
	if len(provider.lastReq.History) != 2 {
		t.Errorf("history length = %d", len(provider.lastReq.History))
	}
}

func TestCreateDesignValidation(t *testing.T) {
	d := newTestHandler(&fakeProvider{resp: cannedCompletion}, "")

	tests := []struct {
		name string
		body any
	}{
		{"empty text", models.CreateDesignRequest{Text: "   "}},
		{"missing text", map[string]string{"template": "modern-landing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, d.CreateDesign, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env := decodeEnvelope(t, rec); env["error"] == "" || env["details"] == "" {
				t.Errorf("envelope = %v", env)
			}
		})
	}
}

func TestCreateDesignCompletionFailure(t *testing.T) {
	d := newTestHandler(&fakeProvider{err: errors.New("upstream exploded")}, "")

	rec := postJSON(t, d.CreateDesign, models.CreateDesignRequest{Text: "hi", TemplateID: "modern-landing"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["error"] != "Failed to generate design" {
		t.Errorf("error = %q", env["error"])
	}
}

func TestCreateDesignEmptyCompletion(t *testing.T) {
	d := newTestHandler(&fakeProvider{resp: "   "}, "")

	rec := postJSON(t, d.CreateDesign, models.CreateDesignRequest{Text: "hi", TemplateID: "modern-landing"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

// Unknown template ids degrade to unconstrained generation.
func TestCreateDesignUnknownTemplate(t *testing.T) {
	d := newTestHandler(&fakeProvider{resp: cannedCompletion}, "")

	rec := postJSON(t, d.CreateDesign, models.CreateDesignRequest{Text: "hi", TemplateID: "no-such-template"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

// --- GetImage ---

func TestGetImage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"url": "https://img.example.com/x.png"}]}`))
	}))
	defer upstream.Close()

	d := newTestHandler(&fakeProvider{}, upstream.URL)

	// Clients describe the image with "keywords"; "prompt" is the
	// legacy alias. Both must reach the workflow.
	for _, body := range []map[string]string{
		{"keywords": "a red bicycle"},
		{"prompt": "a red bicycle"},
	} {
		rec := postJSON(t, d.GetImage, body)

		if rec.Code != http.StatusOK {
			t.Fatalf("body %v: status = %d", body, rec.Code)
		}
		var payload map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload["imageUrl"] != "https://img.example.com/x.png" {
			t.Errorf("body %v: imageUrl = %v", body, payload["imageUrl"])
		}
	}
}

func TestGetImageFallsBackWithoutWorkflow(t *testing.T) {
	d := newTestHandler(&fakeProvider{}, "")

	rec := postJSON(t, d.GetImage, map[string]string{"keywords": "a red bicycle"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, image failures must not error", rec.Code)
	}
	var payload map[string]any
	json.Unmarshal(rec.Body.Bytes(), &payload)
	if payload["imageUrl"] != imagegen.FallbackImageURL {
		t.Errorf("imageUrl = %v, want fallback", payload["imageUrl"])
	}
}

func TestGetImageValidation(t *testing.T) {
	d := newTestHandler(&fakeProvider{}, "")

	rec := postJSON(t, d.GetImage, map[string]string{"keywords": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["details"] != "keywords is required" {
		t.Errorf("details = %q", env["details"])
	}
}

// --- SynthesizeVoice ---

func TestSynthesizeVoiceNotConfigured(t *testing.T) {
	d := newTestHandler(&fakeProvider{}, "")

	rec := postJSON(t, d.SynthesizeVoice, map[string]string{"text": "Here is your design"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["error"] != "Voice synthesis unavailable" {
		t.Errorf("error = %q", env["error"])
	}
}

func TestSynthesizeVoice(t *testing.T) {
	tts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("MP3DATA"))
	}))
	defer tts.Close()

	registry := ai.NewRegistry("fake", nil)
	registry.Register("fake", &fakeProvider{})
	d := NewDesign(registry, imagegen.New(""), voice.New("key", "voice-1", tts.URL), nil)

	rec := postJSON(t, d.SynthesizeVoice, map[string]string{"text": "Here is your design"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "MP3DATA" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("content type = %q", ct)
	}
}

// --- Templates and Health ---

func TestTemplates(t *testing.T) {
	d := newTestHandler(&fakeProvider{}, "")

	rec := httptest.NewRecorder()
	d.Templates(rec, httptest.NewRequest(http.MethodGet, "/templates", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var templates []models.Template
	if err := json.Unmarshal(rec.Body.Bytes(), &templates); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(templates) != 4 {
		t.Errorf("template count = %d, want 4", len(templates))
	}
}

func TestHealth(t *testing.T) {
	d := newTestHandler(&fakeProvider{}, "")

	rec := httptest.NewRecorder()
	d.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" || body["provider"] != "fake" {
		t.Errorf("body = %v", body)
	}
}
