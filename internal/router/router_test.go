package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"uigen/internal/ai"
	"uigen/internal/handlers"
	"uigen/internal/imagegen"
	"uigen/internal/voice"
)

type stubProvider struct{}

func (stubProvider) Complete(ctx context.Context, req ai.Request) (string, error) {
	return "<!-- AI_RESPONSE: done --><div>hi</div>", nil
}

func (stubProvider) Name() string { return "stub" }

func testRouter() http.Handler {
	registry := ai.NewRegistry("stub", nil)
	registry.Register("stub", stubProvider{})
	design := handlers.NewDesign(registry, imagegen.New(""), voice.New("", "", ""), nil)
	return New(design, []string{"https://app.example.com"})
}

func TestRoutes(t *testing.T) {
	r := testRouter()

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/templates", "", http.StatusOK},
		{http.MethodPost, "/create-design", `{"text": "make a page", "template": "modern-landing"}`, http.StatusOK},
		{http.MethodPost, "/get-image", `{"prompt": "a bicycle"}`, http.StatusOK},
		{http.MethodPost, "/synthesize-voice", `{"text": "hello"}`, http.StatusInternalServerError},
		{http.MethodGet, "/create-design", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewReader([]byte(tt.body)))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/create-design", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/create-design", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q for disallowed origin", got)
	}
}

func TestErrorEnvelopeShape(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/create-design", bytes.NewReader([]byte(`{"text": ""}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("not the JSON envelope: %v", err)
	}
	if envelope["error"] == "" || envelope["details"] == "" {
		t.Errorf("envelope = %v", envelope)
	}
}
