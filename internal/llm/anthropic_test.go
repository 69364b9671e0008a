package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnthropicComplete(t *testing.T) {
	var gotReq anthropicRequest
	var gotHeaders http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{
				{"type": "text", "text": `{"content_slots": `},
				{"type": "text", "text": `[]}`},
			},
		})
	}))
	defer srv.Close()

	provider := NewAnthropicProvider(AnthropicConfig{
		APIURL: srv.URL,
		APIKey: "test-key",
		Model:  "test-model",
	})

	got, err := provider.Complete(context.Background(), CompletionRequest{
		System:   "plan content",
		Messages: []Message{{Role: "user", Content: "go"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Text blocks are concatenated in order
	if got != `{"content_slots": []}` {
		t.Errorf("content = %q", got)
	}

	if gotHeaders.Get("X-API-Key") != "test-key" {
		t.Errorf("X-API-Key = %q", gotHeaders.Get("X-API-Key"))
	}
	if gotHeaders.Get("Anthropic-Version") != "2023-06-01" {
		t.Errorf("Anthropic-Version = %q", gotHeaders.Get("Anthropic-Version"))
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.MaxTokens != defaultAnthropicMaxTokens {
		t.Errorf("max_tokens = %d, want default", gotReq.MaxTokens)
	}
	if gotReq.System != "plan content" {
		t.Errorf("system = %q", gotReq.System)
	}
}

func TestAnthropicCompleteErrors(t *testing.T) {
	t.Run("missing model", func(t *testing.T) {
		provider := NewAnthropicProvider(AnthropicConfig{})
		_, err := provider.Complete(context.Background(), CompletionRequest{
			Messages: []Message{{Role: "user", Content: "go"}},
		})
		if err == nil || !strings.Contains(err.Error(), "model") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": {"type": "overloaded_error"}}`, http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		provider := NewAnthropicProvider(AnthropicConfig{APIURL: srv.URL, Model: "test-model"})
		_, err := provider.Complete(context.Background(), CompletionRequest{
			Messages: []Message{{Role: "user", Content: "go"}},
		})
		if err == nil || !strings.Contains(err.Error(), "unexpected status") {
			t.Errorf("error = %v", err)
		}
		if err != nil && !strings.Contains(err.Error(), "overloaded_error") {
			t.Errorf("error should carry the response body: %v", err)
		}
	})
}
