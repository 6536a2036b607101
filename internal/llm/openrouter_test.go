package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// chatServer answers every chat completion with content and finish reason.
func chatServer(t *testing.T, content, finish string, seen func(*http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen(r)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "gen-test",
			"object": "chat.completion",
			"model":  "google/gemini-2.0-flash-001",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 20, "total_tokens": 50},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("short name resolves to slug", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "gemini-flash"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "google/gemini-2.0-flash-001" {
			t.Errorf("model = %q, want google/gemini-2.0-flash-001", p.ModelID())
		}
	})

	t.Run("slug passes through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "mistralai/mistral-small"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "mistralai/mistral-small" {
			t.Errorf("model = %q", p.ModelID())
		}
	})

	t.Run("empty API key", func(t *testing.T) {
		if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "gemini-flash"}); err == nil {
			t.Fatal("expected error for empty API key")
		}
	})
}

func TestOpenRouterProvider_SendsAttributionHeaders(t *testing.T) {
	var title, referer string
	server := chatServer(t, "Doing well, thanks.", "stop", func(r *http.Request) {
		title = r.Header.Get("X-Title")
		referer = r.Header.Get("HTTP-Referer")
	})

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "gemini-flash", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := p.Generate(context.Background(), UserRequest("Hello, how are you?", 64, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Doing well, thanks." {
		t.Errorf("text = %q", resp.Text())
	}
	if title != "thinxi-admin" || referer == "" {
		t.Errorf("attribution headers = %q / %q", title, referer)
	}
}

func TestOpenRouterProvider_ContentFilterIsRejected(t *testing.T) {
	server := chatServer(t, "", "content_filter", nil)
	p, _ := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "gemini-flash", BaseURL: server.URL + "/v1"})

	_, err := p.Generate(context.Background(), UserRequest("Write one question about Religion & Philosophy.", 256, 0))
	var rejected *ErrRequestRejected
	if !errors.As(err, &rejected) {
		t.Fatalf("expected ErrRequestRejected, got %T: %v", err, err)
	}
}

func TestOpenRouterProvider_TruncatedStructuredReply(t *testing.T) {
	server := chatServer(t, `{"question":"Which river flows through Cairo?","options":["Nile",`, "length", nil)
	p, _ := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "gemini-flash", BaseURL: server.URL + "/v1"})

	req := UserRequest("Write one geography question.", 16, 0)
	req.Schema = &Schema{Name: "truncated-question", Definition: map[string]any{"type": "object"}}
	_, err := p.Generate(context.Background(), req)
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T: %v", err, err)
	}
}

func TestOpenRouterProvider_TruncatedFreeTextKept(t *testing.T) {
	server := chatServer(t, "Doing well, thanks for", "length", nil)
	p, _ := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "gemini-flash", BaseURL: server.URL + "/v1"})

	resp, err := p.Generate(context.Background(), UserRequest("Hello, how are you?", 4, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != StopMaxTokens {
		t.Errorf("stop reason = %q, want %q", resp.StopReason, StopMaxTokens)
	}
}
