package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestTriviaMock_WritesQuestionForTopic(t *testing.T) {
	mock := NewTriviaMock()
	ctx := WithTopic(context.Background(), Topic{ID: "07", Name: "History"})

	seen := map[string]bool{}
	for i := range 5 {
		resp, err := mock.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "Write one question."}}})
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		var q struct {
			Question   string   `json:"question"`
			Options    []string `json:"options"`
			Correct    int      `json:"correct"`
			CategoryID string   `json:"category_id"`
			Category   string   `json:"category"`
		}
		if err := json.Unmarshal(resp.Content, &q); err != nil {
			t.Fatalf("call %d: reply is not JSON: %v", i, err)
		}
		if q.CategoryID != "07" || q.Category != "History" {
			t.Fatalf("call %d: category = %q %q", i, q.CategoryID, q.Category)
		}
		if !strings.Contains(q.Question, "History") {
			t.Fatalf("call %d: question %q does not name the topic", i, q.Question)
		}
		if len(q.Options) != 4 || q.Correct < 0 || q.Correct > 3 {
			t.Fatalf("call %d: options %v correct %d", i, q.Options, q.Correct)
		}
		if seen[q.Question] {
			t.Fatalf("call %d repeated question %q", i, q.Question)
		}
		seen[q.Question] = true
	}
}

func TestTriviaMock_FreeTextPrompt(t *testing.T) {
	mock := NewTriviaMock()
	resp, err := mock.Generate(context.Background(), UserRequest("Hello, how are you?", 64, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() == "" || strings.HasPrefix(resp.Text(), "{") {
		t.Fatalf("expected a plain reply, got %q", resp.Text())
	}
	if resp.Usage.InputTokens == 0 {
		t.Fatal("expected estimated usage")
	}
}

func TestTriviaMock_QueuedRepliesFirst(t *testing.T) {
	mock := NewTriviaMock()
	mock.AddResponse(MockResponse{Err: &ErrRateLimit{}})

	if _, err := mock.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected the queued error first")
	}
	if _, err := mock.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("expected fallback reply, got %v", err)
	}
}

func TestTopicContext(t *testing.T) {
	if _, ok := TopicFrom(context.Background()); ok {
		t.Fatal("expected no topic on a bare context")
	}
	ctx := WithTopic(context.Background(), Topic{ID: "05", Name: "Science & Technology"})
	got, ok := TopicFrom(ctx)
	if !ok || got.String() != "Science & Technology (05)" {
		t.Fatalf("TopicFrom = %v, %v", got, ok)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "question-gen")
	if p := PurposeFrom(ctx); p != "question-gen" {
		t.Fatalf("expected 'question-gen', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}, Retry: RetryConfig{MaxAttempts: 1}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}, Retry: RetryConfig{MaxAttempts: 1}},
			wantErr: false,
		},
		{
			name:    "gemini without key",
			cfg:     Config{Provider: "gemini", Retry: RetryConfig{MaxAttempts: 1}},
			wantErr: true,
		},
		{
			name:    "gemini with key",
			cfg:     Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "key"}, Retry: RetryConfig{MaxAttempts: 1}},
			wantErr: false,
		},
		{
			name:    "openrouter with key",
			cfg:     Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "sk-or"}, Retry: RetryConfig{MaxAttempts: 3}},
			wantErr: false,
		},
		{
			name:    "zero retry attempts",
			cfg:     Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "key"}},
			wantErr: true,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderGemini {
		t.Fatalf("default provider = %q, want gemini", cfg.Provider)
	}
	if got := resolveModel(cfg.Gemini.Model, geminiModels); got != "gemini-1.5-pro-002" {
		t.Fatalf("default gemini model resolves to %q", got)
	}
	cfg.Gemini.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults with a key should validate: %v", err)
	}
}

func TestResponseText(t *testing.T) {
	var nilResp *Response
	if nilResp.Text() != "" {
		t.Fatal("nil response should have empty text")
	}
	r := &Response{Content: json.RawMessage("Hello there")}
	if r.Text() != "Hello there" {
		t.Fatalf("Text() = %q", r.Text())
	}
}

func TestUserRequest(t *testing.T) {
	req := UserRequest("Hello, how are you?", 64, 0.5)
	if len(req.Messages) != 1 || req.Messages[0].Role != RoleUser {
		t.Fatalf("unexpected messages: %+v", req.Messages)
	}
	if req.Schema != nil {
		t.Fatal("UserRequest must not set a schema")
	}
	if req.MaxTokens != 64 || req.Temperature != 0.5 {
		t.Fatalf("unexpected limits: %+v", req)
	}
}

func TestLookupCost(t *testing.T) {
	if c := LookupCost("gemini-1.5-pro-002"); c == nil || c.InputPerMTok != 1.25 {
		t.Fatalf("unexpected cost: %+v", c)
	}
	if c := LookupCost("google/gemini-2.0-flash-001"); c == nil || c.OutputPerMTok != 0.4 {
		t.Fatalf("vendor-prefixed id should resolve, got %+v", c)
	}
	if c := LookupCost("nobody/unknown-model"); c != nil {
		t.Fatalf("expected nil, got %+v", c)
	}
	got := ModelCost{InputPerMTok: 1, OutputPerMTok: 2}.Cost(1_000_000, 500_000)
	if got != 2 {
		t.Fatalf("Cost = %v, want 2", got)
	}
}
