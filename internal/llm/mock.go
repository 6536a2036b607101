package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockModel is the model ID reported by MockProvider.
const MockModel = "mock"

// MockResponse is one queued reply for MockProvider. A non-nil Err is
// returned instead of a reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider serves queued replies in order and records every request.
// When the queue is empty it asks its fallback for a reply, and fails with
// ErrProviderUnavailable if it has none.
type MockProvider struct {
	mu       sync.Mutex
	queue    []MockResponse
	fallback func(ctx context.Context, req Request, call int) MockResponse
	Calls    []Request
}

// NewMockProvider returns a MockProvider that serves exactly the given
// replies.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// NewTriviaMock returns the offline provider behind `--provider mock`.
// Every call writes a new multiple-choice question about the request's
// topic; free-text prompts get a short canned reply.
func NewTriviaMock() *MockProvider {
	return &MockProvider{fallback: triviaReply}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var next MockResponse
	switch {
	case len(m.queue) > 0:
		next, m.queue = m.queue[0], m.queue[1:]
	case m.fallback != nil:
		next = m.fallback(ctx, req, len(m.Calls))
	default:
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("mock has no reply queued for call %d", len(m.Calls))}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      MockModel,
		StopReason: StopEnd,
	}, nil
}

func (m *MockProvider) ModelID() string {
	return MockModel
}

// AddResponse queues another reply.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

var mockStems = []string{
	"Which of these is most closely linked to %s?",
	"Which answer would a %s expert pick first?",
	"Which of these terms comes from %s?",
	"Which item below belongs in a %s quiz?",
}

var mockOptions = [][]string{
	{"Amber", "Basalt", "Cobalt", "Dolomite"},
	{"Kestrel", "Lantern", "Meridian", "Nocturne"},
	{"Quartz", "Raven", "Sextant", "Tundra"},
	{"Vellum", "Willow", "Xenon", "Yarrow"},
}

// triviaReply writes a question for the request's topic. The text carries
// a random tag so separate runs never produce the same question.
func triviaReply(ctx context.Context, req Request, call int) MockResponse {
	topic, ok := TopicFrom(ctx)
	if !ok {
		if req.Schema != nil {
			topic = Topic{ID: "00", Name: "general knowledge"}
		} else {
			text := "Mock provider here, ready to write questions."
			return MockResponse{Content: json.RawMessage(text), Usage: mockUsage(req, text)}
		}
	}

	i := (call - 1) % len(mockStems)
	reply := struct {
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		Correct     int      `json:"correct"`
		CategoryID  string   `json:"category_id"`
		Category    string   `json:"category"`
		SubCategory string   `json:"sub_category"`
	}{
		Question:    fmt.Sprintf(mockStems[i], topic.Name) + " [" + uuid.NewString()[:8] + "]",
		Options:     mockOptions[i],
		Correct:     (call - 1) % len(mockOptions[i]),
		CategoryID:  topic.ID,
		Category:    topic.Name,
		SubCategory: topic.Name,
	}
	content, err := json.Marshal(reply)
	if err != nil {
		return MockResponse{Err: err}
	}
	return MockResponse{Content: content, Usage: mockUsage(req, string(content))}
}

// mockUsage approximates token counts at four bytes per token.
func mockUsage(req Request, reply string) Usage {
	in := len(req.System)
	for _, msg := range req.Messages {
		in += len(msg.Content)
	}
	u := Usage{InputTokens: in / 4, OutputTokens: len(reply) / 4}
	u.TotalTokens = u.InputTokens + u.OutputTokens
	return u
}
