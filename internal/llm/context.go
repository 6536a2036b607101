package llm

import "context"

type ctxKey int

const (
	purposeKey ctxKey = iota
	topicKey
)

// PurposeUnknown labels requests made without WithPurpose.
const PurposeUnknown = "unknown"

// Topic is the trivia category a request writes about.
type Topic struct {
	ID   string
	Name string
}

// String renders the topic as "Name (ID)".
func (t Topic) String() string {
	return t.Name + " (" + t.ID + ")"
}

// WithPurpose labels the requests made with ctx in the event log, e.g.
// "question-gen" or "ping".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the purpose label, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}

// WithTopic records the category the request is about.
func WithTopic(ctx context.Context, t Topic) context.Context {
	return context.WithValue(ctx, topicKey, t)
}

// TopicFrom returns the category set by WithTopic.
func TopicFrom(ctx context.Context) (Topic, bool) {
	t, ok := ctx.Value(topicKey).(Topic)
	return t, ok
}
