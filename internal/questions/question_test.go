package questions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinxi/thinxi-admin/internal/docstore"
)

func TestFormatID(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "05-07-20250102-030405", FormatID("05", FormatSequence(7), ts))
	assert.Equal(t, "05-123-20250102-030405", FormatID("05", FormatSequence(123), ts))
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		id   string
		want int
		ok   bool
	}{
		{"05-07-20250102-030405", 7, true},
		{"05-123-20250102-030405", 123, true},
		{"05-x-20250102-030405", 0, false},
		{"06-07-20250102-030405", 0, false},
		{"05", 0, false},
		{"05--20250102", 0, false},
	}
	for _, tt := range tests {
		n, ok := ParseSequence(tt.id, "05")
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.want, n, tt.id)
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 13)
	assert.Equal(t, Category{"01", "General Knowledge"}, cats[0])
	assert.Equal(t, Category{"13", "Brain Teasers & Riddles"}, cats[12])

	cats[0].Name = "changed"
	c, err := LookupCategory("01")
	require.NoError(t, err)
	assert.Equal(t, "General Knowledge", c.Name, "Categories returns a copy")

	_, err = LookupCategory("14")
	assert.Error(t, err)
}

func TestDecodeQuestion_Firestore(t *testing.T) {
	// Firestore returns int64 numbers and []any slices.
	q, err := decodeQuestion(docstore.Document{ID: "01-01-20250101-000000", Data: map[string]any{
		"category_id":  "01",
		"question":     "Q?",
		"options":      []any{"a", "b", "c", "d"},
		"correct":      int64(3),
		"difficulty":   int64(2),
		"answer_stats": map[string]any{"correct": int64(4), "wrong": int64(1)},
		"graded_at":    int64(20),
	}})
	require.NoError(t, err)
	assert.Equal(t, "01-01-20250101-000000", q.ID)
	assert.Equal(t, 3, q.Correct)
	assert.Equal(t, 2, q.Difficulty)
	assert.Equal(t, 5, q.AnswerStats.Total())
	assert.Equal(t, 20, q.GradedAt)
	assert.Equal(t, "d", q.Answer())
}

func TestFields_OmitsUngraded(t *testing.T) {
	q := &Question{Question: "Q?", Difficulty: 3}
	f := q.Fields()
	assert.NotContains(t, f, "graded_at")
	assert.Equal(t, map[string]any{"correct": 0, "wrong": 0}, f["answer_stats"])

	q.GradedAt = 20
	assert.Equal(t, 20, q.Fields()["graded_at"])
}
