package questions

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/thinxi/thinxi-admin/internal/difficulty"
	"github.com/thinxi/thinxi-admin/internal/docstore"
)

// Question is a stored trivia question.
type Question struct {
	ID          string           `mapstructure:"-"`
	CategoryID  string           `mapstructure:"category_id"`
	Category    string           `mapstructure:"category"`
	SubCategory string           `mapstructure:"sub_category"`
	Question    string           `mapstructure:"question"`
	Options     []string         `mapstructure:"options"`
	Correct     int              `mapstructure:"correct"`
	Difficulty  int              `mapstructure:"difficulty"`
	AnswerStats difficulty.Stats `mapstructure:"answer_stats"`

	// GradedAt is the answer total at the last difficulty change. Zero
	// until the question is first re-graded.
	GradedAt int `mapstructure:"graded_at"`
}

// Answer returns the text of the correct option.
func (q *Question) Answer() string {
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return ""
	}
	return q.Options[q.Correct]
}

// Fields returns the document representation of q.
func (q *Question) Fields() map[string]any {
	f := map[string]any{
		"category_id":  q.CategoryID,
		"category":     q.Category,
		"sub_category": q.SubCategory,
		"question":     q.Question,
		"options":      q.Options,
		"correct":      q.Correct,
		"difficulty":   q.Difficulty,
		"answer_stats": map[string]any{
			"correct": q.AnswerStats.Correct,
			"wrong":   q.AnswerStats.Wrong,
		},
	}
	if q.GradedAt > 0 {
		f["graded_at"] = q.GradedAt
	}
	return f
}

// decodeQuestion converts a stored document into a Question. A missing
// difficulty reads as difficulty.Default and missing answer stats as zero.
func decodeQuestion(doc docstore.Document) (*Question, error) {
	q := &Question{ID: doc.ID, Difficulty: difficulty.Default}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           q,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(doc.Data); err != nil {
		return nil, fmt.Errorf("decode question %s: %w", doc.ID, err)
	}
	return q, nil
}

// FormatID builds a question id: "{category}-{sequence}-{YYYYMMDD}-{HHMMSS}".
func FormatID(categoryID, sequence string, t time.Time) string {
	return fmt.Sprintf("%s-%s-%s", categoryID, sequence, t.Format("20060102-150405"))
}

// FormatSequence zero-pads n to two digits. Wider numbers print unpadded.
func FormatSequence(n int) string {
	return fmt.Sprintf("%02d", n)
}

// ParseSequence extracts the sequence number from an id in the category.
// It reports false for ids that do not start with the category code or
// whose second segment is not an integer.
func ParseSequence(id, categoryID string) (int, bool) {
	if !strings.HasPrefix(id, categoryID) {
		return 0, false
	}
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
