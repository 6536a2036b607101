package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thinxi/thinxi-admin/internal/difficulty"
	"github.com/thinxi/thinxi-admin/internal/llm"
	"github.com/thinxi/thinxi-admin/internal/questiongen"
)

func reply(question string) llm.MockResponse {
	body := fmt.Sprintf("```json\n{\"question\":%q,\"options\":[\"A\",\"B\",\"C\",\"D\"],\"correct\":2,\"category_id\":\"99\",\"category\":\"Wrong\",\"sub_category\":\"Wrong\"}\n```", question)
	return llm.MockResponse{Content: json.RawMessage(body)}
}

type observation struct {
	outcome  Outcome
	category string
}

type fakeRecorder struct{ seen []observation }

func (r *fakeRecorder) Observe(o Outcome, cat string) {
	r.seen = append(r.seen, observation{o, cat})
}

func newTestHarvester(t *testing.T, cfg HarvestConfig, responses ...llm.MockResponse) (*Harvester, *Service, *llm.MockProvider, *fakeRecorder) {
	t.Helper()
	svc, _ := newTestService(t)
	mock := llm.NewMockProvider(responses...)
	rec := &fakeRecorder{}
	h := NewHarvester(svc, questiongen.New(mock, questiongen.DefaultConfig()), zap.NewNop(), cfg, rec)
	return h, svc, mock, rec
}

var idPattern = regexp.MustCompile(`^\d{2}-\d{2,}-\d{8}-\d{6}$`)

func TestRunOnce_Saves(t *testing.T) {
	h, svc, _, rec := newTestHarvester(t, HarvestConfig{CategoryID: "09"}, reply("Who wrote the Analects?"))

	res := h.RunOnce(context.Background())
	require.Equal(t, OutcomeSaved, res.Outcome, "err: %v", res.Err)
	require.NotNil(t, res.Question)
	assert.Regexp(t, idPattern, res.Question.ID)
	assert.Equal(t, "09-01-20250314-092653", res.Question.ID)

	got, err := svc.Get(context.Background(), res.Question.ID)
	require.NoError(t, err)
	// Category fields come from the request, not the model's echo.
	assert.Equal(t, "09", got.CategoryID)
	assert.Equal(t, "Religion & Philosophy", got.Category)
	assert.Equal(t, "Religion & Philosophy", got.SubCategory)
	assert.Equal(t, 2, got.Correct)
	assert.Equal(t, 1, got.Difficulty)
	assert.Equal(t, difficulty.Stats{}, got.AnswerStats)

	assert.Equal(t, []observation{{OutcomeSaved, "09"}}, rec.seen)
}

func TestRunOnce_DiscardsDuplicate(t *testing.T) {
	h, svc, mock, rec := newTestHarvester(t, HarvestConfig{CategoryID: "04"},
		reply("What is the capital of France?"),
		reply("What is the capital of France?"),
	)
	ctx := context.Background()

	first := h.RunOnce(ctx)
	require.Equal(t, OutcomeSaved, first.Outcome)

	second := h.RunOnce(ctx)
	assert.Equal(t, OutcomeDuplicate, second.Outcome)
	assert.ErrorIs(t, second.Err, ErrDuplicate)
	assert.Nil(t, second.Question)

	qs, err := svc.ListByCategory(ctx, "04")
	require.NoError(t, err)
	assert.Len(t, qs, 1, "duplicate must not be written")

	// The second prompt lists the stored question as already asked.
	assert.Contains(t, mock.Calls[1].Messages[0].Content, "1. What is the capital of France?")
	assert.Equal(t, OutcomeDuplicate, rec.seen[1].outcome)
}

func TestRunOnce_Malformed(t *testing.T) {
	h, svc, _, _ := newTestHarvester(t, HarvestConfig{CategoryID: "13"},
		llm.MockResponse{Content: json.RawMessage("```json\n{\"question\": \"Riddle?\", \"options\": [\n```")},
	)

	res := h.RunOnce(context.Background())
	assert.Equal(t, OutcomeMalformed, res.Outcome)
	assert.ErrorIs(t, res.Err, questiongen.ErrInvalidJSON)

	qs, err := svc.ListByCategory(context.Background(), "13")
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestRunOnce_ServiceFailure(t *testing.T) {
	h, _, _, _ := newTestHarvester(t, HarvestConfig{CategoryID: "01"},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)

	res := h.RunOnce(context.Background())
	assert.Equal(t, OutcomeFailed, res.Outcome)
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, res.Err, &unavail)
}

func TestRunOnce_UnknownCategory(t *testing.T) {
	h, _, mock, _ := newTestHarvester(t, HarvestConfig{CategoryID: "42"})

	res := h.RunOnce(context.Background())
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Zero(t, mock.CallCount())
}

func TestRunOnce_RandomCategory(t *testing.T) {
	h, _, _, _ := newTestHarvester(t, HarvestConfig{}, reply("Q?"))
	h.pick = func() Category { return categories[6] }

	res := h.RunOnce(context.Background())
	require.Equal(t, OutcomeSaved, res.Outcome)
	assert.Equal(t, "07", res.CategoryID)
}

func TestRun_ContinuesPastFailures(t *testing.T) {
	h, _, _, _ := newTestHarvester(t, HarvestConfig{CategoryID: "05"},
		reply("First?"),
		llm.MockResponse{Content: json.RawMessage("no json here")},
		reply("First?"),
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		reply("Second?"),
	)

	var seen []Outcome
	sum, err := h.Run(context.Background(), 5, func(r Result) { seen = append(seen, r.Outcome) })
	require.NoError(t, err)
	assert.Equal(t, Summary{Saved: 2, Duplicate: 1, Malformed: 1, Failed: 1}, sum)
	assert.Equal(t, 5, sum.Total())
	assert.Equal(t, []Outcome{OutcomeSaved, OutcomeMalformed, OutcomeDuplicate, OutcomeFailed, OutcomeSaved}, seen)
}

func TestRun_StopsOnCancel(t *testing.T) {
	h, _, mock, _ := newTestHarvester(t, HarvestConfig{CategoryID: "05", Rate: 100}, reply("Q?"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Run(ctx, 3, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mock.CallCount())
}
