package questions

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thinxi/thinxi-admin/internal/difficulty"
	"github.com/thinxi/thinxi-admin/internal/docstore"
	"github.com/thinxi/thinxi-admin/internal/store"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

// countingStore records writes made through it.
type countingStore struct {
	docstore.Store
	updates int
	creates int
}

func (c *countingStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	c.updates++
	return c.Store.Update(ctx, collection, id, fields)
}

func (c *countingStore) Create(ctx context.Context, collection, id string, data map[string]any) error {
	c.creates++
	return c.Store.Create(ctx, collection, id, data)
}

// failingStore fails every read and counts attempted writes.
type failingStore struct {
	docstore.Store
	err    error
	writes int
}

func (f *failingStore) Query(context.Context, string, docstore.Query) ([]docstore.Document, error) {
	return nil, f.err
}

func (f *failingStore) Get(context.Context, string, string) (*docstore.Document, error) {
	return nil, f.err
}

func (f *failingStore) Create(context.Context, string, string, map[string]any) error {
	f.writes++
	return nil
}

func (f *failingStore) Increment(context.Context, string, string, string, int) error {
	return f.err
}

func newTestService(t *testing.T) (*Service, *countingStore) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "questions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cs := &countingStore{Store: s.Documents()}
	return NewService(cs, zap.NewNop(), WithClock(func() time.Time { return fixedNow })), cs
}

func seed(t *testing.T, svc *Service, id string, fields map[string]any) {
	t.Helper()
	require.NoError(t, svc.store.Set(context.Background(), svc.collection, id, fields))
}

func TestNextNumber(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	n, err := svc.NextNumber(ctx, "05")
	require.NoError(t, err)
	assert.Equal(t, "01", n, "empty category")

	for _, id := range []string{"05-03-20250101-000000", "05-07-20250102-000000", "05-01-20250103-000000"} {
		seed(t, svc, id, map[string]any{"category_id": "05"})
	}
	// Non-conforming ids in the category are skipped.
	seed(t, svc, "05-abc-20250101-000000", map[string]any{"category_id": "05"})
	seed(t, svc, "legacy-question", map[string]any{"category_id": "05"})
	seed(t, svc, "05", map[string]any{"category_id": "05"})
	// Other categories do not count.
	seed(t, svc, "06-42-20250101-000000", map[string]any{"category_id": "06"})

	n, err = svc.NextNumber(ctx, "05")
	require.NoError(t, err)
	assert.Equal(t, "08", n)
}

func TestNextNumber_WidensPastNinetyNine(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, "07-99-20250101-000000", map[string]any{"category_id": "07"})

	n, err := svc.NextNumber(context.Background(), "07")
	require.NoError(t, err)
	assert.Equal(t, "100", n)
}

func TestAssignDifficulty(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	d, err := svc.AssignDifficulty(ctx, "03")
	require.NoError(t, err)
	assert.Equal(t, 1, d, "empty category starts easiest")

	prev := d
	for i := range 8 {
		seed(t, svc, FormatID("03", FormatSequence(i+1), fixedNow), map[string]any{"category_id": "03"})
		d, err := svc.AssignDifficulty(ctx, "03")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d, prev)
		assert.LessOrEqual(t, d, difficulty.Max)
		prev = d
	}
}

func TestIsDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Draft{
		CategoryID: "04",
		Question:   "What is the capital of France?",
		Options:    []string{"Paris", "Berlin", "Madrid", "Rome"},
		Correct:    0,
	})
	require.NoError(t, err)

	dup, err := svc.IsDuplicate(ctx, "What is the capital of France?")
	require.NoError(t, err)
	assert.True(t, dup)

	dup, err = svc.IsDuplicate(ctx, "What is the capital of Spain?")
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = svc.IsDuplicate(ctx, "what is the capital of france?")
	require.NoError(t, err)
	assert.False(t, dup, "comparison is case-sensitive")
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, Draft{
		CategoryID: "05",
		Question:   "Which planet is known as the Red Planet?",
		Options:    []string{"Venus", "Mars", "Jupiter", "Saturn"},
		Correct:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, "05-01-20250314-092653", q.ID)
	assert.Equal(t, 1, q.Difficulty)

	got, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "05", got.CategoryID)
	assert.Equal(t, "Science & Technology", got.Category)
	assert.Equal(t, "Science & Technology", got.SubCategory)
	assert.Equal(t, []string{"Venus", "Mars", "Jupiter", "Saturn"}, got.Options)
	assert.Equal(t, 1, got.Correct)
	assert.Equal(t, "Mars", got.Answer())
	assert.Equal(t, difficulty.Stats{}, got.AnswerStats)
	assert.Zero(t, got.GradedAt)

	svc.now = func() time.Time { return fixedNow.Add(time.Second) }
	q2, err := svc.Create(ctx, Draft{CategoryID: "05", Question: "Q2?", Options: []string{"a", "b", "c", "d"}})
	require.NoError(t, err)
	assert.Equal(t, "05-02-20250314-092654", q2.ID)
	assert.Equal(t, 2, q2.Difficulty)
}

func TestCreate_RefusesToOverwrite(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// A document holding the id the next question would get, filed
	// under another category so it does not affect numbering.
	seed(t, svc, "05-01-20250314-092653", map[string]any{"category_id": "06", "question": "keep me"})

	_, err := svc.Create(ctx, Draft{CategoryID: "05", Question: "Q?", Options: []string{"a", "b", "c", "d"}})
	require.ErrorIs(t, err, docstore.ErrAlreadyExists)

	got, err := svc.Get(ctx, "05-01-20250314-092653")
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Question)
}

func TestCreate_UnknownCategory(t *testing.T) {
	svc, cs := newTestService(t)
	_, err := svc.Create(context.Background(), Draft{CategoryID: "99", Question: "Q?"})
	require.Error(t, err)
	assert.Zero(t, cs.creates)
}

func TestCreate_StoreFailureAbortsWithoutWrite(t *testing.T) {
	fs := &failingStore{err: errors.New("unavailable")}
	svc := NewService(fs, nil)

	_, err := svc.Create(context.Background(), Draft{CategoryID: "01", Question: "Q?", Options: []string{"a", "b", "c", "d"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, "unavailable")
	assert.Zero(t, fs.writes)

	_, err = svc.NextNumber(context.Background(), "01")
	assert.Error(t, err)
	_, err = svc.IsDuplicate(context.Background(), "Q?")
	assert.Error(t, err)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "01-01-20250101-000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_Defaults(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, "01-01-20250101-000000", map[string]any{"category_id": "01", "question": "Q?"})

	q, err := svc.Get(context.Background(), "01-01-20250101-000000")
	require.NoError(t, err)
	assert.Equal(t, difficulty.Default, q.Difficulty)
	assert.Equal(t, difficulty.Stats{}, q.AnswerStats)
}

func TestListByCategory_OrderedBySequence(t *testing.T) {
	svc, _ := newTestService(t)
	for _, id := range []string{"02-10-20250101-000000", "02-02-20250101-000000", "02-01-20250101-000000"} {
		seed(t, svc, id, map[string]any{"category_id": "02", "question": id})
	}

	qs, err := svc.ListByCategory(context.Background(), "02")
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, "02-01-20250101-000000", qs[0].ID)
	assert.Equal(t, "02-02-20250101-000000", qs[1].ID)
	assert.Equal(t, "02-10-20250101-000000", qs[2].ID)
}

func seedStats(t *testing.T, svc *Service, id string, d, correct, wrong int) {
	t.Helper()
	seed(t, svc, id, map[string]any{
		"category_id":  id[:2],
		"question":     "Q " + id,
		"difficulty":   d,
		"answer_stats": map[string]any{"correct": correct, "wrong": wrong},
	})
}

func TestAdjustDifficulty(t *testing.T) {
	tests := []struct {
		name           string
		difficulty     int
		correct, wrong int
		want           int
		changed, gated bool
	}{
		{"gated below sample", 3, 10, 5, 3, false, true},
		{"decrease", 4, 52, 48, 3, true, false},
		{"increase", 2, 40, 60, 3, true, false},
		{"dead zone", 3, 50, 50, 3, false, false},
		{"floor", 1, 95, 5, 1, false, false},
		{"cap", 5, 5, 95, 5, false, false},
		{"three gets easier", 3, 80, 20, 2, true, false},
		{"three gets harder", 3, 20, 80, 4, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, cs := newTestService(t)
			id := "05-01-20250101-000000"
			seedStats(t, svc, id, tt.difficulty, tt.correct, tt.wrong)

			adj, err := svc.AdjustDifficulty(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.difficulty, adj.Previous)
			assert.Equal(t, tt.want, adj.Current)
			assert.Equal(t, tt.changed, adj.Changed)
			assert.Equal(t, tt.gated, adj.Gated)

			got, err := svc.Get(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Difficulty)

			wantUpdates := 0
			if tt.changed {
				wantUpdates = 1
			}
			assert.Equal(t, wantUpdates, cs.updates, "write only when changed")
		})
	}
}

func TestAdjustDifficulty_Idempotent(t *testing.T) {
	svc, cs := newTestService(t)
	ctx := context.Background()
	id := "05-01-20250101-000000"
	seedStats(t, svc, id, 4, 52, 48)

	first, err := svc.AdjustDifficulty(ctx, id)
	require.NoError(t, err)
	require.True(t, first.Changed)
	assert.Equal(t, 1, cs.updates)

	second, err := svc.AdjustDifficulty(ctx, id)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.True(t, second.Settled)
	assert.Equal(t, 3, second.Current)
	assert.Equal(t, 1, cs.updates, "no further write with unchanged stats")

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Difficulty)
	assert.Equal(t, 100, got.GradedAt)
}

func TestAdjustDifficulty_ClampsStoredValue(t *testing.T) {
	svc, cs := newTestService(t)
	id := "05-01-20250101-000000"
	seedStats(t, svc, id, 9, 1, 1)

	adj, err := svc.AdjustDifficulty(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 9, adj.Previous)
	assert.Equal(t, 5, adj.Current)
	assert.True(t, adj.Changed)
	assert.Equal(t, 1, cs.updates)

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Difficulty)
}

func TestAdjustDifficulty_NotFound(t *testing.T) {
	svc, cs := newTestService(t)
	_, err := svc.AdjustDifficulty(context.Background(), "05-99-20250101-000000")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, cs.updates)
}

func TestRecordAnswer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := "05-01-20250101-000000"
	seedStats(t, svc, id, 4, 15, 4)

	// 19 answers: still gated.
	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 19, got.AnswerStats.Total())

	adj, err := svc.RecordAnswer(ctx, id, true)
	require.NoError(t, err)
	assert.Equal(t, difficulty.Stats{Correct: 16, Wrong: 4}, adj.Stats)
	assert.False(t, adj.Gated)
	assert.True(t, adj.Changed)
	assert.Equal(t, 3, adj.Current)

	adj, err = svc.RecordAnswer(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, difficulty.Stats{Correct: 16, Wrong: 5}, adj.Stats)
	// 16/21 is still above the easy threshold, and this is a new sample.
	assert.Equal(t, 2, adj.Current)
}

func TestRecordAnswer_Gated(t *testing.T) {
	svc, _ := newTestService(t)
	id := "05-01-20250101-000000"
	seedStats(t, svc, id, 3, 0, 0)

	adj, err := svc.RecordAnswer(context.Background(), id, false)
	require.NoError(t, err)
	assert.True(t, adj.Gated)
	assert.False(t, adj.Changed)
	assert.Equal(t, difficulty.Stats{Wrong: 1}, adj.Stats)
}

func TestRecordAnswer_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.RecordAnswer(context.Background(), "nope", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordAnswer_StoreFailure(t *testing.T) {
	svc := NewService(&failingStore{err: errors.New("unavailable")}, zap.NewNop())
	_, err := svc.RecordAnswer(context.Background(), "05-01-20250101-000000", true)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
