// Package questions manages the trivia question collection: numbering and
// initial difficulty of new questions, duplicate detection, answer
// recording and the adaptive difficulty re-grade.
package questions

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/thinxi/thinxi-admin/internal/difficulty"
	"github.com/thinxi/thinxi-admin/internal/docstore"
)

// DefaultCollection is the document collection holding questions.
const DefaultCollection = "questions"

// ErrNotFound is returned when a question id does not exist.
var ErrNotFound = errors.New("question not found")

// Service reads and writes questions in a document store.
type Service struct {
	store      docstore.Store
	log        *zap.Logger
	collection string
	timeout    time.Duration
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCollection overrides the collection name.
func WithCollection(name string) Option {
	return func(s *Service) { s.collection = name }
}

// WithTimeout bounds every store call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithClock replaces the clock used for question ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service on store.
func NewService(store docstore.Store, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		log:        log,
		collection: DefaultCollection,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Draft is a question ready to be stored. Numbering, difficulty and answer
// stats are filled in by Create.
type Draft struct {
	CategoryID string
	Question   string
	Options    []string
	Correct    int
}

// Adjustment reports the outcome of a difficulty re-grade.
type Adjustment struct {
	QuestionID string
	Previous   int
	Current    int
	Stats      difficulty.Stats
	Changed    bool
	// Gated is set when the question has fewer than difficulty.MinSample answers.
	Gated bool
	// Settled is set when the question was already re-graded at this
	// answer total.
	Settled bool
}

func (s *Service) call(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *Service) queryCategory(ctx context.Context, categoryID string) ([]docstore.Document, error) {
	ctx, cancel := s.call(ctx)
	defer cancel()

	docs, err := s.store.Query(ctx, s.collection, docstore.Query{Field: "category_id", Value: categoryID})
	if err != nil {
		return nil, fmt.Errorf("query category %s: %w", categoryID, err)
	}
	return docs, nil
}

// nextSequence returns max(sequence)+1 over the conforming ids, or 1.
func nextSequence(docs []docstore.Document, categoryID string) int {
	highest := 0
	for _, d := range docs {
		if n, ok := ParseSequence(d.ID, categoryID); ok && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// NextNumber returns the zero-padded sequence number for the next question
// in the category: "01" for an empty category, otherwise one past the
// highest number among the category's ids.
func (s *Service) NextNumber(ctx context.Context, categoryID string) (string, error) {
	docs, err := s.queryCategory(ctx, categoryID)
	if err != nil {
		return "", err
	}
	return FormatSequence(nextSequence(docs, categoryID)), nil
}

// AssignDifficulty returns the starting difficulty for the next question
// in the category.
func (s *Service) AssignDifficulty(ctx context.Context, categoryID string) (int, error) {
	docs, err := s.queryCategory(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	return difficulty.Initial(len(docs)), nil
}

// IsDuplicate reports whether a question with exactly this text is stored.
// The comparison is case-sensitive and the check is advisory: two
// concurrent writers can both see false.
func (s *Service) IsDuplicate(ctx context.Context, text string) (bool, error) {
	ctx, cancel := s.call(ctx)
	defer cancel()

	docs, err := s.store.Query(ctx, s.collection, docstore.Query{Field: "question", Value: text, Limit: 1})
	if err != nil {
		return false, fmt.Errorf("duplicate check: %w", err)
	}
	return len(docs) > 0, nil
}

// Get loads a question by id.
func (s *Service) Get(ctx context.Context, id string) (*Question, error) {
	ctx, cancel := s.call(ctx)
	defer cancel()

	doc, err := s.store.Get(ctx, s.collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load question %s: %w", id, err)
	}
	return decodeQuestion(*doc)
}

// ListByCategory returns the category's questions ordered by sequence.
func (s *Service) ListByCategory(ctx context.Context, categoryID string) ([]*Question, error) {
	docs, err := s.queryCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	out := make([]*Question, 0, len(docs))
	for _, d := range docs {
		q, err := decodeQuestion(d)
		if err != nil {
			s.log.Warn("skipping undecodable question", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		out = append(out, q)
	}
	slices.SortFunc(out, func(a, b *Question) int {
		na, _ := ParseSequence(a.ID, categoryID)
		nb, _ := ParseSequence(b.ID, categoryID)
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Create numbers the draft, assigns its starting difficulty and writes it
// with zeroed answer stats. The write fails rather than overwrite if the
// id is already taken.
func (s *Service) Create(ctx context.Context, d Draft) (*Question, error) {
	cat, err := LookupCategory(d.CategoryID)
	if err != nil {
		return nil, err
	}

	docs, err := s.queryCategory(ctx, cat.ID)
	if err != nil {
		return nil, err
	}

	q := &Question{
		ID:          FormatID(cat.ID, FormatSequence(nextSequence(docs, cat.ID)), s.now()),
		CategoryID:  cat.ID,
		Category:    cat.Name,
		SubCategory: cat.Name,
		Question:    d.Question,
		Options:     d.Options,
		Correct:     d.Correct,
		Difficulty:  difficulty.Initial(len(docs)),
	}

	wctx, cancel := s.call(ctx)
	defer cancel()
	if err := s.store.Create(wctx, s.collection, q.ID, q.Fields()); err != nil {
		return nil, fmt.Errorf("save question %s: %w", q.ID, err)
	}

	s.log.Info("question saved",
		zap.String("id", q.ID),
		zap.String("category", cat.Name),
		zap.Int("difficulty", q.Difficulty),
	)
	return q, nil
}

// RecordAnswer atomically counts one answer to the question and then
// re-grades its difficulty.
func (s *Service) RecordAnswer(ctx context.Context, id string, correct bool) (*Adjustment, error) {
	path := "answer_stats.wrong"
	if correct {
		path = "answer_stats.correct"
	}

	ictx, cancel := s.call(ctx)
	err := s.store.Increment(ictx, s.collection, id, path, 1)
	cancel()
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("record answer for %s: %w", id, err)
	}

	s.log.Debug("answer recorded", zap.String("id", id), zap.Bool("correct", correct))
	return s.AdjustDifficulty(ctx, id)
}

// AdjustDifficulty re-grades the question from its current answer stats
// and writes the new difficulty if it changed. Running it again without
// new answers writes nothing. A stored difficulty outside the valid range
// is clamped and written back.
func (s *Service) AdjustDifficulty(ctx context.Context, id string) (*Adjustment, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := q.AnswerStats
	current := difficulty.Clamp(q.Difficulty)
	adj := &Adjustment{
		QuestionID: id,
		Previous:   q.Difficulty,
		Current:    current,
		Stats:      stats,
		Gated:      stats.Total() < difficulty.MinSample,
	}

	fields := map[string]any{}
	if current != q.Difficulty {
		fields["difficulty"] = current
	}

	if q.GradedAt > 0 && q.GradedAt == stats.Total() {
		adj.Settled = true
	} else if next, changed := difficulty.Adjust(current, stats); changed {
		adj.Current = next
		fields["difficulty"] = next
		fields["graded_at"] = stats.Total()
	}
	adj.Changed = adj.Current != adj.Previous

	if len(fields) == 0 {
		return adj, nil
	}

	uctx, cancel := s.call(ctx)
	defer cancel()
	if err := s.store.Update(uctx, s.collection, id, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("update difficulty for %s: %w", id, err)
	}

	s.log.Info("difficulty changed",
		zap.String("id", id),
		zap.Int("from", adj.Previous),
		zap.Int("to", adj.Current),
		zap.Float64("accuracy", stats.Accuracy()),
		zap.Int("answers", stats.Total()),
	)
	return adj, nil
}
