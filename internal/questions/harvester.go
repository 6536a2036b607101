package questions

import (
	"context"
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/thinxi/thinxi-admin/internal/questiongen"
)

// Outcome classifies one generation round.
type Outcome string

const (
	OutcomeSaved     Outcome = "saved"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeMalformed Outcome = "malformed"
	OutcomeFailed    Outcome = "failed"
)

// Recorder receives one observation per generation round.
type Recorder interface {
	Observe(outcome Outcome, categoryID string)
}

// HarvestConfig controls a generation batch.
type HarvestConfig struct {
	// CategoryID pins every round to one category. Empty picks a random
	// category per round.
	CategoryID string

	// Rate caps rounds per second. Zero or negative is unlimited.
	Rate float64
}

// Result is the outcome of one round. Question is set when saved; Err is
// set for every outcome except saved.
type Result struct {
	Outcome    Outcome
	CategoryID string
	Question   *Question
	Err        error
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Saved     int
	Duplicate int
	Malformed int
	Failed    int
}

// Total returns the number of rounds run.
func (s Summary) Total() int {
	return s.Saved + s.Duplicate + s.Malformed + s.Failed
}

func (s *Summary) add(o Outcome) {
	switch o {
	case OutcomeSaved:
		s.Saved++
	case OutcomeDuplicate:
		s.Duplicate++
	case OutcomeMalformed:
		s.Malformed++
	default:
		s.Failed++
	}
}

// ErrDuplicate is the Result error for a generated question whose text is
// already stored.
var ErrDuplicate = errors.New("duplicate question")

// Harvester generates questions and stores the new ones.
type Harvester struct {
	svc      *Service
	gen      questiongen.Generator
	log      *zap.Logger
	cfg      HarvestConfig
	recorder Recorder
	pick     func() Category
}

// NewHarvester creates a Harvester. recorder may be nil.
func NewHarvester(svc *Service, gen questiongen.Generator, log *zap.Logger, cfg HarvestConfig, recorder Recorder) *Harvester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Harvester{
		svc:      svc,
		gen:      gen,
		log:      log,
		cfg:      cfg,
		recorder: recorder,
		pick: func() Category {
			return categories[rand.IntN(len(categories))]
		},
	}
}

// RunOnce runs one round: generate a question for a category, discard it
// if the text is already stored, otherwise number and save it.
func (h *Harvester) RunOnce(ctx context.Context) Result {
	res := h.runOnce(ctx)
	if h.recorder != nil {
		h.recorder.Observe(res.Outcome, res.CategoryID)
	}

	fields := []zap.Field{zap.String("outcome", string(res.Outcome)), zap.String("category", res.CategoryID)}
	switch res.Outcome {
	case OutcomeSaved:
		h.log.Debug("round complete", append(fields, zap.String("id", res.Question.ID))...)
	case OutcomeDuplicate:
		h.log.Info("duplicate question discarded", fields...)
	default:
		h.log.Warn("round failed", append(fields, zap.Error(res.Err))...)
	}
	return res
}

func (h *Harvester) runOnce(ctx context.Context) Result {
	var cat Category
	if h.cfg.CategoryID == "" {
		cat = h.pick()
	} else {
		c, err := LookupCategory(h.cfg.CategoryID)
		if err != nil {
			return Result{Outcome: OutcomeFailed, CategoryID: h.cfg.CategoryID, Err: err}
		}
		cat = c
	}
	res := Result{CategoryID: cat.ID}

	existing, err := h.svc.ListByCategory(ctx, cat.ID)
	if err != nil {
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}
	prior := make([]string, len(existing))
	for i, q := range existing {
		prior[i] = q.Question
	}

	cand, err := h.gen.Generate(ctx, questiongen.Input{
		CategoryID:     cat.ID,
		Category:       cat.Name,
		SubCategory:    cat.Name,
		PriorQuestions: prior,
	})
	if err != nil {
		res.Outcome, res.Err = OutcomeFailed, err
		if questiongen.IsMalformed(err) {
			res.Outcome = OutcomeMalformed
		}
		return res
	}

	dup, err := h.svc.IsDuplicate(ctx, cand.Question)
	if err != nil {
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}
	if dup {
		res.Outcome, res.Err = OutcomeDuplicate, ErrDuplicate
		return res
	}

	q, err := h.svc.Create(ctx, Draft{
		CategoryID: cat.ID,
		Question:   cand.Question,
		Options:    cand.Options,
		Correct:    cand.Correct,
	})
	if err != nil {
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}

	res.Outcome, res.Question = OutcomeSaved, q
	return res
}

// Run runs n rounds, paced by the configured rate. Failed, malformed and
// duplicate rounds do not stop the batch; a cancelled context does.
// onResult, if non-nil, is called after every round.
func (h *Harvester) Run(ctx context.Context, n int, onResult func(Result)) (Summary, error) {
	limit := rate.Inf
	if h.cfg.Rate > 0 {
		limit = rate.Limit(h.cfg.Rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	var sum Summary
	for range n {
		if err := limiter.Wait(ctx); err != nil {
			return sum, err
		}
		res := h.RunOnce(ctx)
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.add(res.Outcome)
		if onResult != nil {
			onResult(res)
		}
	}
	return sum, nil
}
