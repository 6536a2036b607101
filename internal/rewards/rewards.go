// Package rewards holds the reward task catalogue and uploads it to the
// document store.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/thinxi/thinxi-admin/internal/docstore"
)

// DefaultCollection is the document collection holding reward tasks.
const DefaultCollection = "reward_tasks"

// Cadence is how often a task resets.
type Cadence string

const (
	Daily   Cadence = "daily"
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
)

// Cadences lists the valid cadences in display order.
var Cadences = []Cadence{Daily, Weekly, Monthly}

// Valid reports whether c is a known cadence.
func (c Cadence) Valid() bool {
	switch c {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Task is a reward task definition. ID is the human key the client app
// matches on; it is stored as a field, not as the document id.
type Task struct {
	ID          string
	Title       string
	Description string
	Reward      int
	Trigger     string
	Type        Cadence
}

// Fields returns the document written for t, with the active flag set.
func (t Task) Fields() map[string]any {
	return map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"reward":      t.Reward,
		"trigger":     t.Trigger,
		"type":        string(t.Type),
		"active":      true,
	}
}

// Validate checks a task list: non-empty unique keys, a known cadence, a
// positive reward and a non-empty trigger. All problems are reported.
func Validate(tasks []Task) error {
	var errs []error
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		key := t.ID
		if strings.TrimSpace(key) == "" {
			errs = append(errs, fmt.Errorf("task %d: empty id", i))
			key = fmt.Sprintf("#%d", i)
		} else if seen[key] {
			errs = append(errs, fmt.Errorf("task %s: duplicate id", key))
		}
		seen[key] = true

		if !t.Type.Valid() {
			errs = append(errs, fmt.Errorf("task %s: unknown type %q", key, t.Type))
		}
		if t.Reward <= 0 {
			errs = append(errs, fmt.Errorf("task %s: reward must be positive, got %d", key, t.Reward))
		}
		if strings.TrimSpace(t.Trigger) == "" {
			errs = append(errs, fmt.Errorf("task %s: empty trigger", key))
		}
	}
	return errors.Join(errs...)
}

// Uploader writes reward tasks to a document store.
type Uploader struct {
	store      docstore.Store
	log        *zap.Logger
	collection string
}

// NewUploader creates an Uploader writing to collection. An empty
// collection means DefaultCollection.
func NewUploader(store docstore.Store, log *zap.Logger, collection string) *Uploader {
	if collection == "" {
		collection = DefaultCollection
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{store: store, log: log, collection: collection}
}

// Upload writes each task as a new document under a generated id. There
// is no deduplication: uploading twice stores every task twice. It stops
// at the first failed write and returns how many tasks were written.
func (u *Uploader) Upload(ctx context.Context, tasks []Task) (int, error) {
	for i, t := range tasks {
		docID, err := u.store.Add(ctx, u.collection, t.Fields())
		if err != nil {
			return i, fmt.Errorf("upload task %s: %w", t.ID, err)
		}
		u.log.Debug("reward task uploaded", zap.String("task", t.ID), zap.String("doc", docID))
	}
	u.log.Info("reward tasks uploaded", zap.Int("count", len(tasks)), zap.String("collection", u.collection))
	return len(tasks), nil
}

// Filter returns the tasks with the given cadence, in order.
func Filter(tasks []Task, c Cadence) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Type == c {
			out = append(out, t)
		}
	}
	return out
}
