package questiongen

import "context"

// Generator produces trivia questions using an LLM provider.
type Generator interface {
	// Generate produces a single candidate question for the given input.
	// All configured validators run before it returns.
	Generate(ctx context.Context, input Input) (*Candidate, error)
}

// Input holds the context for one generation request.
type Input struct {
	// CategoryID is the two-digit category code, e.g. "05".
	CategoryID string

	// Category is the display name, e.g. "Science & Technology".
	Category string

	// SubCategory is the topic named in the prompt. Equal to Category
	// for every stored question today.
	SubCategory string

	// PriorQuestions are texts already stored in the category, oldest
	// first. The most recent ones are listed in the prompt as already asked.
	PriorQuestions []string
}

// Candidate is a parsed and validated question that has not been stored.
type Candidate struct {
	Question string
	Options  []string
	// Correct is the index of the right option in Options.
	Correct int

	// Category fields as returned by the model. Callers overwrite them
	// with the values they asked for.
	CategoryID  string
	Category    string
	SubCategory string
}

// Answer returns the text of the correct option.
func (c *Candidate) Answer() string {
	if c.Correct < 0 || c.Correct >= len(c.Options) {
		return ""
	}
	return c.Options[c.Correct]
}
