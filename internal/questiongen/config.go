package questiongen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every parsed candidate; the first
	// failure stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the reply.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps the "already asked" list in the prompt.
	MaxPriorQuestions int

	// StructuredOutput sends QuestionSchema with the request so the
	// provider returns schema-validated JSON. The reply still goes through
	// Parse.
	StructuredOutput bool

	// Timeout bounds one Generate call, retries included. Zero means no
	// bound beyond the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
		},
		MaxTokens:         1024,
		Temperature:       0.9,
		MaxPriorQuestions: 30,
	}
}
