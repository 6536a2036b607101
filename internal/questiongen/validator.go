package questiongen

import "fmt"

// Validator checks a parsed candidate before it is handed to the caller.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name is a short identifier used in errors and logs.
	Name() string

	// Validate returns nil if the candidate passes.
	Validate(c *Candidate, input Input) *ValidationError
}

// ValidationError describes why a candidate failed validation.
type ValidationError struct {
	Validator string
	Message   string
	// Retryable reports whether regenerating is likely to fix it.
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
