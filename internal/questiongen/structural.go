package questiongen

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxQuestionLength is the longest question text accepted, in characters.
const MaxQuestionLength = 300

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// StructuralValidator checks the shape of a candidate: a non-empty
// question within the length limit, exactly four distinct non-empty
// options and a correct index that points at one of them.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(c *Candidate, _ Input) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	if strings.TrimSpace(c.Question) == "" {
		return fail("question is empty")
	}
	if n := utf8.RuneCountInString(c.Question); n > MaxQuestionLength {
		return fail("question is %d characters, limit is %d", n, MaxQuestionLength)
	}
	if len(c.Options) != OptionCount {
		return fail("expected %d options, got %d", OptionCount, len(c.Options))
	}

	seen := make(map[string]bool, len(c.Options))
	for i, o := range c.Options {
		if strings.TrimSpace(o) == "" {
			return fail("option %d is empty", i)
		}
		key := strings.ToLower(o)
		if seen[key] {
			return fail("option %q appears twice", o)
		}
		seen[key] = true
	}

	if c.Correct < 0 || c.Correct >= OptionCount {
		return fail("correct index %d is out of range [0,%d]", c.Correct, OptionCount-1)
	}
	return nil
}
