package questiongen

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/thinxi/thinxi-admin/internal/llm"
)

// Parse error kinds. Every error returned by Parse wraps exactly one.
var (
	// ErrInvalidJSON means no JSON object could be decoded from the text
	// after fences and surrounding prose were removed.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrMissingField means a required field is absent or null.
	ErrMissingField = errors.New("missing required field")

	// ErrFieldType means a field holds the wrong JSON type.
	ErrFieldType = errors.New("field type mismatch")
)

// ParseError carries the kind of parse failure and where it happened.
type ParseError struct {
	Kind   error
	Field  string
	Detail string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse question: ")
	b.WriteString(e.Kind.Error())
	if e.Field != "" {
		fmt.Fprintf(&b, " %q", e.Field)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Kind }

// Parse extracts a Candidate from the model's free-form reply. It accepts
// a bare JSON object, one wrapped in markdown code fences, or one
// surrounded by prose. Field values are trimmed; validation of the
// question's shape is left to the Validator chain.
func Parse(text string) (*Candidate, error) {
	body := StripFences(text)

	start := strings.IndexByte(body, '{')
	end := strings.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, &ParseError{Kind: ErrInvalidJSON, Detail: "no JSON object in reply"}
	}
	body = body[start : end+1]

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, &ParseError{Kind: ErrInvalidJSON, Detail: err.Error()}
	}

	c := &Candidate{}
	var err error
	if c.Question, err = requiredString(fields, "question"); err != nil {
		return nil, err
	}
	if c.Options, err = requiredStrings(fields, "options"); err != nil {
		return nil, err
	}
	if c.Correct, err = requiredIndex(fields, "correct"); err != nil {
		return nil, err
	}
	if c.CategoryID, err = optionalString(fields, "category_id"); err != nil {
		return nil, err
	}
	if c.Category, err = optionalString(fields, "category"); err != nil {
		return nil, err
	}
	if c.SubCategory, err = optionalString(fields, "sub_category"); err != nil {
		return nil, err
	}
	return c, nil
}

// StripFences removes surrounding whitespace and a markdown code fence
// (```json ... ``` or ``` ... ```) if the text contains one.
func StripFences(text string) string {
	s := strings.TrimSpace(text)

	open := strings.Index(s, "```")
	if open < 0 {
		return s
	}
	inner := s[open+3:]
	// Drop the info string ("json", "JSON", ...) up to the end of the line.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && !strings.ContainsAny(inner[:nl], "{[") {
		inner = inner[nl+1:]
	} else {
		inner = strings.TrimPrefix(strings.TrimPrefix(inner, "json"), "JSON")
	}
	if closeIdx := strings.Index(inner, "```"); closeIdx >= 0 {
		inner = inner[:closeIdx]
	}
	return strings.TrimSpace(inner)
}

// IsMalformed reports whether err means the model's reply could not be
// turned into a valid question, as opposed to a service or store failure.
func IsMalformed(err error) bool {
	if errors.Is(err, ErrInvalidJSON) || errors.Is(err, ErrMissingField) || errors.Is(err, ErrFieldType) {
		return true
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return true
	}
	var invalid *llm.ErrInvalidResponse
	return errors.As(err, &invalid)
}

func requiredString(fields map[string]any, name string) (string, error) {
	v, ok := fields[name]
	if !ok || v == nil {
		return "", &ParseError{Kind: ErrMissingField, Field: name}
	}
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch(name, "string", v)
	}
	return strings.TrimSpace(s), nil
}

func optionalString(fields map[string]any, name string) (string, error) {
	if v, ok := fields[name]; !ok || v == nil {
		return "", nil
	}
	return requiredString(fields, name)
}

func requiredStrings(fields map[string]any, name string) ([]string, error) {
	v, ok := fields[name]
	if !ok || v == nil {
		return nil, &ParseError{Kind: ErrMissingField, Field: name}
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, typeMismatch(name, "array of strings", v)
	}
	out := make([]string, len(arr))
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, typeMismatch(fmt.Sprintf("%s[%d]", name, i), "string", item)
		}
		out[i] = strings.TrimSpace(s)
	}
	return out, nil
}

func requiredIndex(fields map[string]any, name string) (int, error) {
	v, ok := fields[name]
	if !ok || v == nil {
		return 0, &ParseError{Kind: ErrMissingField, Field: name}
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, typeMismatch(name, "integer", v)
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, &ParseError{Kind: ErrFieldType, Field: name, Detail: fmt.Sprintf("want integer, got %s", num)}
	}
	return int(f), nil
}

func typeMismatch(field, want string, got any) error {
	return &ParseError{Kind: ErrFieldType, Field: field, Detail: fmt.Sprintf("want %s, got %s", want, jsonType(got))}
}

func jsonType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "null"
	}
}
