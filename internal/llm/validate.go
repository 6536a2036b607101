package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemas holds compiled schemas by Schema.Name.
var schemas = &schemaRegistry{compiled: make(map[string]*jsonschema.Schema)}

type schemaRegistry struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// get returns the compiled form of s, compiling it on first use.
func (r *schemaRegistry) get(s *Schema) (*jsonschema.Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sch, ok := r.compiled[s.Name]; ok {
		return sch, nil
	}

	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", s.Name, err)
	}

	url := "schema://" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
	r.compiled[s.Name] = sch
	return sch, nil
}

// validateResponse checks a structured reply against its schema. A nil
// schema accepts anything. Failures are *ErrInvalidResponse carrying the
// raw reply.
func validateResponse(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	invalid := func(err error) error {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid(fmt.Errorf("reply is not JSON: %w", err))
	}
	sch, err := schemas.get(s)
	if err != nil {
		return invalid(err)
	}
	if err := sch.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return invalid(fmt.Errorf("reply does not match %s (%s): %w", s.Name, failedFields(verr), err))
		}
		return invalid(fmt.Errorf("reply does not match %s: %w", s.Name, err))
	}
	return nil
}

// failedFields lists the failing locations of a validation error as
// "/options: minItems", one per leaf cause.
func failedFields(verr *jsonschema.ValidationError) string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		loc := "/" + strings.Join(e.InstanceLocation, "/")
		out = append(out, loc+": "+strings.Join(e.ErrorKind.KeywordPath(), "/"))
	}
	walk(verr)
	slices.Sort(out)
	return strings.Join(slices.Compact(out), ", ")
}
