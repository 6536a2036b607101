package questiongen

import (
	"context"
	"fmt"

	"github.com/thinxi/thinxi-admin/internal/llm"
)

// Purpose labels question-generation requests in the LLM event log.
const Purpose = "question-gen"

// LLMGenerator implements Generator using an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate asks the model for one question in input's category, parses
// the reply and runs the validator chain. Parse and validation failures
// satisfy IsMalformed.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*Candidate, error) {
	ctx = llm.WithPurpose(ctx, Purpose)
	ctx = llm.WithTopic(ctx, llm.Topic{ID: input.CategoryID, Name: input.Category})
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	if g.config.StructuredOutput {
		req.Schema = QuestionSchema
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	c, err := Parse(resp.Text())
	if err != nil {
		return nil, err
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(c, input); verr != nil {
			return nil, verr
		}
	}

	return c, nil
}
