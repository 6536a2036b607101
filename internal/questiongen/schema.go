package questiongen

import "github.com/thinxi/thinxi-admin/internal/llm"

// QuestionSchema is the structured-output schema for a trivia question.
var QuestionSchema = &llm.Schema{
	Name:        "trivia-question",
	Description: "A single multiple-choice trivia question with four options",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question shown to the player",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    OptionCount,
				"maxItems":    OptionCount,
				"description": "Exactly 4 answer options in shuffled order",
			},
			"correct": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     OptionCount - 1,
				"description": "Zero-based index of the correct option",
			},
			"category_id": map[string]any{
				"type":        "string",
				"description": "Two-digit category code from the request",
			},
			"category": map[string]any{
				"type":        "string",
				"description": "Category name from the request",
			},
			"sub_category": map[string]any{
				"type":        "string",
				"description": "Topic from the request",
			},
		},
		"required":             []any{"question", "options", "correct", "category_id", "category", "sub_category"},
		"additionalProperties": false,
	},
}
