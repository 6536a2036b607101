package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write questions for a multiple-choice trivia game played by adults.

Rules:
- Write exactly one question about the requested topic.
- Provide exactly 4 answer options. Exactly one is correct and the other three are plausible.
- Shuffle the options so the correct answer is not always in the same position.
- "correct" is the zero-based index (0 to 3) of the correct option.
- Keep the question under 300 characters and each option short.
- Reply with a single JSON object only, no commentary.
- Do not repeat any question from the "already asked" list.`

// exampleReply shows the expected reply shape. Values are illustrative.
const exampleReply = `{
  "question": "What is the capital of France?",
  "options": ["Berlin", "Madrid", "Paris", "Rome"],
  "correct": 2,
  "category_id": "%s",
  "category": "%s",
  "sub_category": "%s"
}`

// buildUserMessage constructs the user message for one generation request.
func buildUserMessage(input Input, cfg Config) string {
	topic := input.SubCategory
	if topic == "" {
		topic = input.Category
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Generate a unique multiple-choice question about %s.\n", topic)
	fmt.Fprintf(&b, "Category: %s (%s)\n", input.Category, input.CategoryID)
	b.WriteString("\nReply format (JSON only):\n")
	fmt.Fprintf(&b, exampleReply, input.CategoryID, input.Category, topic)

	b.WriteString("\n\nAlready asked in this category:\n")
	b.WriteString(buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))

	return b.String()
}

// buildDedup formats prior questions for the prompt, keeping the most
// recent max entries. Returns "None" when there are none.
func buildDedup(priorQuestions []string, max int) string {
	if len(priorQuestions) == 0 {
		return "None"
	}
	if max > 0 && len(priorQuestions) > max {
		priorQuestions = priorQuestions[len(priorQuestions)-max:]
	}

	var b strings.Builder
	for i, q := range priorQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
