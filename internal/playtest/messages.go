package playtest

import "github.com/thinxi/thinxi-admin/internal/questions"

// categoryChosenMsg is sent when a category is picked from the menu.
type categoryChosenMsg struct {
	Category questions.Category
}

// questionsLoadedMsg carries the questions of the chosen category.
type questionsLoadedMsg struct {
	Questions []*questions.Question
	Err       error
}

// answerRecordedMsg is sent once an answer has been written and the
// question re-graded.
type answerRecordedMsg struct {
	Adjustment *questions.Adjustment
	Err        error
}
