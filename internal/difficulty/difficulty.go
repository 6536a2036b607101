// Package difficulty holds the difficulty policy for trivia questions:
// the starting bucket for a new question and the adaptive re-grade driven
// by answer statistics.
package difficulty

const (
	// Min is the easiest difficulty.
	Min = 1
	// Max is the hardest difficulty.
	Max = 5
	// Default is assumed when a stored question carries no difficulty.
	Default = 3

	// MinSample is the number of answers required before a question is re-graded.
	MinSample = 20

	// EasyAbove is the accuracy (percent) above which a question at or
	// above Default is judged too easy.
	EasyAbove = 51.0
	// HardBelow is the accuracy (percent) below which a question at or
	// below Default is judged too hard.
	HardBelow = 49.0
)

// Stats are the running answer counts of a question.
type Stats struct {
	Correct int `mapstructure:"correct"`
	Wrong   int `mapstructure:"wrong"`
}

// Total returns the number of recorded answers.
func (s Stats) Total() int {
	return s.Correct + s.Wrong
}

// Accuracy returns the percentage of correct answers, or 0 with no answers.
func (s Stats) Accuracy() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(total) * 100
}

// Initial computes the starting difficulty for the next question in a
// category that already holds total questions. The new question's
// zero-based position is scaled into five buckets over a window of at
// least five questions, so an empty category starts at Min and the
// bucket only rises as the category fills.
func Initial(total int) int {
	if total < 0 {
		total = 0
	}
	window := max(total+1, 5)
	bucket := total*5/window + 1
	return Clamp(bucket)
}

// Adjust re-grades a question. It returns the new difficulty and whether
// it differs from current. Below MinSample answers nothing changes.
//
// Questions at 4-5 can only get easier, 1-2 only harder, and 3 is tested
// against both thresholds. Accuracy between HardBelow and EasyAbove
// leaves the difficulty alone.
func Adjust(current int, stats Stats) (int, bool) {
	current = Clamp(current)
	if stats.Total() < MinSample {
		return current, false
	}

	accuracy := stats.Accuracy()
	next := current
	switch {
	case current >= Default && accuracy > EasyAbove:
		next = max(current-1, Min)
	case current <= Default && accuracy < HardBelow:
		next = min(current+1, Max)
	}
	return next, next != current
}

// Clamp limits d to [Min, Max].
func Clamp(d int) int {
	return min(max(d, Min), Max)
}
