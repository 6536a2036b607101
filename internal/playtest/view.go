package playtest

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/thinxi/thinxi-admin/internal/difficulty"
	"github.com/thinxi/thinxi-admin/internal/questions"
	"github.com/thinxi/thinxi-admin/internal/ui/components"
	"github.com/thinxi/thinxi-admin/internal/ui/layout"
	"github.com/thinxi/thinxi-admin/internal/ui/theme"
)

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current terminal size.
func (m *Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	header := layout.RenderHeader(m.title(), m.score(), m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)
	return layout.RenderFrame(header, m.body(), footer, m.width, m.height)
}

func (m *Model) title() string {
	if m.phase == phasePick || m.category.ID == "" {
		return "Play-test"
	}
	return m.category.Name
}

func (m *Model) score() string {
	if m.answered == 0 {
		return ""
	}
	return fmt.Sprintf("✓ %d/%d", m.correct, m.answered)
}

func (m *Model) body() string {
	var b strings.Builder
	if m.errMsg != "" {
		b.WriteString(theme.Warning.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	switch m.phase {
	case phasePick:
		b.WriteString(theme.Title.Render("Pick a category"))
		b.WriteString("\n\n")
		b.WriteString(m.menu.View())
	case phaseLoading:
		b.WriteString(theme.Hint.Render("Loading " + m.category.Name + "..."))
	case phaseQuestion, phaseRecording, phaseFeedback:
		b.WriteString(m.questionView())
	case phaseJump:
		b.WriteString(theme.Body.Render("Go to question number:"))
		b.WriteString("\n\n")
		b.WriteString(m.jump.View())
	}

	width := min(max(m.width-4, 20), 80)
	return lipgloss.NewStyle().Padding(1, 2).Width(width).Render(b.String())
}

func (m *Model) questionView() string {
	q := m.current()
	if q == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Dim.Render(q.ID))
	b.WriteString("   ")
	b.WriteString(theme.DifficultyStyle(q.Difficulty).Render(fmt.Sprintf("difficulty %d", q.Difficulty)))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar(
		fmt.Sprintf("%d/%d", m.index+1, len(m.list)),
		float64(m.index+1)/float64(len(m.list)),
		false, 40,
	).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Card.Render(m.choice.View()))

	switch m.phase {
	case phaseRecording:
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Recording answer..."))
	case phaseFeedback:
		b.WriteString("\n")
		b.WriteString(m.feedbackView())
	}
	return b.String()
}

func (m *Model) feedbackView() string {
	var b strings.Builder
	if m.choice.IsCorrect() {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Wrong. "))
		b.WriteString(theme.Body.Render("Answer: " + m.current().Answer()))
	}
	if m.last != nil {
		b.WriteString("\n")
		b.WriteString(theme.Dim.Render(describeAdjustment(m.last)))
	}
	return b.String()
}

func describeAdjustment(adj *questions.Adjustment) string {
	s := adj.Stats
	stats := fmt.Sprintf("%d answers, %.0f%% correct", s.Total(), s.Accuracy())
	switch {
	case adj.Gated:
		return fmt.Sprintf("%s. Difficulty %d is held until %d answers.", stats, adj.Current, difficulty.MinSample)
	case adj.Changed:
		return fmt.Sprintf("%s. Difficulty %d → %d.", stats, adj.Previous, adj.Current)
	default:
		return fmt.Sprintf("%s. Difficulty stays %d.", stats, adj.Current)
	}
}
