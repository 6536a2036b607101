// Package playtest is an interactive terminal quiz over the question
// bank. Every answer is recorded against the stored question, so a
// play-test session feeds the same answer stats and difficulty re-grade
// the game does.
package playtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thinxi/thinxi-admin/internal/questions"
	"github.com/thinxi/thinxi-admin/internal/ui/components"
	"github.com/thinxi/thinxi-admin/internal/ui/layout"
)

// Bank is the part of the question service the quiz needs.
type Bank interface {
	ListByCategory(ctx context.Context, categoryID string) ([]*questions.Question, error)
	RecordAnswer(ctx context.Context, id string, correct bool) (*questions.Adjustment, error)
}

type phase int

const (
	phasePick phase = iota
	phaseLoading
	phaseQuestion
	phaseRecording
	phaseFeedback
	phaseJump
)

// callTimeout bounds each store round trip made from the UI.
const callTimeout = 15 * time.Second

// Model is the root Bubble Tea model of the quiz.
type Model struct {
	ctx    context.Context
	bank   Bank
	width  int
	height int

	phase    phase
	menu     components.Menu
	category questions.Category
	list     []*questions.Question
	index    int
	choice   components.MultiChoice
	jump     components.TextInput
	last     *questions.Adjustment
	errMsg   string

	answered int
	correct  int
}

// New creates the quiz. Store calls run under ctx. When categoryID names
// a category the menu is skipped and that category loads immediately.
func New(ctx context.Context, bank Bank, categoryID string) *Model {
	m := &Model{
		ctx:  ctx,
		bank: bank,
		menu: categoryMenu(),
		jump: components.NewTextInput("question number", true, 4),
	}
	if cat, err := questions.LookupCategory(categoryID); err == nil {
		m.category = cat
		m.phase = phaseLoading
	}
	return m
}

func categoryMenu() components.Menu {
	cats := questions.Categories()
	items := make([]components.MenuItem, 0, len(cats))
	for _, c := range cats {
		items = append(items, components.MenuItem{
			Label: c.ID + "  " + c.Name,
			Action: func() tea.Cmd {
				return func() tea.Msg { return categoryChosenMsg{Category: c} }
			},
		})
	}
	return components.NewMenu(items)
}

func (m *Model) Init() tea.Cmd {
	if m.phase == phaseLoading {
		return m.load(m.category.ID)
	}
	return nil
}

func (m *Model) load(categoryID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, callTimeout)
		defer cancel()
		qs, err := m.bank.ListByCategory(ctx, categoryID)
		return questionsLoadedMsg{Questions: qs, Err: err}
	}
}

func (m *Model) record(id string, correct bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, callTimeout)
		defer cancel()
		adj, err := m.bank.RecordAnswer(ctx, id, correct)
		return answerRecordedMsg{Adjustment: adj, Err: err}
	}
}

// current returns the question on screen, or nil.
func (m *Model) current() *questions.Question {
	if m.index < 0 || m.index >= len(m.list) {
		return nil
	}
	return m.list[m.index]
}

func (m *Model) show(i int) {
	m.index = i
	m.last = nil
	m.errMsg = ""
	if q := m.current(); q != nil {
		m.choice = components.NewMultiChoice(q.Question, q.Options, q.Correct)
		m.phase = phaseQuestion
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case categoryChosenMsg:
		m.category = msg.Category
		m.phase = phaseLoading
		return m, m.load(msg.Category.ID)

	case questionsLoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			m.phase = phasePick
			return m, nil
		}
		m.list = msg.Questions
		if len(m.list) == 0 {
			m.errMsg = fmt.Sprintf("No questions in %s yet.", m.category.Name)
			m.phase = phasePick
			return m, nil
		}
		m.show(0)
		return m, nil

	case answerRecordedMsg:
		m.phase = phaseFeedback
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.last = msg.Adjustment
		if q := m.current(); q != nil && msg.Adjustment != nil {
			q.Difficulty = msg.Adjustment.Current
			q.AnswerStats = msg.Adjustment.Stats
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseJump {
		var cmd tea.Cmd
		m.jump, cmd = m.jump.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case phasePick:
		if key == "q" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd

	case phaseQuestion:
		switch key {
		case "esc":
			m.phase = phasePick
			return m, nil
		case "g":
			m.jump.Reset()
			m.phase = phaseJump
			return m, nil
		case "s":
			m.show((m.index + 1) % len(m.list))
			return m, nil
		}
		var cmd tea.Cmd
		m.choice, cmd = m.choice.Update(msg)
		if m.choice.Submitted {
			correct := m.choice.IsCorrect()
			m.answered++
			if correct {
				m.correct++
			}
			m.phase = phaseRecording
			return m, tea.Batch(cmd, m.record(m.current().ID, correct))
		}
		return m, cmd

	case phaseFeedback:
		switch key {
		case "q":
			return m, tea.Quit
		case "esc":
			m.phase = phasePick
		case "n", "enter", "space":
			m.show((m.index + 1) % len(m.list))
		}
		return m, nil

	case phaseJump:
		switch key {
		case "esc":
			m.phase = phaseQuestion
			return m, nil
		case "enter":
			m.jumpTo()
			return m, nil
		}
		var cmd tea.Cmd
		m.jump, cmd = m.jump.Update(msg)
		return m, cmd
	}
	return m, nil
}

// jumpTo moves to the question whose sequence number was typed.
func (m *Model) jumpTo() {
	n, err := m.jump.NumericValue()
	m.phase = phaseQuestion
	if err != nil {
		return
	}
	for i, q := range m.list {
		if seq, ok := questions.ParseSequence(q.ID, m.category.ID); ok && seq == n {
			m.show(i)
			return
		}
	}
	m.errMsg = fmt.Sprintf("No question number %d in %s.", n, m.category.Name)
}

func (m *Model) keyHints() []layout.KeyHint {
	switch m.phase {
	case phasePick:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Play category"},
			{Key: "q", Description: "Quit"},
		}
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "A-D", Description: "Answer"},
			{Key: "s", Description: "Skip"},
			{Key: "g", Description: "Go to #"},
			{Key: "Esc", Description: "Categories"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "n", Description: "Next"},
			{Key: "Esc", Description: "Categories"},
			{Key: "q", Description: "Quit"},
		}
	case phaseJump:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Go"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return nil
}

// Run starts the quiz in the alternate screen and blocks until it exits.
func Run(ctx context.Context, bank Bank, categoryID string) error {
	_, err := tea.NewProgram(New(ctx, bank, categoryID), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
