// Package quiztui runs the placement quiz as an interactive terminal program.
package quiztui

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnpath/internal/quiz"
	"github.com/abhisek/learnpath/internal/ui/components"
	"github.com/abhisek/learnpath/internal/ui/layout"
	"github.com/abhisek/learnpath/internal/ui/theme"
)

// ErrAborted is returned by Run when the learner quits before answering
// every question.
var ErrAborted = errors.New("quiz aborted")

// Model walks through the question bank one question at a time.
type Model struct {
	questions []quiz.Question
	idx       int
	choice    components.MultiChoice
	answers   quiz.Answers
	width     int
	height    int
	done      bool
	aborted   bool
}

// New returns a model positioned on the first question.
func New() Model {
	m := Model{questions: quiz.Questions(), answers: quiz.Answers{}}
	m.choice = m.choiceFor(0)
	return m
}

func (m Model) choiceFor(i int) components.MultiChoice {
	q := m.questions[i]
	opts := make([]string, len(quiz.OptionLetters))
	for j, l := range quiz.OptionLetters {
		opts[j] = q.Options[l]
	}

	selected := 0
	if prev, ok := m.answers[q.ID]; ok {
		for j, l := range quiz.OptionLetters {
			if l == prev {
				selected = j
			}
		}
	}
	title := fmt.Sprintf("%d. %s", q.ID, q.Text)
	return components.NewMultiChoice(title, quiz.OptionLetters, opts, selected)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		case "left", "h", "backspace":
			if m.idx > 0 {
				m.idx--
				m.choice = m.choiceFor(m.idx)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.choice, cmd = m.choice.Update(msg)
	if letter, ok := m.choice.Chosen(); ok {
		m.answers[m.questions[m.idx].ID] = letter
		if m.idx == len(m.questions)-1 {
			m.done = true
			return m, tea.Quit
		}
		m.idx++
		m.choice = m.choiceFor(m.idx)
	}
	return m, cmd
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		v.SetContent(m.body())
		return v
	}
	v.SetContent(layout.Frame{
		Title:  "Placement Quiz",
		Status: fmt.Sprintf("Question %d of %d", m.idx+1, len(m.questions)),
		Hints: []layout.KeyHint{
			{Key: "↑↓/a-d", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "←", Description: "Back"},
			{Key: "Esc", Description: "Quit"},
		},
		Body: m.body(),
	}.Render(m.width, m.height))
	return v
}

func (m Model) body() string {
	steps := components.Steps{
		Total:   len(m.questions),
		Current: m.idx,
		Answered: func(i int) bool {
			_, ok := m.answers[m.questions[i].ID]
			return ok
		},
	}
	s := "\n  " + steps.View() + "\n\n"
	s += theme.Card.Render(m.choice.View())
	return s
}

// Answers returns the letters chosen so far keyed by question ID.
func (m Model) Answers() quiz.Answers {
	out := make(quiz.Answers, len(m.answers))
	for k, v := range m.answers {
		out[k] = v
	}
	return out
}

// Done reports whether every question was answered.
func (m Model) Done() bool { return m.done }

// Run shows the quiz and returns the full answer set.
func Run(ctx context.Context) (quiz.Answers, error) {
	final, err := tea.NewProgram(New(), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(Model)
	if !ok || !m.done {
		return nil, ErrAborted
	}
	return m.Answers(), nil
}
