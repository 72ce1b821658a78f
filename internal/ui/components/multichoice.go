package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/ui/theme"
)

// MultiChoice is a single-answer selector. It never reveals which option is
// correct.
type MultiChoice struct {
	Question  string
	Labels    []string
	Options   []string
	Selected  int
	Submitted bool
}

// NewMultiChoice creates a selector with the cursor on selected. labels and
// options must have the same length.
func NewMultiChoice(question string, labels, options []string, selected int) MultiChoice {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	return MultiChoice{
		Question: question,
		Labels:   labels,
		Options:  options,
		Selected: selected,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update moves the cursor with up/down or j/k, jumps to an option by its
// label key, and submits on enter.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
	default:
		for i, l := range m.Labels {
			if key == l {
				m.Selected = i
			}
		}
	}

	return m, nil
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	s := theme.Title.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, m.Labels[i], opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == m.Selected {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		s += style.Render(line) + "\n"
	}

	return s
}

// Chosen returns the submitted option's label.
func (m MultiChoice) Chosen() (string, bool) {
	if !m.Submitted {
		return "", false
	}
	return m.Labels[m.Selected], true
}
