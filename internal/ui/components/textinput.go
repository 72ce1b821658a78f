package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/ui/theme"
)

// TextInput is a labelled single-line field. Enter runs Validate on the
// trimmed value; the field is Submitted only when it passes.
type TextInput struct {
	Label     string
	Model     textinput.Model
	Validate  func(string) error
	Submitted bool
	err       error
}

// NewTextInput returns a focused input. charLimit <= 0 means unlimited.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return TextInput{Label: label, Model: ti}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Submitted {
		return t, nil
	}
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		t.err = nil
		if t.Validate != nil {
			t.err = t.Validate(t.Value())
		}
		t.Submitted = t.err == nil
		return t, nil
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	var b strings.Builder
	if t.Label != "" {
		b.WriteString(theme.Title.Render(t.Label))
		b.WriteString("\n\n")
	}
	b.WriteString(t.Model.View())
	if t.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("✗ " + t.err.Error()))
	}
	return b.String()
}

// Value returns the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Err returns the last validation failure, if any.
func (t TextInput) Err() error {
	return t.err
}
