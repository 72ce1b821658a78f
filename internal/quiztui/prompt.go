package quiztui

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnpath/internal/ui/components"
	"github.com/abhisek/learnpath/internal/ui/theme"
)

var errEmptyInput = errors.New("a value is required")

// Prompt asks for one line of text.
type Prompt struct {
	input   components.TextInput
	aborted bool
}

// NewPrompt returns a prompt that refuses empty input and, when validate is
// set, anything validate rejects.
func NewPrompt(label, placeholder string, validate func(string) error) Prompt {
	in := components.NewTextInput(label, placeholder, 254)
	in.Validate = func(v string) error {
		if v == "" {
			return errEmptyInput
		}
		if validate != nil {
			return validate(v)
		}
		return nil
	}
	return Prompt{input: in}
}

func (p Prompt) Init() tea.Cmd {
	return p.input.Init()
}

func (p Prompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "ctrl+c", "esc":
			p.aborted = true
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Submitted {
		return p, tea.Quit
	}
	return p, cmd
}

func (p Prompt) View() tea.View {
	return tea.NewView("\n" + theme.Card.Render(p.input.View()) + "\n" +
		theme.Hint.Render("  enter to confirm, esc to cancel") + "\n")
}

// Value returns the accepted input, or "" before submission.
func (p Prompt) Value() string {
	if !p.input.Submitted {
		return ""
	}
	return p.input.Value()
}

// Ask runs a prompt inline and returns the accepted value.
func Ask(ctx context.Context, label, placeholder string, validate func(string) error) (string, error) {
	final, err := tea.NewProgram(NewPrompt(label, placeholder, validate), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	p, ok := final.(Prompt)
	if !ok || p.aborted || p.Value() == "" {
		return "", ErrAborted
	}
	return p.Value(), nil
}

// ValidateEmail accepts anything with a local part and a domain around @.
func ValidateEmail(v string) error {
	at := strings.Index(v, "@")
	if at <= 0 || at == len(v)-1 {
		return errors.New("enter an email address")
	}
	return nil
}
