// Package layout draws the full-screen frame used by interactive commands.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 18
)

// KeyHint is one entry in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Frame is a header bar, a body and a footer of key hints.
type Frame struct {
	Title  string
	Status string
	Hints  []KeyHint
	Body   string
}

// IsTooSmall reports whether a terminal cannot fit a frame.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// Render lays the frame out to fill width x height. Terminals below the
// minimum size get a resize notice instead.
func (f Frame) Render(width, height int) string {
	if IsTooSmall(width, height) {
		return lipgloss.NewStyle().
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Width(width).
			Height(height).
			Render(fmt.Sprintf("Terminal too small (%d x %d).\nResize to at least %d x %d.", width, height, MinWidth, MinHeight))
	}

	header := f.header(width)
	footer := f.footer(width)
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(bodyHeight).Render(f.Body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (f Frame) header(width int) string {
	left := theme.Title.Render("learnpath") + "  " + theme.Body.Render(f.Title)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(f.Status)
	gap := max(width-4-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return bar(" "+left+strings.Repeat(" ", gap)+right, width)
}

func (f Frame) footer(width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(f.Hints))
	for i, h := range f.Hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(" "+strings.Join(parts, "   "), width)
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}
