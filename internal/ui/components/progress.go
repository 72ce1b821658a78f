package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/ui/theme"
)

// Steps shows progress through a fixed number of steps as a row of dots,
// one per step: answered steps filled, the current one highlighted.
type Steps struct {
	Total    int
	Current  int // zero-based
	Answered func(i int) bool
}

// View renders "● ● ◉ ○ ○  3/10".
func (s Steps) View() string {
	dots := make([]string, 0, s.Total)
	for i := 0; i < s.Total; i++ {
		switch {
		case i == s.Current:
			dots = append(dots, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("◉"))
		case s.Answered != nil && s.Answered(i):
			dots = append(dots, lipgloss.NewStyle().Foreground(theme.Secondary).Render("●"))
		default:
			dots = append(dots, lipgloss.NewStyle().Foreground(theme.Border).Render("○"))
		}
	}
	counter := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d/%d", s.Current+1, s.Total))
	return strings.Join(dots, " ") + counter
}
