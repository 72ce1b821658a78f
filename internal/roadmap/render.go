package roadmap

import (
	"strings"

	"github.com/abhisek/learnpath/internal/ui/theme"
)

// RenderText formats doc as indented plain text. When doc has no sections
// the raw lines are returned verbatim, one per line.
func RenderText(doc Document, raw []string) string {
	if doc.Empty() {
		return strings.Join(raw, "\n")
	}

	var b strings.Builder
	for i, s := range doc.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Title + "\n")
		for _, it := range s.Items {
			if it.Title != "" {
				b.WriteString("  " + it.Title + "\n")
			}
			for _, bl := range it.Bullets {
				b.WriteString("    • " + bl + "\n")
			}
		}
	}
	return b.String()
}

// RenderStyled formats doc for a terminal using the shared theme.
func RenderStyled(doc Document, raw []string) string {
	if doc.Empty() {
		return theme.Body.Render(strings.Join(raw, "\n"))
	}

	var lines []string
	for _, s := range doc.Sections {
		lines = append(lines, theme.SectionTitle.Render(s.Title))
		for _, it := range s.Items {
			if it.Title != "" {
				lines = append(lines, theme.ItemTitle.Render(it.Title))
			}
			for _, bl := range it.Bullets {
				lines = append(lines, theme.Bullet.Render("• "+bl))
			}
		}
	}
	return strings.Join(lines, "\n")
}
