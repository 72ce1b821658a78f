package roadmap

import (
	"strings"
	"unicode"
)

// Normalize rewrites free-form roadmap text into the line format Parse
// understands:
//
//   - "Weak Areas"/"Strong Areas" headings and lines mentioning "reinforce"
//     become **marker** lines surrounded by blank lines
//   - numbered topics ("1. Recursion") become **marker** lines
//   - "-" and "*" list entries become "  • text"
//   - any other text is kept, indented by two spaces
//
// Markdown heading hashes and existing bold markers are stripped first, and
// horizontal rules are dropped.
func Normalize(text string) []string {
	var out []string
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := cleanLine(raw)
		switch {
		case line == "":
			out = append(out, "")
		case isRule(line):
			continue
		case isHeading(line):
			out = append(out, "", marker+line+marker, "")
		case isNumbered(line):
			out = append(out, marker+line+marker)
		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*"):
			out = append(out, "  • "+strings.TrimSpace(line[1:]))
		default:
			out = append(out, "  "+line)
		}
	}
	return out
}

// cleanLine trims whitespace, markdown heading hashes, bold markers and a
// trailing colon.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimLeft(s, "#"))
	if inner, ok := markerText(s); ok {
		s = inner
	}
	return strings.TrimSpace(strings.TrimSuffix(s, ":"))
}

func isRule(s string) bool {
	return len(s) >= 3 && strings.Trim(s, "-*_ ") == ""
}

func isHeading(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "weak areas") ||
		strings.HasPrefix(lower, "strong areas") ||
		strings.Contains(lower, "reinforce")
}

// isNumbered matches "1." through "99." style prefixes.
func isNumbered(s string) bool {
	i := 0
	for i < len(s) && i < 2 && unicode.IsDigit(rune(s[i])) {
		i++
	}
	return i > 0 && i < len(s) && s[i] == '.'
}
