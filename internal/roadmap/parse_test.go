package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WeakAndStrongSections(t *testing.T) {
	doc := Parse([]string{
		"**Weak Areas**",
		"**1. Recursion**",
		"- Practice base cases",
		"- Trace call stack",
		"**Strong Areas**",
		"**1. Loops**",
		"- None",
	})

	want := Document{Sections: []Section{
		{Title: "Weak Areas", Items: []Item{{Title: "1. Recursion", Bullets: []string{"Practice base cases", "Trace call stack"}}}},
		{Title: "Strong Areas", Items: []Item{{Title: "1. Loops", Bullets: []string{"None"}}}},
	}}
	assert.Equal(t, want, doc)
}

func TestParse_NoStructure(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"nil", nil},
		{"empty", []string{}},
		{"plain sentence", []string{"plain sentence with no markers"}},
		{"items without section", []string{"**1. Recursion**", "- Practice"}},
		{"blank lines", []string{"", "   ", "\t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.lines)
			assert.True(t, doc.Empty())
			assert.Len(t, doc.Sections, 0)
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	lines := []string{"**Weak Areas**", "  • one", "**2. Two**", "• two", "", "**Strong Areas Overview**"}
	assert.Equal(t, Parse(lines), Parse(lines))
}

func TestParse_PendingItemJoinsNextSection(t *testing.T) {
	doc := Parse([]string{
		"**Intro**",
		"- read the plan",
		"**Weak areas to focus on**",
		"**1. NumPy**",
	})
	require.Len(t, doc.Sections, 1)
	sec := doc.Sections[0]
	assert.Equal(t, "Weak areas to focus on", sec.Title)
	require.Len(t, sec.Items, 2)
	assert.Equal(t, Item{Title: "Intro", Bullets: []string{"read the plan"}}, sec.Items[0])
	assert.Equal(t, "1. NumPy", sec.Items[1].Title)
	assert.Empty(t, sec.Items[1].Bullets)
}

func TestParse_BulletsCreateUntitledItem(t *testing.T) {
	doc := Parse([]string{
		"**STRONG AREAS**",
		"•   Keep practicing",
		"-Write notes",
		"ignored prose line",
		"",
		"- Teach someone",
	})
	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Sections[0].Items, 1)
	item := doc.Sections[0].Items[0]
	assert.Equal(t, "", item.Title)
	assert.Equal(t, []string{"Keep practicing", "Write notes", "Teach someone"}, item.Bullets)
}

func TestParse_MarkerNeedsBothEnds(t *testing.T) {
	doc := Parse([]string{
		"**Weak Areas**",
		"**1. Open only",
		"**",
		"***",
		"**2. Closed**",
	})
	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Sections[0].Items, 1)
	assert.Equal(t, "2. Closed", doc.Sections[0].Items[0].Title)
}
