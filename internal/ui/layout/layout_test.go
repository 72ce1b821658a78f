package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.True(t, IsTooSmall(MinWidth, MinHeight-1))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}

func TestFrameRender(t *testing.T) {
	f := Frame{
		Title:  "Placement Quiz",
		Status: "Question 3 of 10",
		Hints:  []KeyHint{{Key: "Enter", Description: "Confirm"}},
		Body:   "What does df.head() return?",
	}

	out := f.Render(80, 24)
	assert.Contains(t, out, "Placement Quiz")
	assert.Contains(t, out, "Question 3 of 10")
	assert.Contains(t, out, "Confirm")
	assert.Contains(t, out, "df.head()")
	assert.Equal(t, 24, lipgloss.Height(out))
}

func TestFrameRender_TooSmall(t *testing.T) {
	out := Frame{Title: "Placement Quiz"}.Render(40, 10)
	assert.Contains(t, out, "Terminal too small (40 x 10)")
	assert.False(t, strings.Contains(out, "Placement Quiz"))
}
