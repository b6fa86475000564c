package helper

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestStyle(t *testing.T) {
	t.Run("No attributes returns text unchanged", func(t *testing.T) {
		assert.Equal(t, "plain", Style("plain"))
	})

	t.Run("Single attribute", func(t *testing.T) {
		styled := Style("Court", color.FgGreen)
		assert.True(t, strings.HasPrefix(styled, "\x1b[32mCourt"), "Expected green escape sequence, got %q", styled)
	})

	t.Run("Combined attributes", func(t *testing.T) {
		styled := Style("Court", color.Bold, color.Underline)
		assert.True(t, strings.HasPrefix(styled, "\x1b[1;4mCourt"), "Expected bold and underline in one sequence, got %q", styled)
	})

	t.Run("Independent of global colour switch", func(t *testing.T) {
		previous := color.NoColor
		color.NoColor = true
		defer func() { color.NoColor = previous }()

		assert.Contains(t, Style("Court", color.Italic), "\x1b[3m", "Expected colouring even when globally disabled")
	})
}
