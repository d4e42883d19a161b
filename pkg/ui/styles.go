package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// Adaptive palette. Light mode mirrors a parchment page, dark mode a dim one.
var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#451A03", Dark: "#FEF3C7"}
	ColorSubtext = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#D6BCA0"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
)

// Glyphs used by the header and the card.
const (
	BrandGlyph    = "✒"
	RefreshGlyph  = "↻"
	DefaultCursor = "▌"
)

// placeCursor returns the glyph shown after the text being typed. A hidden
// cursor keeps its cells so the text never shifts.
func placeCursor(t Theme, glyph string, visible bool) string {
	if !visible {
		return blankLike(glyph)
	}
	return t.CursorOn.Render(glyph)
}

func blankLike(s string) string {
	return strings.Repeat(" ", max(1, lipgloss.Width(s)))
}
