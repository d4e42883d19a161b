package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background instead of a down-converted approximation.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor // rose: brand, title, cursor
	Secondary lipgloss.AdaptiveColor // amber: body text
	Subtext   lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	// Styles
	Base lipgloss.Style
	Card lipgloss.Style

	// Pre-computed text styles, created once instead of per frame
	Brand      lipgloss.Style // ✒ PoèmeTyper
	Button     lipgloss.Style // [Aide] etc.
	PoemTitle  lipgloss.Style
	PoemBody   lipgloss.Style
	CursorOn   lipgloss.Style
	Hint       lipgloss.Style // "Appuyez sur n'importe quelle touche..."
	Progress   lipgloss.Style
	StatusOK   lipgloss.Style
	StatusErr  lipgloss.Style
	PanelFrame lipgloss.Style
	PanelTitle lipgloss.Style
}

// DefaultTheme returns the rose-on-parchment theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FB7185"}, // Rose
		Secondary: lipgloss.AdaptiveColor{Light: "#78350F", Dark: "#FCD34D"}, // Amber
		Subtext:   lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#D6BCA0"},

		Border:    lipgloss.AdaptiveColor{Light: "#FDE68A", Dark: "#6B4F2A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#FFE4E6", Dark: "#4C1D2B"},
		Muted:     lipgloss.AdaptiveColor{Light: "#A16207", Dark: "#A8906F"},
		Error:     lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Card = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, SpaceMD)

	t.Brand = r.NewStyle().Foreground(t.Primary).Bold(true).Italic(true)
	t.Button = r.NewStyle().Foreground(t.Primary).Background(t.Highlight)
	t.PoemTitle = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.PoemBody = r.NewStyle().Foreground(t.Secondary)
	t.CursorOn = r.NewStyle().Foreground(ThemeFg("#FDA4AF"))
	t.Hint = r.NewStyle().Foreground(t.Subtext).Italic(true)
	t.Progress = r.NewStyle().Foreground(t.Muted)
	t.StatusOK = r.NewStyle().Foreground(ColorSuccess)
	t.StatusErr = r.NewStyle().Foreground(t.Error).Bold(true)

	t.PanelFrame = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, SpaceSM)
	t.PanelTitle = r.NewStyle().Foreground(t.Primary).Bold(true)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
