package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so every color is an AdaptiveColor and "faint" styling is applied only on
// dark backgrounds (faint on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted lipgloss.TerminalColor = ac("240", "243")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorSurfaceBg lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")

	// Slightly elevated surface for buttons/inputs inside modals.
	colorControlBg lipgloss.TerminalColor = ac("252", "236")

	colorAccent  lipgloss.TerminalColor = ac("27", "62")
	colorDanger  lipgloss.TerminalColor = ac("124", "167")
	colorSuccess lipgloss.TerminalColor = ac("28", "71")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
// Only NO_COLOR is honored; CLICOLOR et al. are for non-interactive output
// and can accidentally strip a TUI of color.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection. Some terminals do
// not report their background, which makes AdaptiveColor pick the wrong
// variant; STOCKROOM_TUI_THEME=light|dark forces it, STOCKROOM_TUI_DARKBG
// accepts a bool, and COLORFGBG ("fg;bg") is used as a last heuristic.
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("STOCKROOM_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("STOCKROOM_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lipgloss.SetHasDarkBackground(b)
			return
		}
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
