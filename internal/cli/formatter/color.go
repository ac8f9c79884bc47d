package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/attendance/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// AnomalyColor returns the style for an anomaly type.
func AnomalyColor(t domain.AnomalyType) lipgloss.Style {
	switch t {
	case domain.AnomalyOverlap:
		return StyleRed
	case domain.AnomalyOvertime:
		return StylePurple
	case domain.AnomalyMissingEnd:
		return StyleYellow
	default:
		return StyleDim
	}
}

// AnomalyPill returns a colored indicator such as "● overlap".
func AnomalyPill(t domain.AnomalyType) string {
	switch t {
	case domain.AnomalyOverlap:
		return StyleRed.Render("● overlap")
	case domain.AnomalyOvertime:
		return StylePurple.Render("▲ overtime")
	case domain.AnomalyMissingEnd:
		return StyleYellow.Render("○ missing-end")
	default:
		return StyleDim.Render(string(t))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
