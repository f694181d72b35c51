package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired palette shared by tables, boxes and forms.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(colorRed)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)

	stylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	styleDim    = lipgloss.NewStyle().Foreground(ColorDim)
)

// ActivityBadge marks a volunteer as active or inactive.
func ActivityBadge(inactive bool) string {
	if inactive {
		return StyleRed.Render("● inactive")
	}
	return StyleGreen.Render("● active")
}

// RecencyStyle colours a "days since" figure: green within a week, yellow
// up to the inactivity threshold, red beyond it.
func RecencyStyle(days, threshold int) lipgloss.Style {
	switch {
	case days <= 7:
		return StyleGreen
	case days <= threshold:
		return StyleYellow
	default:
		return StyleRed
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), styleDim.Render(line))
}

func Dim(text string) string {
	return styleDim.Render(text)
}
