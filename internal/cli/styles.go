package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorGood    = lipgloss.Color("#10B981") // Green
	colorWarn    = lipgloss.Color("#F59E0B") // Amber
	colorBad     = lipgloss.Color("#EF4444") // Red
	colorMuted   = lipgloss.Color("#6B7280") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	postBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			Width(72)

	scoreHighStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGood)
	scoreMidStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	scoreLowStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBad)

	summaryStyle = lipgloss.NewStyle().
			Foreground(colorGood).
			Bold(true)
)

// renderScore colors a banger score by how promising it is.
func renderScore(score int) string {
	switch {
	case score == 0:
		return mutedStyle.Render("unscored")
	case score >= 70:
		return scoreHighStyle.Render(strconv.Itoa(score))
	case score >= 40:
		return scoreMidStyle.Render(strconv.Itoa(score))
	default:
		return scoreLowStyle.Render(strconv.Itoa(score))
	}
}
