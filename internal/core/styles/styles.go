// Package styles provides shared lipgloss styles for CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

// Tokyo Night palette.
var (
	ColorPrimary    = lipgloss.Color("#7aa2f7")
	ColorForeground = lipgloss.Color("#c0caf5")
	ColorMuted      = lipgloss.Color("#565f89")
	ColorSuccess    = lipgloss.Color("#9ece6a")
	ColorWarning    = lipgloss.Color("#e0af68")
	ColorError      = lipgloss.Color("#f7768e")
)

var (
	// TitleStyle renders document and section headers.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// MutedStyle renders line numbers, ids, and timestamps.
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	// CommentStyle renders annotation bodies in terminal previews.
	CommentStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(ColorPrimary).
			PaddingLeft(1)

	// OrphanStyle marks annotations whose anchors could not be relocated.
	OrphanStyle = lipgloss.NewStyle().Foreground(ColorWarning).Italic(true)

	// SuccessStyle and ErrorStyle render command result lines.
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
)

// StatusStyle returns the style for an annotation status string.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "resolved":
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	case "pending":
		return lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ColorError)
	}
}
