package ui

import "github.com/charmbracelet/lipgloss"

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			Bold(true)
)

const (
	crossMark = "✗"
	checkMark = "✓"
	skipMark  = "•"
)

// PromptStyle renders the shell prompt
func PromptStyle(prompt string) string {
	return promptStyle.Render(prompt)
}
