package components

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			MarginBottom(1)

	HintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	DoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	MissingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	OptionalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// Check renders a checklist mark.
func Check(done, optional bool) string {
	switch {
	case done:
		return DoneStyle.Render("✓")
	case optional:
		return OptionalStyle.Render("○")
	default:
		return MissingStyle.Render("✗")
	}
}
