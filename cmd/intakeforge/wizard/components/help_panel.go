package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/help"
)

var (
	helpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2).
			Width(60)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	helpDetailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	helpBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	helpNoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// HelpPanel displays contextual help for the focused field, plus a live
// note the screen derives from the record being edited
type HelpPanel struct {
	currentField string
	note         string
	width        int
}

// NewHelpPanel creates a new help panel
func NewHelpPanel() *HelpPanel {
	return &HelpPanel{width: 60}
}

// SetField updates which field's help to display
func (h *HelpPanel) SetField(field string) {
	h.currentField = field
}

// SetNote sets the live note shown under the field help, empty for none
func (h *HelpPanel) SetNote(note string) {
	h.note = note
}

// SetWidth updates the panel width
func (h *HelpPanel) SetWidth(width int) {
	if width > 20 {
		h.width = width
	}
}

// View renders the help panel, or nothing when the field has no help
func (h *HelpPanel) View() string {
	text, ok := help.Texts[h.currentField]
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(helpTitleStyle.Render(text.Title))
	if text.GatesPacket {
		sb.WriteString("  ")
		sb.WriteString(helpBadgeStyle.Render("needed to print"))
	}
	sb.WriteString("\n")
	sb.WriteString(helpDescStyle.Render(text.Description))
	if text.Details != "" {
		sb.WriteString("\n\n")
		sb.WriteString(helpDetailStyle.Render(text.Details))
	}
	if h.note != "" {
		sb.WriteString("\n\n")
		sb.WriteString(helpNoteStyle.Render("→ " + h.note))
	}

	return helpPanelStyle.Width(h.width - 4).Render(sb.String())
}
