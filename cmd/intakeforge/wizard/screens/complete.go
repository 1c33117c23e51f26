package screens

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/session"
)

var (
	completionSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)

	completionLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	completionValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)

	completionHintStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Italic(true)
)

// CompleteScreen displays where the packet was delivered
type CompleteScreen struct {
	result  session.PrintResult
	patient string
	request Request
}

// NewCompleteScreen creates the completion screen
func NewCompleteScreen(result session.PrintResult, patient string) *CompleteScreen {
	return &CompleteScreen{result: result, patient: patient}
}

// Init implements tea.Model
func (s *CompleteScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *CompleteScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "n", "enter":
			s.request = RequestNewPatient
		case "b", "esc":
			s.request = RequestBack
		case "q", "ctrl+c":
			s.request = RequestQuit
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *CompleteScreen) View() string {
	var sb strings.Builder

	sb.WriteString(completionSuccessStyle.Render("✓ Packet generated"))
	sb.WriteString("\n\n")

	sb.WriteString(components.TitleStyle.Render("Summary:"))
	sb.WriteString("\n")

	stats := []struct {
		label string
		value string
	}{
		{"Patient", s.patient},
		{"Packet", s.result.Path},
	}
	if n := len(s.result.DICOMFiles); n > 0 {
		stats = append(stats, struct {
			label string
			value string
		}{"DICOM documents", fmt.Sprintf("%d in %s", n, filepath.Dir(s.result.DICOMFiles[0]))})
	}

	for _, stat := range stats {
		sb.WriteString("  ")
		sb.WriteString(completionLabelStyle.Render(stat.label + ":"))
		sb.WriteString(" ")
		sb.WriteString(completionValueStyle.Render(stat.value))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(completionHintStyle.Render("Enter/n: New patient | b: Back to review | q: Quit"))

	return sb.String()
}

// Request returns the navigation asked for
func (s *CompleteScreen) Request() Request { return s.request }
