package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/intake"
)

var (
	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	errorHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)
)

// NoticeScreen displays an operator notice until it is dismissed
type NoticeScreen struct {
	notice *intake.Notice
	done   bool
}

// NewNoticeScreen creates a notice screen
func NewNoticeScreen(n *intake.Notice) *NoticeScreen {
	return &NoticeScreen{notice: n}
}

// Init implements tea.Model
func (s *NoticeScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *NoticeScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", " ":
			s.done = true
		case "esc", "q":
			// Blocking notices need an explicit acknowledgement.
			if !s.notice.Blocking {
				s.done = true
			}
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *NoticeScreen) View() string {
	var sb strings.Builder

	titleStyle := warningTitleStyle
	icon := "!"
	if s.notice.Blocking {
		titleStyle = errorTitleStyle
		icon = "✗"
	}
	sb.WriteString(titleStyle.Render(icon + " " + s.notice.Title))
	sb.WriteString("\n\n")

	sb.WriteString("  ")
	sb.WriteString(errorMessageStyle.Render(s.notice.Message))
	sb.WriteString("\n")

	if s.notice.Hint != "" {
		sb.WriteString("\n")
		sb.WriteString(components.SubtitleStyle.Render("  " + s.notice.Hint))
	}
	sb.WriteString("\n")

	if s.notice.Blocking {
		sb.WriteString(errorHintStyle.Render("Press Enter to acknowledge"))
	} else {
		sb.WriteString(errorHintStyle.Render("Press Enter or Esc to continue"))
	}

	return sb.String()
}

// Done returns true once the notice was dismissed
func (s *NoticeScreen) Done() bool { return s.done }

// Notice returns the displayed notice
func (s *NoticeScreen) Notice() *intake.Notice { return s.notice }
