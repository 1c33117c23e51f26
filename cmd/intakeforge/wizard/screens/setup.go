package screens

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/intake"
)

// SetupScreen collects the event name and date
type SetupScreen struct {
	form       *huh.Form
	helpPanel  *components.HelpPanel
	eventName  string
	eventDate  string
	presetPath string
	status     string
	done       bool
	cancelled  bool
}

// NewSetupScreen creates the event setup screen. An empty date defaults to today.
func NewSetupScreen(eventName, eventDate, status string) *SetupScreen {
	if eventDate == "" {
		eventDate = time.Now().Format(intake.DateLayout)
	}

	s := &SetupScreen{
		helpPanel: components.NewHelpPanel(),
		eventName: eventName,
		eventDate: eventDate,
		status:    status,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("event_name").
				Title("Event Name *").
				Value(&s.eventName).
				Validate(func(str string) error {
					if strings.TrimSpace(str) == "" {
						return fmt.Errorf("event name is required")
					}
					return nil
				}),

			huh.NewInput().
				Key("event_date").
				Title("Event Date *").
				Description("Format: YYYY-MM-DD").
				Value(&s.eventDate).
				Validate(validateDate),

			huh.NewInput().
				Key("preset_path").
				Title("Save as preset (optional)").
				Placeholder("event.yaml").
				Value(&s.presetPath),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

func validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("date is required")
	}
	return validateOptionalDate(s)
}

// Init implements tea.Model
func (s *SetupScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SetupScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *SetupScreen) View() string {
	title := components.TitleStyle.Render("DME Intake - Event Setup")

	return lipgloss.JoinVertical(lipgloss.Left,
		s.status,
		"",
		title,
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		"Tab: Next field | Enter: Start intake | Esc: Quit",
	)
}

// Done returns true if the form was completed
func (s *SetupScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *SetupScreen) Cancelled() bool { return s.cancelled }

// Event returns the entered event name and date
func (s *SetupScreen) Event() (name, date string) {
	return strings.TrimSpace(s.eventName), strings.TrimSpace(s.eventDate)
}

// PresetPath returns where to save the event preset, or ""
func (s *SetupScreen) PresetPath() string { return strings.TrimSpace(s.presetPath) }
