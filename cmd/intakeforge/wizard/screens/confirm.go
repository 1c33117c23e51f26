package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/session"
)

// ConfirmScreen asks before a destructive action
type ConfirmScreen struct {
	form      *huh.Form
	action    session.Action
	confirmed bool
	done      bool
}

// NewConfirmScreen creates the confirmation for action
func NewConfirmScreen(action session.Action) *ConfirmScreen {
	s := &ConfirmScreen{action: action}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(action.Prompt()).
				Affirmative("Yes").
				Negative("No").
				Value(&s.confirmed),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *ConfirmScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ConfirmScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			s.confirmed = false
			s.done = true
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *ConfirmScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("Please Confirm"),
		s.form.View(),
		"",
		"←/→: Choose | Enter: Confirm | Esc: Cancel",
	)
}

// Done returns true once the operator answered
func (s *ConfirmScreen) Done() bool { return s.done }

// Confirmed reports whether the action should run
func (s *ConfirmScreen) Confirmed() bool { return s.confirmed }

// Action returns the action being confirmed
func (s *ConfirmScreen) Action() session.Action { return s.action }
