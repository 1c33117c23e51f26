package screens

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/mrsinham/intakeforge/internal/persist"
)

// ResumeScreen offers to continue a saved session
type ResumeScreen struct {
	form      *huh.Form
	snap      *persist.Snapshot
	resume    bool
	done      bool
	cancelled bool
}

// NewResumeScreen creates the resume prompt for snap
func NewResumeScreen(snap *persist.Snapshot) *ResumeScreen {
	s := &ResumeScreen{snap: snap, resume: true}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("resume").
				Title("Resume the saved session?").
				Description(describeSnapshot(snap)).
				Affirmative("Resume").
				Negative("Start fresh").
				Value(&s.resume),
		),
	).WithShowHelp(false)

	return s
}

func describeSnapshot(snap *persist.Snapshot) string {
	name := snap.Data.FullName()
	if name == "" {
		name = "Unnamed patient"
	}
	return fmt.Sprintf("%s\n%s (%s)\nStep %d of %d: %s\nSaved %s",
		name,
		snap.EventName, snap.EventDate,
		snap.Step, intake.TotalSteps, intake.StepTitle(snap.Step),
		snap.Timestamp.Local().Format(time.DateTime))
}

// Init implements tea.Model
func (s *ResumeScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ResumeScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
		s.cancelled = true
		return s, nil
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
func (s *ResumeScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("Saved Session Found"),
		s.form.View(),
		"",
		"←/→: Choose | Enter: Confirm",
	)
}

// Done returns true once the operator chose
func (s *ResumeScreen) Done() bool { return s.done }

// Cancelled returns true if the user quit
func (s *ResumeScreen) Cancelled() bool { return s.cancelled }

// Resume reports whether the operator chose to resume
func (s *ResumeScreen) Resume() bool { return s.resume }

// Snapshot returns the offered snapshot
func (s *ResumeScreen) Snapshot() *persist.Snapshot { return s.snap }
