package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/intake"
)

var liveStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true)

// CameraScreen shows the camera state while a document is photographed
type CameraScreen struct {
	role      intake.CaptureRole
	live      bool
	capturing bool
	shoot     bool
	cancelled bool
}

// NewCameraScreen creates the camera screen for role
func NewCameraScreen(role intake.CaptureRole) *CameraScreen {
	return &CameraScreen{role: role}
}

// Init implements tea.Model
func (s *CameraScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *CameraScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
		case " ", "enter":
			if s.live && !s.capturing {
				s.shoot = true
			}
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *CameraScreen) View() string {
	title := components.TitleStyle.Render("Camera: " + s.role.Label())

	state := components.HintStyle.Render("Starting camera...")
	switch {
	case s.capturing:
		state = components.HintStyle.Render("Capturing...")
	case s.live:
		state = liveStyle.Render("● LIVE")
	}

	guide := "Hold the document flat and fill the frame."
	if s.role.IsCard() {
		guide = "Center the card in the frame. The middle of the picture is kept."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		state,
		"",
		guide,
		"",
		components.HintStyle.Render("Space/Enter: Capture | Esc: Cancel"),
	)
}

// SetLive marks the camera as acquired
func (s *CameraScreen) SetLive() { s.live = true }

// TakeShot consumes a capture request. It reports true once per request.
func (s *CameraScreen) TakeShot() bool {
	if !s.shoot {
		return false
	}
	s.shoot = false
	s.capturing = true
	return true
}

// Cancelled returns true if the operator left the camera
func (s *CameraScreen) Cancelled() bool { return s.cancelled }

// Role returns the document being photographed
func (s *CameraScreen) Role() intake.CaptureRole { return s.role }
