package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/mrsinham/intakeforge/internal/signature"
)

// SignaturePad is what the signature screen draws on.
type SignaturePad interface {
	PressSignature(role intake.SignatureRole, x, y float64, vp signature.Viewport) error
	MoveSignature(x, y float64) bool
	ReleaseSignature()
	ClearSignature(role intake.SignatureRole)
	SaveSignature(role intake.SignatureRole) error
	SignaturePreview(role intake.SignatureRole, cols, rows int) string
	Signature(role intake.SignatureRole) *intake.SignatureEntry
}

var (
	padStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("33")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1).
			Bold(true)

	attestationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

const (
	maxPadCols = 70
	minPadCols = 20
)

// SignatureScreen captures the three signatures with the mouse
type SignatureScreen struct {
	pad     SignaturePad
	roles   []intake.SignatureRole
	focus   int
	status  string
	request Request
	width   int
	cols    int
	rows    int
}

// NewSignatureScreen creates the signature step
func NewSignatureScreen(pad SignaturePad, status string) *SignatureScreen {
	s := &SignatureScreen{
		pad:    pad,
		roles:  intake.AllSignatureRoles(),
		status: status,
	}
	s.resize(80)
	return s
}

func (s *SignatureScreen) resize(width int) {
	s.width = width
	s.cols = min(max(width-2, minPadCols), maxPadCols)
	// Braille cells are 2x4 dots and terminal cells are about twice as tall
	// as wide, so dots are roughly square.
	s.rows = max(3, s.cols*2*signature.Height/(signature.Width*4))
}

// Init implements tea.Model
func (s *SignatureScreen) Init() tea.Cmd {
	return nil
}

// Role returns the focused signature role
func (s *SignatureScreen) Role() intake.SignatureRole {
	return s.roles[s.focus]
}

// Update implements tea.Model
func (s *SignatureScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width)

	case tea.KeyMsg:
		key := msg.String()
		if req := requestForKey(key); req != RequestNone {
			s.pad.ReleaseSignature()
			s.request = req
			return s, nil
		}
		switch key {
		case "enter":
			s.pad.ReleaseSignature()
			s.request = RequestNext
		case "tab", "right":
			s.pad.ReleaseSignature()
			s.focus = (s.focus + 1) % len(s.roles)
		case "shift+tab", "left":
			s.pad.ReleaseSignature()
			s.focus = (s.focus + len(s.roles) - 1) % len(s.roles)
		case "c":
			s.pad.ClearSignature(s.Role())
		case "s":
			if err := s.pad.SaveSignature(s.Role()); err != nil {
				return s, notice(err)
			}
		}

	case tea.MouseMsg:
		return s, s.handleMouse(msg)
	}

	return s, nil
}

func (s *SignatureScreen) handleMouse(msg tea.MouseMsg) tea.Cmd {
	vp := s.Viewport()
	x, y := float64(msg.X)+0.5, float64(msg.Y)+0.5

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside(vp, x, y) {
			return nil
		}
		if err := s.pad.PressSignature(s.Role(), x, y, vp); err != nil {
			return notice(err)
		}
	case tea.MouseActionMotion:
		if !inside(vp, x, y) {
			s.pad.ReleaseSignature()
			return nil
		}
		s.pad.MoveSignature(x, y)
	case tea.MouseActionRelease:
		s.pad.ReleaseSignature()
	}
	return nil
}

func inside(vp signature.Viewport, x, y float64) bool {
	return x >= vp.X && x < vp.X+vp.Width && y >= vp.Y && y < vp.Y+vp.Height
}

func notice(err error) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Err: err} }
}

// Viewport returns where the pad's drawing area is on screen, in cells
func (s *SignatureScreen) Viewport() signature.Viewport {
	top := lipgloss.Height(s.header()) + 1 // border
	return signature.Viewport{X: 1, Y: float64(top), Width: float64(s.cols), Height: float64(s.rows)}
}

func (s *SignatureScreen) header() string {
	title := components.TitleStyle.Render(
		fmt.Sprintf("Patient Intake - Step %d of %d: %s", intake.StepSignatures, intake.TotalSteps, intake.StepTitle(intake.StepSignatures)))

	tabs := make([]string, len(s.roles))
	for i, role := range s.roles {
		label := role.Label()
		if role.Optional() {
			label += " (optional)"
		}
		if entry := s.pad.Signature(role); entry != nil {
			label += " ✓"
		}
		if i == s.focus {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.status,
		"",
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

// View implements tea.Model
func (s *SignatureScreen) View() string {
	role := s.Role()

	var state string
	switch entry := s.pad.Signature(role); {
	case entry == nil && role.Optional():
		state = components.OptionalStyle.Render("Not signed (optional)")
	case entry == nil:
		state = components.MissingStyle.Render("Not signed")
	case entry.Restored:
		state = components.DoneStyle.Render("Signed on file")
	default:
		state = components.DoneStyle.Render("Signature saved")
	}

	width := s.cols + 2
	attestation := attestationStyle.Width(width).Render(strings.TrimSpace(role.Attestation()))

	return lipgloss.JoinVertical(lipgloss.Left,
		s.header(),
		padStyle.Render(s.pad.SignaturePreview(role, s.cols, s.rows)),
		state,
		"",
		attestation,
		"",
		components.HintStyle.Render("Draw with the mouse | s: Save | c: Clear | Tab: Next signature"),
		components.HintStyle.Render(navHint),
	)
}

// Request returns the navigation asked for, RequestNone while signing
func (s *SignatureScreen) Request() Request { return s.request }
