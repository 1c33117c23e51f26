package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/intake"
)

// CaptureKind is what the operator chose on the capture screen
type CaptureKind string

const (
	CaptureCamera   CaptureKind = "camera"
	CaptureFile     CaptureKind = "file"
	CaptureGallery  CaptureKind = "gallery"
	CaptureClear    CaptureKind = "clear"
	CaptureContinue CaptureKind = "continue"
)

// CaptureChoice is the completed capture menu
type CaptureChoice struct {
	Kind CaptureKind
	Role intake.CaptureRole
	Path string
}

// CaptureScreen offers optional document capture before the intake form
type CaptureScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	captured  intake.CaptureSet
	gallery   string
	status    string
	kind      CaptureKind
	role      intake.CaptureRole
	path      string
	request   Request
}

// NewCaptureScreen creates the capture menu. gallery names the newest
// gallery photo, if any.
func NewCaptureScreen(captured intake.CaptureSet, gallery, status string) *CaptureScreen {
	s := &CaptureScreen{
		helpPanel: components.NewHelpPanel(),
		captured:  captured,
		gallery:   gallery,
		status:    status,
		kind:      CaptureCamera,
		role:      firstMissing(captured),
	}

	kinds := []huh.Option[string]{
		huh.NewOption("Take a photo with the camera", string(CaptureCamera)),
		huh.NewOption("Attach a file", string(CaptureFile)),
	}
	if gallery != "" {
		kinds = append(kinds, huh.NewOption("Use newest gallery photo ("+gallery+")", string(CaptureGallery)))
	}
	kinds = append(kinds,
		huh.NewOption("Remove a captured document", string(CaptureClear)),
		huh.NewOption("Continue to intake form", string(CaptureContinue)),
	)

	roles := make([]huh.Option[intake.CaptureRole], 0, 4)
	for _, role := range intake.AllCaptureRoles() {
		roles = append(roles, huh.NewOption(role.Label(), role))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("capture_kind").
				Title("Documents (optional)").
				Options(kinds...).
				Value((*string)(&s.kind)),
		),
		huh.NewGroup(
			huh.NewSelect[intake.CaptureRole]().
				Key("capture_role").
				Title("Document").
				Options(roles...).
				Value(&s.role),
		).WithHideFunc(func() bool { return s.kind == CaptureContinue }),
		huh.NewGroup(
			huh.NewInput().
				Key("capture_path").
				Title("File path").
				Value(&s.path).
				Validate(func(p string) error {
					if s.kind == CaptureFile && strings.TrimSpace(p) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return s.kind != CaptureFile }),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

func firstMissing(captured intake.CaptureSet) intake.CaptureRole {
	for _, role := range intake.AllCaptureRoles() {
		if !captured.Has(role) {
			return role
		}
	}
	return intake.CaptureInsuranceFront
}

// Init implements tea.Model
func (s *CaptureScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *CaptureScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c":
			s.request = RequestQuit
			return s, nil
		case "ctrl+e":
			s.request = RequestChangeEvent
			return s, nil
		case "esc":
			s.kind = CaptureContinue
			s.request = RequestNext
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
		s.request = RequestNext
	}

	return s, cmd
}

// View implements tea.Model
func (s *CaptureScreen) View() string {
	title := components.TitleStyle.Render("Document Capture")

	var sb strings.Builder
	for i, role := range intake.AllCaptureRoles() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(components.Check(s.captured.Has(role), true))
		sb.WriteString(" ")
		sb.WriteString(role.Label())
		if art := s.captured[role]; art != nil && art.IsImage() {
			sb.WriteString(components.HintStyle.Render(fmt.Sprintf("  %dx%d", art.Width, art.Height)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.status,
		"",
		title,
		checklistStyle.Render(sb.String()),
		"",
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Enter: Select | Esc: Skip to intake | Ctrl+E: Change event"),
	)
}

// Request returns the navigation asked for, RequestNone while choosing
func (s *CaptureScreen) Request() Request { return s.request }

// Choice returns the completed menu
func (s *CaptureScreen) Choice() CaptureChoice {
	return CaptureChoice{Kind: s.kind, Role: s.role, Path: strings.TrimSpace(s.path)}
}
