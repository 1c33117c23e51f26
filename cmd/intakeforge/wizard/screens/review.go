package screens

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/mrsinham/intakeforge/internal/packet"
)

// ReviewAction is the action selected on the review screen
type ReviewAction int

const (
	// ReviewPrint generates and delivers the packet
	ReviewPrint ReviewAction = iota
	// ReviewGoTo jumps to the step returned by Step
	ReviewGoTo
)

const (
	actionPrint       = "print"
	actionBack        = "back"
	actionNewPatient  = "new_patient"
	actionChangeEvent = "change_event"
	stepPrefix        = "step:"
)

var checklistStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 2)

// ReviewScreen shows the checklist and the packet actions
type ReviewScreen struct {
	form      *huh.Form
	checklist []packet.ChecklistItem
	status    string
	action    string
	request   Request
}

// NewReviewScreen creates the review step
func NewReviewScreen(checklist []packet.ChecklistItem, status string) *ReviewScreen {
	s := &ReviewScreen{
		checklist: checklist,
		status:    status,
		action:    actionPrint,
	}

	opts := []huh.Option[string]{huh.NewOption("Generate packet", actionPrint)}
	seen := map[int]bool{}
	for _, item := range checklist {
		if item.Done || seen[item.Step] || item.Step == 0 {
			continue
		}
		seen[item.Step] = true
		opts = append(opts, huh.NewOption(
			fmt.Sprintf("Go to step %d: %s", item.Step, intake.StepTitle(item.Step)),
			stepPrefix+strconv.Itoa(item.Step)))
	}
	opts = append(opts,
		huh.NewOption("Back", actionBack),
		huh.NewOption("New patient", actionNewPatient),
		huh.NewOption("Change event", actionChangeEvent),
	)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("Select an action").
				Options(opts...).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *ReviewScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ReviewScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if req := requestForKey(msg.String()); req != RequestNone {
			s.request = req
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		switch s.action {
		case actionBack:
			s.request = RequestBack
		case actionNewPatient:
			s.request = RequestNewPatient
		case actionChangeEvent:
			s.request = RequestChangeEvent
		default:
			s.request = RequestNext
		}
	}

	return s, cmd
}

// View implements tea.Model
func (s *ReviewScreen) View() string {
	title := components.TitleStyle.Render(
		fmt.Sprintf("Patient Intake - Step %d of %d: %s", intake.StepReview, intake.TotalSteps, intake.StepTitle(intake.StepReview)))

	var sb strings.Builder
	for i, item := range s.checklist {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(components.Check(item.Done, item.Optional))
		sb.WriteString(" ")
		sb.WriteString(item.Label)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.status,
		"",
		title,
		checklistStyle.Render(sb.String()),
		"",
		s.form.View(),
		"",
		components.HintStyle.Render("Enter: Select | Esc: Back"),
	)
}

// Request returns the navigation asked for. RequestNext carries the
// action returned by Action.
func (s *ReviewScreen) Request() Request { return s.request }

// Action returns the selected packet action and, for ReviewGoTo, the step
func (s *ReviewScreen) Action() (ReviewAction, int) {
	if step, ok := strings.CutPrefix(s.action, stepPrefix); ok {
		n, _ := strconv.Atoi(step)
		return ReviewGoTo, n
	}
	return ReviewPrint, 0
}
