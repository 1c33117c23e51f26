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

// StepScreen edits a working copy of the patient record for one intake step
type StepScreen struct {
	step      int
	form      *huh.Form
	helpPanel *components.HelpPanel
	record    *intake.PatientRecord
	status    string
	request   Request
	width     int

	// Insurance step
	insurance string
	company   string

	// Diagnosis step
	primaryICD bool
	rxPath     string
}

func newStepScreen(step int, rec intake.PatientRecord, status string) *StepScreen {
	return &StepScreen{
		step:      step,
		helpPanel: components.NewHelpPanel(),
		record:    &rec,
		status:    status,
	}
}

// NewIdentityStep creates the patient identity step
func NewIdentityStep(rec intake.PatientRecord, status string) *StepScreen {
	s := newStepScreen(intake.StepIdentity, rec, status)
	r := s.record

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("first_name").Title("First Name *").Value(&r.FirstName),
			huh.NewInput().Key("middle_name").Title("Middle Name").Value(&r.MiddleName),
			huh.NewInput().Key("last_name").Title("Last Name *").Value(&r.LastName),
			huh.NewInput().Key("dob").Title("DOB *").Description("Format: YYYY-MM-DD").
				Value(&r.DOB).Validate(validateDOB),
			huh.NewSelect[string]().Key("sex").Title("Sex *").
				Options(huh.NewOption("Not set", ""), huh.NewOption("Male", "M"), huh.NewOption("Female", "F")).
				Value(&r.Sex),
		),
		huh.NewGroup(
			huh.NewInput().Key("address").Title("Address *").Value(&r.Address),
			huh.NewInput().Key("city").Title("City *").Value(&r.City),
			huh.NewInput().Key("state").Title("State *").CharLimit(2).Value(&r.State),
			huh.NewInput().Key("zip").Title("ZIP *").Value(&r.Zip),
			huh.NewInput().Key("phone").Title("Phone *").Value(&r.Phone),
			huh.NewInput().Key("email").Title("Email *").Value(&r.Email),
			huh.NewInput().Key("employer").Title("Employer").Value(&r.Employer),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// NewInsuranceStep creates the insurance and billing step. routing is the
// current billing decision shown under the form.
func NewInsuranceStep(rec intake.PatientRecord, routing intake.RoutingDecision, status string) *StepScreen {
	s := newStepScreen(intake.StepInsurance, rec, status)
	r := s.record
	s.insurance = r.PrimaryIns

	companies := []huh.Option[string]{huh.NewOption("Automatic (route from insurance)", "")}
	for _, id := range intake.CompanyIDs() {
		companies = append(companies, huh.NewOption(intake.LookupCompany(id).Name, id))
	}

	billing := "No company selected"
	if routing.CompanyID != "" {
		billing = "Billing: " + intake.LookupCompany(routing.CompanyID).Name
		if routing.AutoRouted {
			billing += " (Auto-routed)"
		}
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Key("primary_ins").Title("Primary Insurance *").
				Options(optionsFor(append([]intake.Option{{Value: "", Label: "Select Insurance"}}, intake.InsuranceOptions...))...).
				Value(&s.insurance),
			huh.NewInput().Key("member_id").Title("Member ID *").Value(&r.PrimaryID),
			huh.NewInput().Key("group").Title("Group #").Value(&r.PrimaryGroup),
			huh.NewSelect[string]().Key("company").Title("Billing Company").
				Description(billing).
				Options(companies...).
				Value(&s.company),
		),
	).WithShowHelp(false)

	return s
}

// NewHistoryStep creates the medical history and prior care step
func NewHistoryStep(rec intake.PatientRecord, status string) *StepScreen {
	s := newStepScreen(intake.StepHistory, rec, status)
	r := s.record

	s.form = huh.NewForm(
		huh.NewGroup(
			multi("medical_history", "Medical History", intake.MedicalHistoryOptions, &r.MedicalHistory),
			multi("limitations", "Functional Limitations", intake.LimitationOptions, &r.Limitations),
			multi("prior_care", "Prior Care", intake.PriorCareOptions, &r.PriorCare),
		),
	).WithShowHelp(false)

	return s
}

// NewClinicalStep creates the clinical assessment step
func NewClinicalStep(rec intake.PatientRecord, status string) *StepScreen {
	s := newStepScreen(intake.StepClinical, rec, status)
	r := s.record

	s.form = huh.NewForm(
		huh.NewGroup(
			multi("complaints", "Chief Complaints *", intake.ComplaintOptions, &r.Complaints),
			huh.NewInput().Key("onset_date").Title("Onset Date").Description("Format: YYYY-MM-DD").
				Value(&r.OnsetDate).Validate(validateOptionalDate),
			single("duration", "Duration", intake.DurationOptions, &r.Duration),
			single("pain_level", "Pain Level (0-10) *", intake.PainLevelOptions(), &r.PainLevel),
		),
		huh.NewGroup(
			single("posture_gait", "Posture/Gait", intake.PostureGaitOptions, &r.PostureGait),
			single("lumbar_mobility", "Lumbar Mobility", intake.LumbarMobilityOptions, &r.LumbarMobility),
			multi("pain_behavior", "Pain Behavior", intake.PainBehaviorOptions, &r.PainBehavior),
			multi("functional_impact", "Functional Impact", intake.FunctionalImpactOptions, &r.FunctionalImpact),
		),
		huh.NewGroup(
			huh.NewText().Key("other_notes").Title("Other Notes").
				Placeholder("Additional clinical notes...").Value(&r.OtherNotes),
			huh.NewConfirm().Key("mechanical").
				Title("Findings are consistent with mechanical low back pain requiring external stabilization?").
				Value(&r.MechanicalLBPFindings),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// NewDiagnosisStep creates the diagnosis and device step
func NewDiagnosisStep(rec intake.PatientRecord, status string) *StepScreen {
	s := newStepScreen(intake.StepDiagnosis, rec, status)
	r := s.record
	s.primaryICD = r.PrimaryICD != ""

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Key("primary_icd").
				Title("Primary ICD-10: M54.50 - Low Back Pain, Unspecified").
				Value(&s.primaryICD),
			multi("additional_icd", "Additional ICD-10", intake.AdditionalICDOptions, &r.AdditionalICD),
			huh.NewInput().Key("initials").Title("Patient Initials *").
				Description("Evaluation demonstrates mechanical low back pain consistent with need for external stabilization.").
				CharLimit(4).Value(&r.PatientInitials),
		),
		huh.NewGroup(
			multi("device", "Devices *", intake.DeviceOptions, &r.Device),
			single("length_of_need", "Length of Need *", intake.LengthOfNeedOptions, &r.LengthOfNeed),
			huh.NewInput().Key("date_delivered").Title("Date Delivered").Description("Format: YYYY-MM-DD").
				Value(&r.DateDelivered).Validate(validateOptionalDate),
			huh.NewInput().Key("rx_path").Title("Upload Prescription (Optional)").
				Description("Path to an image or PDF").Value(&s.rxPath),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

func optionsFor(opts []intake.Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		label := o.Label
		if o.Label != o.Value && o.Value != "" {
			label = o.Value + " - " + o.Label
		}
		out[i] = huh.NewOption(label, o.Value)
	}
	return out
}

func multi(key, title string, opts []intake.Option, value *[]string) *huh.MultiSelect[string] {
	return huh.NewMultiSelect[string]().Key(key).Title(title).Options(optionsFor(opts)...).Value(value)
}

func single(key, title string, opts []intake.Option, value *string) *huh.Select[string] {
	return huh.NewSelect[string]().Key(key).Title(title).Options(optionsFor(opts)...).Value(value)
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse(intake.DateLayout, s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateDOB(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	dob, err := time.ParseInLocation(intake.DateLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	if dob.After(time.Now()) {
		return fmt.Errorf("date of birth cannot be in the future")
	}
	return nil
}

// Init implements tea.Model
func (s *StepScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *StepScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if req := requestForKey(msg.String()); req != RequestNone {
			s.request = req
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.helpPanel.SetWidth(msg.Width / 2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
		s.helpPanel.SetNote(s.fieldNote(focused.GetKey()))
	}

	if s.form.State == huh.StateCompleted {
		s.request = RequestNext
	}

	return s, cmd
}

// fieldNote derives what the focused field currently means for the packet.
func (s *StepScreen) fieldNote(key string) string {
	switch key {
	case "dob":
		now := time.Now()
		dob, err := time.ParseInLocation(intake.DateLayout, strings.TrimSpace(s.record.DOB), time.Local)
		if err != nil || dob.After(now) {
			return ""
		}
		return fmt.Sprintf("Age %d", intake.AgeAt(dob, now))
	case "primary_ins":
		if s.insurance == "" {
			return ""
		}
		return "Bills to " + intake.LookupCompany(intake.Route(s.insurance).CompanyID).Name
	case "company":
		if s.company == "" {
			return ""
		}
		return "Overrides routing: bills to " + intake.LookupCompany(s.company).Name
	}
	return ""
}

// View implements tea.Model
func (s *StepScreen) View() string {
	title := components.TitleStyle.Render(
		fmt.Sprintf("Patient Intake - Step %d of %d: %s", s.step, intake.TotalSteps, intake.StepTitle(s.step)))

	return lipgloss.JoinVertical(lipgloss.Left,
		s.status,
		"",
		title,
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render(navHint),
	)
}

// Step returns the intake step the screen edits
func (s *StepScreen) Step() int { return s.step }

// Request returns the navigation asked for, RequestNone while editing
func (s *StepScreen) Request() Request { return s.request }

// Record returns the edited record
func (s *StepScreen) Record() intake.PatientRecord {
	r := s.record.Clone()
	if s.step == intake.StepDiagnosis {
		r.PrimaryICD = ""
		if s.primaryICD {
			r.PrimaryICD = intake.PrimaryICDOptions[0].Value
		}
	}
	return r
}

// Insurance returns the selected carrier on the insurance step
func (s *StepScreen) Insurance() string { return s.insurance }

// CompanyOverride returns the manually selected billing company, or ""
func (s *StepScreen) CompanyOverride() string { return s.company }

// PrescriptionPath returns the prescription file entered on the diagnosis step
func (s *StepScreen) PrescriptionPath() string { return strings.TrimSpace(s.rxPath) }
