package screens

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/mrsinham/intakeforge/internal/packet"
	"github.com/mrsinham/intakeforge/internal/session"
	"github.com/mrsinham/intakeforge/internal/signature"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

type fakePad struct {
	pressed  []intake.SignatureRole
	cleared  []intake.SignatureRole
	released int
	moves    int
	saveErr  error
	signed   map[intake.SignatureRole]*intake.SignatureEntry
}

func (p *fakePad) PressSignature(role intake.SignatureRole, x, y float64, vp signature.Viewport) error {
	p.pressed = append(p.pressed, role)
	return nil
}

func (p *fakePad) MoveSignature(x, y float64) bool {
	p.moves++
	return true
}

func (p *fakePad) ReleaseSignature() { p.released++ }

func (p *fakePad) ClearSignature(role intake.SignatureRole) { p.cleared = append(p.cleared, role) }

func (p *fakePad) SaveSignature(role intake.SignatureRole) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.signed[role] = &intake.SignatureEntry{}
	return nil
}

func (p *fakePad) SignaturePreview(role intake.SignatureRole, cols, rows int) string {
	return strings.Repeat(strings.Repeat(" ", cols)+"\n", rows-1) + strings.Repeat(" ", cols)
}

func (p *fakePad) Signature(role intake.SignatureRole) *intake.SignatureEntry { return p.signed[role] }

func newFakePad() *fakePad {
	return &fakePad{signed: map[intake.SignatureRole]*intake.SignatureEntry{}}
}

func TestSignatureScreen_Keys(t *testing.T) {
	pad := newFakePad()
	s := NewSignatureScreen(pad, "")
	roles := intake.AllSignatureRoles()

	if s.Role() != roles[0] {
		t.Fatalf("Expected focus on %s, got %s", roles[0], s.Role())
	}

	s.Update(tea.KeyMsg{Type: tea.KeyTab})
	if s.Role() != roles[1] {
		t.Errorf("Expected tab to focus %s, got %s", roles[1], s.Role())
	}
	s.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	s.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if s.Role() != roles[len(roles)-1] {
		t.Errorf("Expected shift+tab to wrap to %s, got %s", roles[len(roles)-1], s.Role())
	}

	s.Update(runes("c"))
	if len(pad.cleared) != 1 || pad.cleared[0] != s.Role() {
		t.Errorf("Expected the focused role to be cleared, got %v", pad.cleared)
	}

	s.Update(runes("s"))
	if pad.Signature(s.Role()) == nil {
		t.Error("Expected the focused role to be saved")
	}

	if s.Request() != RequestNone {
		t.Errorf("Expected no request while signing, got %v", s.Request())
	}
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if s.Request() != RequestNext {
		t.Errorf("Expected RequestNext, got %v", s.Request())
	}
}

func TestSignatureScreen_SaveErrorBecomesNotice(t *testing.T) {
	pad := newFakePad()
	pad.saveErr = intake.ErrEmptySignature
	s := NewSignatureScreen(pad, "")

	_, cmd := s.Update(runes("s"))
	if cmd == nil {
		t.Fatal("Expected a notice command")
	}
	msg, ok := cmd().(NoticeMsg)
	if !ok {
		t.Fatalf("Expected NoticeMsg, got %T", cmd())
	}
	if !errors.Is(msg.Err, intake.ErrEmptySignature) {
		t.Errorf("Expected ErrEmptySignature, got %v", msg.Err)
	}
}

func TestSignatureScreen_MouseInsidePad(t *testing.T) {
	pad := newFakePad()
	s := NewSignatureScreen(pad, "")
	s.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	vp := s.Viewport()

	// Outside the pad.
	s.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(pad.pressed) != 0 {
		t.Errorf("Expected a press outside the pad to be ignored, got %v", pad.pressed)
	}

	s.Update(tea.MouseMsg{X: int(vp.X) + 2, Y: int(vp.Y) + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(pad.pressed) != 1 {
		t.Fatalf("Expected one press, got %v", pad.pressed)
	}

	s.Update(tea.MouseMsg{X: int(vp.X) + 3, Y: int(vp.Y) + 1, Action: tea.MouseActionRelease})
	if pad.released == 0 {
		t.Error("Expected the stroke to be released")
	}
}

func TestSignatureScreen_PointerLeavingPadEndsStroke(t *testing.T) {
	pad := newFakePad()
	s := NewSignatureScreen(pad, "")
	s.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	vp := s.Viewport()

	s.Update(tea.MouseMsg{X: int(vp.X) + 2, Y: int(vp.Y) + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	s.Update(tea.MouseMsg{X: int(vp.X) + 4, Y: int(vp.Y) + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if pad.moves != 1 {
		t.Fatalf("Expected one move inside the pad, got %d", pad.moves)
	}

	s.Update(tea.MouseMsg{X: int(vp.X + vp.Width) + 5, Y: int(vp.Y) + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if pad.moves != 1 {
		t.Errorf("Expected motion outside the pad not to draw, got %d moves", pad.moves)
	}
	if pad.released != 1 {
		t.Errorf("Expected leaving the pad to end the stroke, got %d releases", pad.released)
	}
}

func TestReviewScreen_Options(t *testing.T) {
	checklist := []packet.ChecklistItem{
		{Label: "Patient name", Done: true, Step: intake.StepIdentity},
		{Label: "Insurance", Done: false, Step: intake.StepInsurance},
		{Label: "Provider signature", Done: false, Step: intake.StepSignatures},
	}
	s := NewReviewScreen(checklist, "")

	if action, _ := s.Action(); action != ReviewPrint {
		t.Errorf("Expected print to be preselected, got %v", action)
	}

	s.action = stepPrefix + "2"
	action, step := s.Action()
	if action != ReviewGoTo || step != intake.StepInsurance {
		t.Errorf("Expected go to step 2, got %v %d", action, step)
	}

	view := s.View()
	for _, want := range []string{"Patient name", "Insurance", "Provider signature"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in the review view", want)
		}
	}
}

func TestReviewScreen_NavigationKeys(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want Request
	}{
		{tea.KeyMsg{Type: tea.KeyEsc}, RequestBack},
		{tea.KeyMsg{Type: tea.KeyCtrlN}, RequestNewPatient},
		{tea.KeyMsg{Type: tea.KeyCtrlE}, RequestChangeEvent},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, RequestQuit},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			s := NewReviewScreen(nil, "")
			s.Update(tt.key)
			if s.Request() != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, s.Request())
			}
		})
	}
}

func TestNoticeScreen_Blocking(t *testing.T) {
	blocking := NewNoticeScreen(intake.NoticeFor(intake.ErrEmptySignature))
	blocking.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if blocking.Done() {
		t.Error("Expected a blocking notice to ignore Esc")
	}
	blocking.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !blocking.Done() {
		t.Error("Expected Enter to acknowledge a blocking notice")
	}

	plain := NewNoticeScreen(intake.NoticeFor(errors.New("boom")))
	plain.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !plain.Done() {
		t.Error("Expected Esc to dismiss a non-blocking notice")
	}
	if !strings.Contains(plain.View(), "boom") {
		t.Error("Expected the error message in the notice view")
	}
}

func TestCameraScreen_Shot(t *testing.T) {
	s := NewCameraScreen(intake.CaptureInsuranceFront)

	s.Update(runes(" "))
	if s.TakeShot() {
		t.Error("Expected no shot before the camera is live")
	}

	s.SetLive()
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !s.TakeShot() {
		t.Error("Expected a shot once live")
	}
	if s.TakeShot() {
		t.Error("Expected a single shot per request")
	}

	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if s.TakeShot() {
		t.Error("Expected no second shot while capturing")
	}

	s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !s.Cancelled() {
		t.Error("Expected Esc to cancel")
	}
}

func TestCompleteScreen_Requests(t *testing.T) {
	result := session.PrintResult{
		Path:       "/tmp/Diaz_Ana_2024-05-01.html",
		DICOMFiles: []string{"/tmp/dicom/1.dcm", "/tmp/dicom/2.dcm"},
	}

	tests := []struct {
		key  tea.KeyMsg
		want Request
	}{
		{runes("n"), RequestNewPatient},
		{runes("b"), RequestBack},
		{runes("q"), RequestQuit},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			s := NewCompleteScreen(result, "Ana Diaz")
			s.Update(tt.key)
			if s.Request() != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, s.Request())
			}
		})
	}

	view := NewCompleteScreen(result, "Ana Diaz").View()
	if !strings.Contains(view, "2 in /tmp/dicom") {
		t.Error("Expected the DICOM summary in the completion view")
	}
}

func TestConfirmScreen_EscDeclines(t *testing.T) {
	s := NewConfirmScreen(session.ActionChangeEvent)
	if s.Action() != session.ActionChangeEvent {
		t.Errorf("Expected %s, got %s", session.ActionChangeEvent, s.Action())
	}

	s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !s.Done() || s.Confirmed() {
		t.Error("Expected Esc to decline")
	}
}

func TestCaptureScreen_EscContinues(t *testing.T) {
	s := NewCaptureScreen(intake.CaptureSet{}, "", "")
	s.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if s.Request() != RequestNext {
		t.Fatalf("Expected RequestNext, got %v", s.Request())
	}
	if s.Choice().Kind != CaptureContinue {
		t.Errorf("Expected continue, got %s", s.Choice().Kind)
	}
}

func TestFirstMissing(t *testing.T) {
	captured := intake.CaptureSet{
		intake.CaptureInsuranceFront: &intake.Artifact{MIME: intake.MIMEJPEG},
	}
	if got := firstMissing(captured); got != intake.CaptureInsuranceBack {
		t.Errorf("Expected %s, got %s", intake.CaptureInsuranceBack, got)
	}
}

func TestValidateDOB(t *testing.T) {
	tests := []struct {
		dob     string
		wantErr bool
	}{
		{"", false},
		{"1994-05-01", false},
		{time.Now().Format(intake.DateLayout), false},
		{time.Now().AddDate(0, 0, 2).Format(intake.DateLayout), true},
		{"05/01/1994", true},
	}

	for _, tt := range tests {
		t.Run(tt.dob, func(t *testing.T) {
			if err := validateDOB(tt.dob); (err != nil) != tt.wantErr {
				t.Errorf("validateDOB(%q) error = %v, wantErr %v", tt.dob, err, tt.wantErr)
			}
		})
	}
}

func TestStepScreen_FieldNote(t *testing.T) {
	rec := intake.EmptyPatientRecord()
	rec.DOB = time.Now().AddDate(-30, 0, -1).Format(intake.DateLayout)
	identity := NewIdentityStep(rec, "")
	if got := identity.fieldNote("dob"); got != "Age 30" {
		t.Errorf("Expected %q, got %q", "Age 30", got)
	}

	rec.DOB = time.Now().AddDate(1, 0, 0).Format(intake.DateLayout)
	if got := NewIdentityStep(rec, "").fieldNote("dob"); got != "" {
		t.Errorf("Expected no age for a future date, got %q", got)
	}

	rec.PrimaryIns = "Horizon"
	insurance := NewInsuranceStep(rec, intake.RoutingDecision{}, "")
	want := "Bills to " + intake.LookupCompany(intake.CompanyNJBack).Name
	if got := insurance.fieldNote("primary_ins"); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := insurance.fieldNote("company"); got != "" {
		t.Errorf("Expected no override note, got %q", got)
	}
}
