package wizard

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/components"
	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard/screens"
	"github.com/mrsinham/intakeforge/internal/capture"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/mrsinham/intakeforge/internal/persist"
	"github.com/mrsinham/intakeforge/internal/session"
	"github.com/rs/zerolog"
)

// Phase represents the current phase/screen of the wizard.
type Phase int

const (
	PhaseResume Phase = iota
	PhaseSetup
	PhaseCapture
	PhaseCamera
	PhaseIntake
	PhaseConfirm
	PhaseNotice
	PhaseComplete
)

// Options configures the wizard.
type Options struct {
	Controller *session.Controller
	// Gallery is optional; when set, new photos are offered on the capture screen.
	Gallery *capture.GalleryWatcher
	// Preset pre-fills the event setup screen.
	Preset *EventPreset
	Logger zerolog.Logger
}

// Wizard is the bubbletea model driving a session controller.
type Wizard struct {
	ctrl    *session.Controller
	gallery *capture.GalleryWatcher
	preset  *EventPreset
	logger  zerolog.Logger

	// Current phase, and the phase a notice or confirmation returns to
	phase      Phase
	returnTo   Phase
	pending    *persist.Snapshot
	newestShot *capture.GalleryFile

	// Screen instances
	resumeScreen    *screens.ResumeScreen
	setupScreen     *screens.SetupScreen
	captureScreen   *screens.CaptureScreen
	cameraScreen    *screens.CameraScreen
	stepScreen      *screens.StepScreen
	signatureScreen *screens.SignatureScreen
	reviewScreen    *screens.ReviewScreen
	confirmScreen   *screens.ConfirmScreen
	noticeScreen    *screens.NoticeScreen
	completeScreen  *screens.CompleteScreen

	cameraCancel context.CancelFunc
	cameraGen    int

	// Window size
	width  int
	height int

	quitting bool
}

// New creates a wizard. A pending snapshot is offered for resumption; a
// corrupt one is reported and the wizard starts at event setup.
func New(ctx context.Context, opts Options) *Wizard {
	w := &Wizard{
		ctrl:    opts.Controller,
		gallery: opts.Gallery,
		preset:  opts.Preset,
		logger:  opts.Logger,
	}

	if w.gallery != nil {
		if files, err := w.gallery.List(); err == nil && len(files) > 0 {
			w.newestShot = &files[0]
		}
	}

	snap, err := w.ctrl.Recover(ctx)
	switch {
	case err != nil:
		w.showNotice(err, PhaseSetup)
	case snap != nil:
		w.pending = snap
		w.phase = PhaseResume
		w.resumeScreen = screens.NewResumeScreen(snap)
	default:
		w.enterSetup()
	}

	return w
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	var cmd tea.Cmd
	switch w.phase {
	case PhaseResume:
		cmd = w.resumeScreen.Init()
	case PhaseSetup:
		cmd = w.setupScreen.Init()
	}
	return tea.Batch(cmd, w.waitGallery())
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height

	case screens.NoticeMsg:
		w.showNotice(msg.Err, w.phase)
		return w, nil

	case screens.GalleryMsg:
		f := msg.File
		w.newestShot = &f
		w.logger.Debug().Str("path", f.Path).Msg("gallery photo available")
		return w, w.waitGallery()

	case screens.CameraStartedMsg:
		return w.cameraStarted(msg)

	case screens.SnapshotMsg:
		return w.snapshotTaken(msg)

	case screens.PrintedMsg:
		return w.printed(msg)
	}

	switch w.phase {
	case PhaseResume:
		return w.updateResume(msg)
	case PhaseSetup:
		return w.updateSetup(msg)
	case PhaseCapture:
		return w.updateCapture(msg)
	case PhaseCamera:
		return w.updateCamera(msg)
	case PhaseIntake:
		return w.updateIntake(msg)
	case PhaseConfirm:
		return w.updateConfirm(msg)
	case PhaseNotice:
		return w.updateNotice(msg)
	case PhaseComplete:
		return w.updateComplete(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	if w.quitting {
		return ""
	}

	switch w.phase {
	case PhaseResume:
		return w.resumeScreen.View()
	case PhaseSetup:
		return w.setupScreen.View()
	case PhaseCapture:
		return w.captureScreen.View()
	case PhaseCamera:
		return w.cameraScreen.View()
	case PhaseIntake:
		return w.intakeView()
	case PhaseConfirm:
		return w.confirmScreen.View()
	case PhaseNotice:
		return w.noticeScreen.View()
	case PhaseComplete:
		return w.completeScreen.View()
	}

	return ""
}

func (w *Wizard) intakeView() string {
	switch w.ctrl.Step() {
	case intake.StepSignatures:
		return w.signatureScreen.View()
	case intake.StepReview:
		return w.reviewScreen.View()
	default:
		return w.stepScreen.View()
	}
}

// status renders the status bar from the controller.
func (w *Wizard) status() string {
	s := w.ctrl.Session()
	company := ""
	if s.Routing.CompanyID != "" {
		company = w.ctrl.Company().Name
	}
	return components.StatusBar(components.Status{
		Online:    w.ctrl.Online(),
		Event:     s.EventName,
		Date:      s.EventDate,
		Company:   company,
		LastSaved: w.ctrl.LastSaved(),
		SaveErr:   w.ctrl.LastSaveError(),
	})
}

// resize replays the last window size to a freshly built screen.
func (w *Wizard) resize() tea.Cmd {
	if w.width == 0 {
		return nil
	}
	size := tea.WindowSizeMsg{Width: w.width, Height: w.height}
	return func() tea.Msg { return size }
}

func (w *Wizard) waitGallery() tea.Cmd {
	if w.gallery == nil {
		return nil
	}
	files := w.gallery.Files()
	return func() tea.Msg {
		f, ok := <-files
		if !ok {
			return nil
		}
		return screens.GalleryMsg{File: f}
	}
}

func (w *Wizard) quit() (tea.Model, tea.Cmd) {
	w.stopCamera()
	w.quitting = true
	return w, tea.Quit
}

// Phase transitions

func (w *Wizard) enterSetup() tea.Cmd {
	s := w.ctrl.Session()
	name, date := s.EventName, s.EventDate
	if name == "" && w.preset != nil {
		name, date = w.preset.Name, w.preset.Date
	}
	w.phase = PhaseSetup
	w.setupScreen = screens.NewSetupScreen(name, date, w.status())
	return tea.Batch(w.setupScreen.Init(), w.resize())
}

func (w *Wizard) enterCapture() tea.Cmd {
	gallery := ""
	if w.newestShot != nil {
		gallery = w.newestShot.Path
	}
	w.phase = PhaseCapture
	w.captureScreen = screens.NewCaptureScreen(w.ctrl.Session().Captures, gallery, w.status())
	return tea.Batch(w.captureScreen.Init(), w.resize())
}

// enterIntake builds the screen for the controller's current step.
func (w *Wizard) enterIntake() tea.Cmd {
	w.phase = PhaseIntake
	status := w.status()
	rec := w.ctrl.Record()

	var cmd tea.Cmd
	switch w.ctrl.Step() {
	case intake.StepIdentity:
		w.stepScreen = screens.NewIdentityStep(rec, status)
	case intake.StepInsurance:
		w.stepScreen = screens.NewInsuranceStep(rec, w.ctrl.Routing(), status)
	case intake.StepHistory:
		w.stepScreen = screens.NewHistoryStep(rec, status)
	case intake.StepClinical:
		w.stepScreen = screens.NewClinicalStep(rec, status)
	case intake.StepDiagnosis:
		w.stepScreen = screens.NewDiagnosisStep(rec, status)
	case intake.StepSignatures:
		w.signatureScreen = screens.NewSignatureScreen(w.ctrl, status)
		cmd = w.signatureScreen.Init()
	case intake.StepReview:
		w.reviewScreen = screens.NewReviewScreen(w.ctrl.Checklist(), status)
		cmd = w.reviewScreen.Init()
	}
	if s := w.ctrl.Step(); s >= intake.StepIdentity && s <= intake.StepDiagnosis {
		cmd = w.stepScreen.Init()
	}

	return tea.Batch(cmd, w.resize())
}

// enterPhase rebuilds the screen of a phase a notice or confirmation returns to.
func (w *Wizard) enterPhase(p Phase) tea.Cmd {
	switch p {
	case PhaseSetup:
		return w.enterSetup()
	case PhaseCapture, PhaseCamera:
		return w.enterCapture()
	case PhaseIntake:
		// Keep the signature screen so the focused role and strokes stay put.
		if w.ctrl.Step() == intake.StepSignatures && w.signatureScreen != nil {
			w.phase = PhaseIntake
			return nil
		}
		return w.enterIntake()
	case PhaseComplete:
		w.phase = PhaseComplete
		return nil
	}
	return w.enterSetup()
}

func (w *Wizard) showNotice(err error, returnTo Phase) {
	n := intake.NoticeFor(err)
	if n == nil {
		return
	}
	w.logger.Warn().Err(err).Str("kind", string(n.Kind)).Msg("notice shown")
	w.noticeScreen = screens.NewNoticeScreen(n)
	w.returnTo = returnTo
	w.phase = PhaseNotice
}

func (w *Wizard) confirm(action session.Action, returnTo Phase) tea.Cmd {
	w.stopCamera()
	w.confirmScreen = screens.NewConfirmScreen(action)
	w.returnTo = returnTo
	w.phase = PhaseConfirm
	return w.confirmScreen.Init()
}

// Camera

func (w *Wizard) startCamera(role intake.CaptureRole) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	w.cameraCancel = cancel
	w.cameraGen++
	w.cameraScreen = screens.NewCameraScreen(role)
	w.phase = PhaseCamera

	ctrl, gen := w.ctrl, w.cameraGen
	return func() tea.Msg {
		return screens.CameraStartedMsg{Gen: gen, Role: role, Err: ctrl.StartCamera(ctx, role)}
	}
}

func (w *Wizard) stopCamera() {
	if w.cameraCancel != nil {
		w.cameraCancel()
		w.cameraCancel = nil
	}
	w.ctrl.CancelCamera()
}

func (w *Wizard) cameraStarted(msg screens.CameraStartedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != w.cameraGen {
		// Superseded by a later start, which owns the device now.
		return w, nil
	}
	if w.phase != PhaseCamera || w.cameraScreen == nil || w.cameraScreen.Role() != msg.Role {
		// The operator left the camera screen while it was starting.
		w.ctrl.CancelCamera()
		return w, nil
	}
	if msg.Err != nil {
		w.stopCamera()
		w.showNotice(msg.Err, PhaseCapture)
		return w, nil
	}
	w.cameraScreen.SetLive()
	return w, nil
}

func (w *Wizard) snapshotTaken(msg screens.SnapshotMsg) (tea.Model, tea.Cmd) {
	w.stopCamera()
	if w.phase != PhaseCamera {
		return w, nil
	}
	if msg.Err != nil {
		w.showNotice(msg.Err, PhaseCapture)
		return w, nil
	}
	w.ctrl.AcceptCapture(msg.Role, msg.Artifact)
	return w, w.enterCapture()
}

// Phase updates

func (w *Wizard) updateResume(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.resumeScreen.Update(msg)
	if rs, ok := model.(*screens.ResumeScreen); ok {
		w.resumeScreen = rs
	}

	if w.resumeScreen.Cancelled() {
		return w.quit()
	}

	if !w.resumeScreen.Done() {
		return w, cmd
	}

	snap := w.pending
	w.pending = nil
	if !w.resumeScreen.Resume() {
		if err := w.ctrl.Discard(context.Background()); err != nil {
			w.logger.Error().Err(err).Msg("discarding saved session")
		}
		return w, w.enterSetup()
	}

	w.ctrl.Resume(snap)
	switch w.ctrl.Mode() {
	case intake.ModeCapture:
		return w, w.enterCapture()
	case intake.ModeIntake:
		return w, w.enterIntake()
	}
	return w, w.enterSetup()
}

func (w *Wizard) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.setupScreen.Update(msg)
	if ss, ok := model.(*screens.SetupScreen); ok {
		w.setupScreen = ss
	}

	if w.setupScreen.Cancelled() {
		return w.quit()
	}

	if !w.setupScreen.Done() {
		return w, cmd
	}

	name, date := w.setupScreen.Event()
	if err := w.ctrl.StartIntake(name, date); err != nil {
		w.showNotice(err, PhaseSetup)
		return w, nil
	}

	if path := w.setupScreen.PresetPath(); path != "" {
		if err := SaveEventPreset(path, &EventPreset{Name: name, Date: date}); err != nil {
			w.showNotice(err, PhaseCapture)
			return w, nil
		}
	}

	return w, w.enterCapture()
}

func (w *Wizard) updateCapture(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.captureScreen.Update(msg)
	if cs, ok := model.(*screens.CaptureScreen); ok {
		w.captureScreen = cs
	}

	switch w.captureScreen.Request() {
	case screens.RequestQuit:
		return w.quit()
	case screens.RequestChangeEvent:
		return w, w.confirm(session.ActionChangeEvent, PhaseCapture)
	case screens.RequestNext:
		return w.captureChosen(w.captureScreen.Choice())
	}

	return w, cmd
}

func (w *Wizard) captureChosen(choice screens.CaptureChoice) (tea.Model, tea.Cmd) {
	var err error
	switch choice.Kind {
	case screens.CaptureCamera:
		return w, w.startCamera(choice.Role)
	case screens.CaptureFile:
		err = w.ctrl.IngestFile(choice.Role, choice.Path)
	case screens.CaptureGallery:
		if w.newestShot == nil {
			err = fmt.Errorf("no gallery photo available")
		} else {
			err = w.ctrl.IngestFile(choice.Role, w.newestShot.Path)
		}
	case screens.CaptureClear:
		w.ctrl.ClearCapture(choice.Role)
	case screens.CaptureContinue:
		if err := w.ctrl.ContinueToIntake(); err != nil {
			w.showNotice(err, PhaseCapture)
			return w, nil
		}
		return w, w.enterIntake()
	}

	if err != nil {
		w.showNotice(err, PhaseCapture)
		return w, nil
	}
	return w, w.enterCapture()
}

func (w *Wizard) updateCamera(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.cameraScreen.Update(msg)
	if cs, ok := model.(*screens.CameraScreen); ok {
		w.cameraScreen = cs
	}

	if w.cameraScreen.Cancelled() {
		w.stopCamera()
		return w, w.enterCapture()
	}

	if w.cameraScreen.TakeShot() {
		ctrl := w.ctrl
		ctx := context.Background()
		return w, func() tea.Msg {
			role, art, err := ctrl.TakeSnapshot(ctx)
			return screens.SnapshotMsg{Role: role, Artifact: art, Err: err}
		}
	}

	return w, cmd
}

func (w *Wizard) updateIntake(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch w.ctrl.Step() {
	case intake.StepSignatures:
		return w.updateSignatures(msg)
	case intake.StepReview:
		return w.updateReview(msg)
	default:
		return w.updateStep(msg)
	}
}

// navigate handles the requests shared by every intake screen.
func (w *Wizard) navigate(req screens.Request) (tea.Model, tea.Cmd) {
	var err error
	switch req {
	case screens.RequestNext:
		err = w.ctrl.Next()
	case screens.RequestBack:
		err = w.ctrl.Back()
	case screens.RequestNewPatient:
		return w, w.confirm(session.ActionNewPatient, PhaseIntake)
	case screens.RequestChangeEvent:
		return w, w.confirm(session.ActionChangeEvent, PhaseIntake)
	case screens.RequestQuit:
		return w.quit()
	default:
		return w, nil
	}

	if err != nil {
		w.showNotice(err, PhaseIntake)
		return w, nil
	}
	return w, w.enterIntake()
}

func (w *Wizard) updateStep(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.stepScreen.Update(msg)
	if ss, ok := model.(*screens.StepScreen); ok {
		w.stepScreen = ss
	}

	req := w.stepScreen.Request()
	if req == screens.RequestNone {
		return w, cmd
	}

	if err := w.applyStep(w.stepScreen); err != nil {
		// The edits are kept; only the failing part is reported.
		w.showNotice(err, PhaseIntake)
		return w, nil
	}
	return w.navigate(req)
}

// applyStep writes the screen's working copy back into the session.
func (w *Wizard) applyStep(s *screens.StepScreen) error {
	rec := s.Record()
	w.ctrl.Edit(func(r *intake.PatientRecord) { *r = rec })

	switch s.Step() {
	case intake.StepInsurance:
		if s.Insurance() != rec.PrimaryIns {
			w.ctrl.SetInsurance(s.Insurance())
		}
		if id := s.CompanyOverride(); id != "" {
			if err := w.ctrl.OverrideCompany(id); err != nil {
				return err
			}
		}
	case intake.StepDiagnosis:
		w.ctrl.SetInitials(rec.PatientInitials)
		if path := s.PrescriptionPath(); path != "" {
			if err := w.ctrl.IngestFile(intake.CapturePrescription, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Wizard) updateSignatures(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.signatureScreen.Update(msg)
	if ss, ok := model.(*screens.SignatureScreen); ok {
		w.signatureScreen = ss
	}

	if req := w.signatureScreen.Request(); req != screens.RequestNone {
		w.ctrl.ReleaseSignature()
		return w.navigate(req)
	}
	return w, cmd
}

func (w *Wizard) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.reviewScreen.Update(msg)
	if rs, ok := model.(*screens.ReviewScreen); ok {
		w.reviewScreen = rs
	}

	req := w.reviewScreen.Request()
	if req != screens.RequestNext {
		if req == screens.RequestNone {
			return w, cmd
		}
		return w.navigate(req)
	}

	action, step := w.reviewScreen.Action()
	if action == screens.ReviewGoTo {
		if err := w.ctrl.GoTo(step); err != nil {
			w.showNotice(err, PhaseIntake)
			return w, nil
		}
		return w, w.enterIntake()
	}

	// Print runs on the update goroutine: the controller has a single writer.
	res, err := w.ctrl.Print(context.Background())
	printed := screens.PrintedMsg{Result: res, Err: err}
	return w, func() tea.Msg { return printed }
}

func (w *Wizard) printed(msg screens.PrintedMsg) (tea.Model, tea.Cmd) {
	if msg.Result.Path == "" {
		w.showNotice(msg.Err, PhaseIntake)
		return w, nil
	}

	w.logger.Info().Str("path", msg.Result.Path).Int("dicom", len(msg.Result.DICOMFiles)).Msg("packet generated")
	rec := w.ctrl.Record()
	w.completeScreen = screens.NewCompleteScreen(msg.Result, rec.FullName())
	w.phase = PhaseComplete

	// The packet exists; an unopened viewer or a failed DICOM export is
	// still worth telling the operator about.
	if msg.Err != nil {
		w.showNotice(msg.Err, PhaseComplete)
	}
	return w, nil
}

func (w *Wizard) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.confirmScreen.Update(msg)
	if cs, ok := model.(*screens.ConfirmScreen); ok {
		w.confirmScreen = cs
	}

	if !w.confirmScreen.Done() {
		return w, cmd
	}

	if !w.confirmScreen.Confirmed() {
		return w, w.enterPhase(w.returnTo)
	}

	action := w.confirmScreen.Action()
	w.ctrl.Perform(context.Background(), action)
	w.logger.Info().Stringer("action", action).Msg("session reset")

	if action == session.ActionChangeEvent {
		return w, w.enterSetup()
	}
	return w, w.enterCapture()
}

func (w *Wizard) updateNotice(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.noticeScreen.Update(msg)
	if ns, ok := model.(*screens.NoticeScreen); ok {
		w.noticeScreen = ns
	}

	if w.noticeScreen.Done() {
		return w, w.enterPhase(w.returnTo)
	}

	return w, cmd
}

func (w *Wizard) updateComplete(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.completeScreen.Update(msg)
	if cs, ok := model.(*screens.CompleteScreen); ok {
		w.completeScreen = cs
	}

	switch w.completeScreen.Request() {
	case screens.RequestNewPatient:
		w.ctrl.NewPatient(context.Background())
		return w, w.enterCapture()
	case screens.RequestBack:
		return w, w.enterIntake()
	case screens.RequestQuit:
		return w.quit()
	}

	return w, cmd
}

// Phase returns the current phase.
func (w *Wizard) Phase() Phase { return w.phase }

// Run starts the interactive intake wizard and blocks until the operator quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Controller == nil {
		return errors.New("wizard: controller is required")
	}

	if opts.Gallery != nil {
		if err := opts.Gallery.Start(); err != nil {
			opts.Logger.Warn().Err(err).Msg("gallery watcher not started")
			opts.Gallery = nil
		} else {
			defer func() {
				if err := opts.Gallery.Stop(); err != nil {
					opts.Logger.Warn().Err(err).Msg("stopping gallery watcher")
				}
			}()
		}
	}

	w := New(ctx, opts)
	p := tea.NewProgram(w,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running wizard: %w", err)
	}

	return nil
}
