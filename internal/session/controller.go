package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrsinham/intakeforge/internal/capture"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/mrsinham/intakeforge/internal/packet"
	"github.com/mrsinham/intakeforge/internal/persist"
	"github.com/mrsinham/intakeforge/internal/signature"
	"github.com/rs/zerolog"
)

// saveTimeout bounds a single snapshot write.
const saveTimeout = 2 * time.Second

// ErrWrongMode is returned when an operation is not available in the current mode.
var ErrWrongMode = errors.New("operation not available in this mode")

// Options configures a Controller. Only Device is required for camera
// operations; a nil Store disables persistence and a nil Sink disables printing.
type Options struct {
	Device   *capture.Device
	Pad      *signature.Pad
	Store    *persist.Manager
	Sink     packet.Sink
	Exporter *packet.DICOMExporter
	// Online reports connectivity; the controller only reads it.
	Online func() bool
	Now    func() time.Time
	Logger zerolog.Logger
}

// Controller owns a Session and is its only writer. It is driven from a
// single goroutine; StartCamera, TakeSnapshot and CancelCamera only touch
// the capture device and may run elsewhere.
type Controller struct {
	opts    Options
	s       Session
	logger  zerolog.Logger
	saveErr error
}

// New creates a controller in setup mode.
func New(opts Options) *Controller {
	if opts.Pad == nil {
		opts.Pad = signature.NewPad()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Device == nil {
		opts.Device = capture.NewDevice(capture.DeviceOptions{Logger: opts.Logger})
	}
	id := uuid.NewString()
	return &Controller{
		opts:   opts,
		s:      newSession(id),
		logger: opts.Logger.With().Str("session", id).Logger(),
	}
}

// Session returns a copy of the current state.
func (c *Controller) Session() Session {
	return c.s.clone()
}

// Mode returns the current mode.
func (c *Controller) Mode() intake.Mode { return c.s.Mode }

// Step returns the current intake step, or 0 outside intake mode.
func (c *Controller) Step() int { return c.s.Step }

// Record returns a copy of the patient record.
func (c *Controller) Record() intake.PatientRecord { return c.s.Record.Clone() }

// Routing returns the billing decision.
func (c *Controller) Routing() intake.RoutingDecision { return c.s.Routing }

// Company returns the billing company, defaulting when none is routed yet.
func (c *Controller) Company() intake.Company { return intake.LookupCompany(c.s.Routing.CompanyID) }

// Online reports the connectivity signal.
func (c *Controller) Online() bool {
	if c.opts.Online == nil {
		return true
	}
	return c.opts.Online()
}

// LastSaved returns when the snapshot was last written.
func (c *Controller) LastSaved() time.Time { return c.s.LastSaved }

// LastSaveError returns the error of the most recent snapshot write, if any.
func (c *Controller) LastSaveError() error { return c.saveErr }

// StartIntake moves from setup to capture. The event name and date are required.
func (c *Controller) StartIntake(eventName, eventDate string) error {
	eventName, eventDate = strings.TrimSpace(eventName), strings.TrimSpace(eventDate)

	var missing []string
	if eventName == "" {
		missing = append(missing, "event name")
	}
	if eventDate == "" {
		missing = append(missing, "event date")
	}
	if len(missing) > 0 {
		return &intake.MissingFieldError{Fields: missing}
	}

	c.s.EventName = eventName
	c.s.EventDate = eventDate
	c.resetPatient()
	c.setMode(intake.ModeCapture)

	c.logger.Info().Str("event", eventName).Str("date", eventDate).Msg("event started")
	return nil
}

// ContinueToIntake moves from capture to the first intake step. Document
// capture is optional.
func (c *Controller) ContinueToIntake() error {
	if c.s.Mode != intake.ModeCapture {
		return fmt.Errorf("continue to intake from %s: %w", c.s.Mode, ErrWrongMode)
	}
	c.setMode(intake.ModeIntake)
	c.s.Step = intake.StepIdentity
	c.changed()
	return nil
}

// Next advances one intake step; it stays put on the last step.
func (c *Controller) Next() error {
	return c.GoTo(min(c.s.Step+1, intake.TotalSteps))
}

// Back returns one intake step; it stays put on the first step.
func (c *Controller) Back() error {
	return c.GoTo(max(c.s.Step-1, intake.StepIdentity))
}

// GoTo jumps to an intake step.
func (c *Controller) GoTo(step int) error {
	if c.s.Mode != intake.ModeIntake {
		return fmt.Errorf("go to step %d from %s: %w", step, c.s.Mode, ErrWrongMode)
	}
	if !intake.ValidStep(step) {
		return fmt.Errorf("invalid step %d", step)
	}
	if step != c.s.Step {
		c.opts.Pad.Release()
	}
	c.s.Step = step
	c.changed()
	return nil
}

// NewPatient clears the patient, captures, signatures and routing, keeps the
// event and returns to capture mode. Callers confirm ActionNewPatient first.
func (c *Controller) NewPatient(ctx context.Context) {
	c.resetPatient()
	c.setMode(intake.ModeCapture)
	c.discardSnapshot(ctx)
	c.logger.Info().Msg("new patient")
}

// ChangeEvent clears everything, deletes the saved session and returns to
// setup. Callers confirm ActionChangeEvent first.
func (c *Controller) ChangeEvent(ctx context.Context) {
	c.s.EventName = ""
	c.s.EventDate = ""
	c.resetPatient()
	c.s.Record = intake.EmptyPatientRecord()
	c.setMode(intake.ModeSetup)
	c.discardSnapshot(ctx)
	c.logger.Info().Msg("event changed")
}

// Perform runs a confirmed action.
func (c *Controller) Perform(ctx context.Context, a Action) {
	switch a {
	case ActionNewPatient:
		c.NewPatient(ctx)
	case ActionChangeEvent:
		c.ChangeEvent(ctx)
	}
}

// Edit applies fn to the patient record, then re-derives the age and drops
// duplicate list entries.
func (c *Controller) Edit(fn func(r *intake.PatientRecord)) {
	fn(&c.s.Record)
	c.s.Record.SetDOB(c.s.Record.DOB, c.opts.Now())
	for _, f := range intake.ListFields() {
		_ = c.s.Record.SetValues(f, c.s.Record.Values(f))
	}
	c.changed()
}

// SetDOB stores the date of birth and recomputes the age.
func (c *Controller) SetDOB(dob string) {
	c.s.Record.SetDOB(strings.TrimSpace(dob), c.opts.Now())
	c.changed()
}

// SetInitials stores the patient's initials.
func (c *Controller) SetInitials(initials string) {
	c.s.Record.SetInitials(initials)
	c.changed()
}

// SetInsurance stores the insurance name and routes the claim from it.
func (c *Controller) SetInsurance(name string) {
	c.s.Record.PrimaryIns = name
	c.s.Routing = intake.Route(name)
	c.logger.Debug().Str("company", c.s.Routing.CompanyID).Msg("claim routed")
	c.changed()
}

// OverrideCompany bills the claim to a specific company. It does not clear
// the auto-routed flag.
func (c *Controller) OverrideCompany(id string) error {
	if !intake.KnownCompany(id) {
		return fmt.Errorf("unknown company: %q", id)
	}
	c.s.Routing.CompanyID = id
	c.changed()
	return nil
}

// Toggle flips value in a list field of the record.
func (c *Controller) Toggle(field, value string) error {
	if err := c.s.Record.Toggle(field, value); err != nil {
		return err
	}
	c.changed()
	return nil
}

// StartCamera acquires the camera for role.
func (c *Controller) StartCamera(ctx context.Context, role intake.CaptureRole) error {
	return c.opts.Device.Start(ctx, role)
}

// TakeSnapshot grabs a still from the running camera and releases it. The
// result is stored with AcceptCapture.
func (c *Controller) TakeSnapshot(ctx context.Context) (intake.CaptureRole, *intake.Artifact, error) {
	return c.opts.Device.Snapshot(ctx)
}

// CancelCamera releases the camera.
func (c *Controller) CancelCamera() {
	c.opts.Device.Stop()
}

// CameraLive reports whether the camera is acquired.
func (c *Controller) CameraLive() bool {
	return c.opts.Device.Live()
}

// AcceptCapture stores a captured document.
func (c *Controller) AcceptCapture(role intake.CaptureRole, art *intake.Artifact) {
	if art == nil {
		return
	}
	c.s.Captures[role] = art
	c.logger.Info().Str("role", string(role)).Str("mime", art.MIME).Int("bytes", len(art.Data)).Msg("document captured")
	c.changed()
}

// Ingest normalizes a document read from r and stores it.
func (c *Controller) Ingest(role intake.CaptureRole, r io.Reader) error {
	art, err := c.opts.Device.Normalizer().Ingest(role, r)
	if err != nil {
		return err
	}
	c.AcceptCapture(role, art)
	return nil
}

// IngestFile normalizes the document at path and stores it.
func (c *Controller) IngestFile(role intake.CaptureRole, path string) error {
	art, err := c.opts.Device.Normalizer().IngestFile(role, path)
	if err != nil {
		return err
	}
	c.AcceptCapture(role, art)
	return nil
}

// ClearCapture drops a captured document.
func (c *Controller) ClearCapture(role intake.CaptureRole) {
	delete(c.s.Captures, role)
	c.changed()
}

// PressSignature starts a stroke on role's surface.
func (c *Controller) PressSignature(role intake.SignatureRole, x, y float64, vp signature.Viewport) error {
	return c.opts.Pad.Press(role, x, y, vp)
}

// MoveSignature extends the current stroke.
func (c *Controller) MoveSignature(x, y float64) bool {
	return c.opts.Pad.Move(x, y)
}

// ReleaseSignature ends the current stroke.
func (c *Controller) ReleaseSignature() {
	c.opts.Pad.Release()
}

// ClearSignature blanks role's surface; a saved signature stays until the next save.
func (c *Controller) ClearSignature(role intake.SignatureRole) {
	c.opts.Pad.Clear(role)
}

// SignaturePreview renders role's surface for the terminal.
func (c *Controller) SignaturePreview(role intake.SignatureRole, cols, rows int) string {
	return c.opts.Pad.Surface(role).Preview(cols, rows)
}

// SignatureBlank reports whether role's surface has no ink.
func (c *Controller) SignatureBlank(role intake.SignatureRole) bool {
	return c.opts.Pad.IsBlank(role)
}

// Signature returns the saved signature for role, or nil.
func (c *Controller) Signature(role intake.SignatureRole) *intake.SignatureEntry {
	return c.s.Signatures[role]
}

// SaveSignature stores role's surface as its signature. A blank surface is
// rejected with intake.ErrEmptySignature and the saved signature is kept.
func (c *Controller) SaveSignature(role intake.SignatureRole) error {
	art, err := c.opts.Pad.Export(role)
	if err != nil {
		return err
	}
	c.s.Signatures[role] = &intake.SignatureEntry{Artifact: art}
	c.logger.Info().Str("role", string(role)).Msg("signature saved")
	c.changed()
	return nil
}

// Checklist summarizes what has been collected.
func (c *Controller) Checklist() []packet.ChecklistItem {
	return packet.Checklist(&c.s.Record, c.s.Routing, c.s.Captures, c.s.Signatures)
}

// AssemblePacket builds the packet from the current session.
func (c *Controller) AssemblePacket() (*packet.Packet, error) {
	if c.s.Mode != intake.ModeIntake {
		return nil, fmt.Errorf("assemble packet from %s: %w", c.s.Mode, ErrWrongMode)
	}
	return packet.Assemble(packet.Input{
		EventName:  c.s.EventName,
		EventDate:  c.s.EventDate,
		Patient:    c.s.Record,
		Routing:    c.s.Routing,
		Captures:   c.s.Captures,
		Signatures: c.s.Signatures,
		Now:        c.opts.Now(),
	})
}

// PrintResult describes where a delivered packet went.
type PrintResult struct {
	Path       string
	DICOMFiles []string
}

// Print assembles the packet and hands it to the sink, then exports the
// captured documents when an exporter is configured. A sink that cannot
// display the packet yields an intake.ErrPopupBlocked error alongside a
// valid result.
func (c *Controller) Print(ctx context.Context) (PrintResult, error) {
	var res PrintResult
	if c.opts.Sink == nil {
		return res, errors.New("no packet sink configured")
	}

	p, err := c.AssemblePacket()
	if err != nil {
		return res, err
	}

	path, sinkErr := c.opts.Sink.Deliver(ctx, p)
	res.Path = path
	if path == "" {
		return res, sinkErr
	}

	var exportErr error
	if c.opts.Exporter != nil {
		res.DICOMFiles, exportErr = c.opts.Exporter.Export(p)
		if exportErr != nil {
			exportErr = fmt.Errorf("exporting documents: %w", exportErr)
		}
	}

	c.logger.Info().Str("path", path).Int("dicom", len(res.DICOMFiles)).Msg("packet delivered")
	return res, errors.Join(sinkErr, exportErr)
}

// Recover returns the saved session, if any. A corrupt snapshot is deleted
// and reported as intake.ErrSnapshotCorrupt.
func (c *Controller) Recover(ctx context.Context) (*persist.Snapshot, error) {
	if c.opts.Store == nil {
		return nil, nil
	}
	return c.opts.Store.Pending(ctx)
}

// Resume restores a saved session. Signatures come back as presence flags
// and captured documents are not restored.
func (c *Controller) Resume(snap *persist.Snapshot) {
	c.setMode(snap.Mode)
	c.s.Step = 0
	if snap.Mode == intake.ModeIntake {
		c.s.Step = min(max(snap.Step, intake.StepIdentity), intake.TotalSteps)
	}
	c.s.EventName = snap.EventName
	c.s.EventDate = snap.EventDate
	c.s.Record = snap.Data.Clone()
	c.s.Routing = intake.RoutingDecision{CompanyID: snap.Company, AutoRouted: snap.AutoRouted}
	c.s.Captures = intake.CaptureSet{}
	c.s.Signatures = intake.SignatureSet{}
	for role, signed := range snap.Signatures {
		if signed {
			c.s.Signatures[role] = &intake.SignatureEntry{Restored: true}
		}
	}
	c.opts.Pad.Reset()
	c.s.LastSaved = snap.Timestamp

	c.logger.Info().Str("mode", string(snap.Mode)).Int("step", c.s.Step).Msg("session resumed")
}

// Discard deletes the saved session.
func (c *Controller) Discard(ctx context.Context) error {
	if c.opts.Store == nil {
		return nil
	}
	return c.opts.Store.Discard(ctx)
}

// Snapshot returns the durable projection of the session.
func (c *Controller) Snapshot() *persist.Snapshot {
	return &persist.Snapshot{
		Mode:       c.s.Mode,
		Step:       c.s.Step,
		Company:    c.s.Routing.CompanyID,
		EventDate:  c.s.EventDate,
		EventName:  c.s.EventName,
		Data:       c.s.Record.Clone(),
		Signatures: c.s.Signatures.Flags(),
		AutoRouted: c.s.Routing.AutoRouted,

		HasInsuranceCardFront: c.s.Captures.Has(intake.CaptureInsuranceFront),
		HasInsuranceCardBack:  c.s.Captures.Has(intake.CaptureInsuranceBack),
		HasDriversLicense:     c.s.Captures.Has(intake.CaptureLicense),
		HasRx:                 c.s.Captures.Has(intake.CapturePrescription),
	}
}

// changed persists the session while an intake is in progress.
func (c *Controller) changed() {
	if c.opts.Store == nil || c.s.Mode != intake.ModeIntake || c.s.Step < 1 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	snap := c.Snapshot()
	if err := c.opts.Store.Save(ctx, snap); err != nil {
		c.saveErr = err
		c.logger.Error().Err(err).Msg("saving session")
		return
	}
	c.saveErr = nil
	c.s.LastSaved = snap.Timestamp
}

// setMode switches mode and always releases the camera.
func (c *Controller) setMode(m intake.Mode) {
	c.opts.Device.Stop()
	c.opts.Pad.Release()
	if c.s.Mode != m {
		c.logger.Debug().Str("from", string(c.s.Mode)).Str("to", string(m)).Msg("mode change")
	}
	c.s.Mode = m
	if m != intake.ModeIntake {
		c.s.Step = 0
	}
}

func (c *Controller) resetPatient() {
	c.s.Record = intake.NewPatientRecord(c.s.EventDate)
	c.s.Routing = intake.RoutingDecision{}
	c.s.Signatures = intake.SignatureSet{}
	c.s.Captures = intake.CaptureSet{}
	c.opts.Pad.Reset()
}

func (c *Controller) discardSnapshot(ctx context.Context) {
	if c.opts.Store == nil {
		return
	}
	if err := c.opts.Store.Discard(ctx); err != nil {
		c.logger.Error().Err(err).Msg("discarding saved session")
	}
}
