package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/rs/zerolog"
)

const (
	// DefaultReleaseSettle is waited between releasing and re-acquiring the camera.
	DefaultReleaseSettle = 300 * time.Millisecond
	// DefaultAttachSettle is waited between acquiring the camera and attaching the preview.
	DefaultAttachSettle = 100 * time.Millisecond
)

// ErrNotLive is returned by Snapshot when no camera session is running.
var ErrNotLive = errors.New("camera is not live")

// Camera opens a video source.
type Camera interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an acquired camera handle.
type Stream interface {
	Tracks() []Track
	Frame(ctx context.Context) (image.Image, error)
}

// Track is one underlying media track of a Stream.
type Track interface {
	Stop()
	SetEnabled(enabled bool)
}

// Display is a preview surface a live Stream can be bound to.
type Display interface {
	Attach(s Stream) error
	Detach()
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// DeviceOptions configures a Device.
type DeviceOptions struct {
	Camera        Camera
	Display       Display
	Normalizer    Normalizer
	ReleaseSettle time.Duration
	AttachSettle  time.Duration
	Sleep         SleepFunc
	Logger        zerolog.Logger
}

// Device owns the exclusive camera handle. At most one Stream is held at a
// time and a new one is only opened after the previous one is released.
type Device struct {
	mu       sync.Mutex
	opts     DeviceOptions
	stream   Stream
	attached bool
	role     intake.CaptureRole
}

// NewDevice creates a Device. Zero settle delays fall back to the defaults;
// pass a negative value to disable a delay.
func NewDevice(opts DeviceOptions) *Device {
	if opts.ReleaseSettle == 0 {
		opts.ReleaseSettle = DefaultReleaseSettle
	}
	if opts.AttachSettle == 0 {
		opts.AttachSettle = DefaultAttachSettle
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Device{opts: opts}
}

// Normalizer returns the normalizer used for every still.
func (d *Device) Normalizer() Normalizer {
	return d.opts.Normalizer
}

// Live reports whether a camera session is running.
func (d *Device) Live() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stream != nil
}

// Role returns the document role of the running session.
func (d *Device) Role() intake.CaptureRole {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.role
}

// Start releases any held handle, waits for the driver to settle, acquires
// the camera and binds it to the display. On failure nothing is left held
// and the error wraps intake.ErrDeviceUnavailable, unless ctx was cancelled.
func (d *Device) Start(ctx context.Context, role intake.CaptureRole) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.releaseLocked()

	if err := ctx.Err(); err != nil {
		return err
	}
	if d.opts.Camera == nil {
		return &intake.DeviceError{Reason: "no camera configured"}
	}

	if err := d.opts.Sleep(ctx, d.opts.ReleaseSettle); err != nil {
		return err
	}

	stream, err := d.opts.Camera.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var devErr *intake.DeviceError
		if errors.As(err, &devErr) {
			return err
		}
		return &intake.DeviceError{Reason: "could not open camera", Err: err}
	}
	d.stream = stream
	d.role = role

	if err := d.opts.Sleep(ctx, d.opts.AttachSettle); err != nil {
		d.releaseLocked()
		return err
	}

	if d.opts.Display != nil {
		if err := d.opts.Display.Attach(stream); err != nil {
			d.releaseLocked()
			return &intake.DeviceError{Reason: "could not attach preview", Err: err}
		}
		d.attached = true
	}

	d.opts.Logger.Debug().Str("role", string(role)).Msg("camera live")
	return nil
}

// Snapshot grabs one frame, crops card documents, normalizes the still and
// releases the camera whether or not the capture succeeded.
func (d *Device) Snapshot(ctx context.Context) (intake.CaptureRole, *intake.Artifact, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.releaseLocked()

	if d.stream == nil {
		return "", nil, ErrNotLive
	}
	role := d.role

	frame, err := d.stream.Frame(ctx)
	if err != nil {
		return role, nil, fmt.Errorf("grabbing frame: %w", err)
	}

	var still image.Image = frame
	if role.IsCard() {
		still = CropCard(frame)
	}

	art, err := d.opts.Normalizer.Normalize(still)
	if err != nil {
		return role, nil, err
	}

	d.opts.Logger.Debug().
		Str("role", string(role)).
		Int("width", art.Width).
		Int("height", art.Height).
		Int("bytes", len(art.Data)).
		Msg("snapshot taken")
	return role, art, nil
}

// Stop releases the camera. It is safe to call at any time.
func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseLocked()
}

func (d *Device) releaseLocked() {
	if d.attached && d.opts.Display != nil {
		d.opts.Display.Detach()
	}
	d.attached = false

	if d.stream != nil {
		for _, t := range d.stream.Tracks() {
			t.Stop()
			t.SetEnabled(false)
		}
		d.opts.Logger.Debug().Str("role", string(d.role)).Msg("camera released")
	}
	d.stream = nil
	d.role = ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
