package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventLog records the order of device interactions.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeTrack struct {
	log     *eventLog
	id      int
	stopped bool
	enabled bool
}

func (t *fakeTrack) Stop() {
	t.stopped = true
	t.log.add("stop %d", t.id)
}

func (t *fakeTrack) SetEnabled(enabled bool) {
	t.enabled = enabled
	t.log.add("enabled %d %v", t.id, enabled)
}

type fakeStream struct {
	track    *fakeTrack
	frame    image.Image
	frameErr error
}

func (s *fakeStream) Tracks() []Track { return []Track{s.track} }

func (s *fakeStream) Frame(ctx context.Context) (image.Image, error) {
	if s.frameErr != nil {
		return nil, s.frameErr
	}
	return s.frame, nil
}

type fakeCamera struct {
	log     *eventLog
	opened  []*fakeStream
	openErr error
	frame   image.Image
}

func (c *fakeCamera) Open(ctx context.Context) (Stream, error) {
	if c.openErr != nil {
		c.log.add("open failed")
		return nil, c.openErr
	}
	id := len(c.opened) + 1
	s := &fakeStream{track: &fakeTrack{log: c.log, id: id, enabled: true}, frame: c.frame}
	c.opened = append(c.opened, s)
	c.log.add("open %d", id)
	return s, nil
}

type fakeDisplay struct {
	log       *eventLog
	attachErr error
	attached  bool
}

func (d *fakeDisplay) Attach(s Stream) error {
	if d.attachErr != nil {
		return d.attachErr
	}
	d.attached = true
	d.log.add("attach")
	return nil
}

func (d *fakeDisplay) Detach() {
	d.attached = false
	d.log.add("detach")
}

func newTestDevice(log *eventLog, cam *fakeCamera, disp *fakeDisplay) *Device {
	opts := DeviceOptions{
		Camera: cam,
		Sleep: func(ctx context.Context, d time.Duration) error {
			log.add("sleep %s", d)
			return ctx.Err()
		},
	}
	if disp != nil {
		opts.Display = disp
	}
	return NewDevice(opts)
}

func TestDevice_StartOrdering(t *testing.T) {
	log := &eventLog{}
	cam := &fakeCamera{log: log}
	disp := &fakeDisplay{log: log}
	d := newTestDevice(log, cam, disp)

	require.NoError(t, d.Start(context.Background(), intake.CaptureInsuranceFront))
	require.NoError(t, d.Start(context.Background(), intake.CaptureInsuranceBack))

	assert.Equal(t, []string{
		"sleep 300ms", "open 1", "sleep 100ms", "attach",
		"detach", "stop 1", "enabled 1 false",
		"sleep 300ms", "open 2", "sleep 100ms", "attach",
	}, log.all())
	assert.True(t, d.Live())
	assert.Equal(t, intake.CaptureInsuranceBack, d.Role())
}

func TestDevice_OpenFailureIsUnavailable(t *testing.T) {
	log := &eventLog{}
	cam := &fakeCamera{log: log, openErr: errors.New("NotAllowedError")}
	disp := &fakeDisplay{log: log}
	d := newTestDevice(log, cam, disp)

	err := d.Start(context.Background(), intake.CaptureLicense)
	require.Error(t, err)
	assert.ErrorIs(t, err, intake.ErrDeviceUnavailable)
	assert.False(t, d.Live())
	assert.False(t, disp.attached)
}

func TestDevice_NoCamera(t *testing.T) {
	d := NewDevice(DeviceOptions{})
	err := d.Start(context.Background(), intake.CaptureLicense)
	assert.ErrorIs(t, err, intake.ErrDeviceUnavailable)
}

func TestDevice_AttachFailureReleases(t *testing.T) {
	log := &eventLog{}
	cam := &fakeCamera{log: log}
	disp := &fakeDisplay{log: log, attachErr: errors.New("no surface")}
	d := newTestDevice(log, cam, disp)

	err := d.Start(context.Background(), intake.CaptureLicense)
	assert.ErrorIs(t, err, intake.ErrDeviceUnavailable)
	assert.False(t, d.Live())
	require.Len(t, cam.opened, 1)
	assert.True(t, cam.opened[0].track.stopped)
	assert.False(t, cam.opened[0].track.enabled)
}

func TestDevice_CancelDuringAttachSettleReleases(t *testing.T) {
	log := &eventLog{}
	cam := &fakeCamera{log: log}
	ctx, cancel := context.WithCancel(context.Background())

	d := NewDevice(DeviceOptions{
		Camera: cam,
		Sleep: func(_ context.Context, dur time.Duration) error {
			if dur == DefaultAttachSettle {
				cancel()
				return context.Canceled
			}
			return nil
		},
	})

	err := d.Start(ctx, intake.CaptureInsuranceFront)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, intake.ErrDeviceUnavailable)
	assert.False(t, d.Live())
	require.Len(t, cam.opened, 1)
	assert.True(t, cam.opened[0].track.stopped)
}

func TestDevice_CancelledBeforeStartDoesNotOpen(t *testing.T) {
	log := &eventLog{}
	cam := &fakeCamera{log: log}
	d := newTestDevice(log, cam, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, d.Start(ctx, intake.CaptureLicense), context.Canceled)
	assert.Empty(t, cam.opened)
}

func TestDevice_SnapshotReleases(t *testing.T) {
	log := &eventLog{}
	cam := &fakeCamera{log: log, frame: solid(1280, 720)}
	disp := &fakeDisplay{log: log}
	d := newTestDevice(log, cam, disp)

	require.NoError(t, d.Start(context.Background(), intake.CaptureInsuranceFront))
	role, art, err := d.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, intake.CaptureInsuranceFront, role)
	assert.Equal(t, CardWidth, art.Width)
	assert.Equal(t, CardHeight, art.Height)
	assert.Equal(t, intake.MIMEJPEG, art.MIME)
	assert.False(t, d.Live())
	assert.False(t, disp.attached)
	assert.True(t, cam.opened[0].track.stopped)
}

func TestDevice_SnapshotPrescriptionNotCropped(t *testing.T) {
	log := &eventLog{}
	cam := &fakeCamera{log: log, frame: solid(800, 1000)}
	d := newTestDevice(log, cam, nil)

	require.NoError(t, d.Start(context.Background(), intake.CapturePrescription))
	_, art, err := d.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 600, art.Width)
	assert.Equal(t, 480, art.Height)
}

func TestDevice_SnapshotFailureStillReleases(t *testing.T) {
	log := &eventLog{}
	cam := &fakeCamera{log: log}
	d := newTestDevice(log, cam, nil)

	require.NoError(t, d.Start(context.Background(), intake.CaptureLicense))
	cam.opened[0].frameErr = errors.New("driver hiccup")

	_, _, err := d.Snapshot(context.Background())
	require.Error(t, err)
	assert.False(t, d.Live())
	assert.True(t, cam.opened[0].track.stopped)
}

func TestDevice_SnapshotNotLive(t *testing.T) {
	d := NewDevice(DeviceOptions{})
	_, _, err := d.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrNotLive)
}

func TestDevice_StopIdempotent(t *testing.T) {
	log := &eventLog{}
	cam := &fakeCamera{log: log}
	d := newTestDevice(log, cam, nil)

	d.Stop()
	require.NoError(t, d.Start(context.Background(), intake.CaptureLicense))
	d.Stop()
	d.Stop()

	assert.False(t, d.Live())
	stops := 0
	for _, e := range log.all() {
		if e == "stop 1" {
			stops++
		}
	}
	assert.Equal(t, 1, stops)
}

func TestCommandCamera_MissingDevice(t *testing.T) {
	cam := &CommandCamera{DevicePath: t.TempDir() + "/video9"}
	_, err := cam.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, intake.ErrDeviceUnavailable)
}
