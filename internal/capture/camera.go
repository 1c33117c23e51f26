package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/mrsinham/intakeforge/internal/intake"
)

// DefaultDevicePath is the video device used when none is configured.
const DefaultDevicePath = "/dev/video0"

// DefaultGrabCommand grabs a single PNG frame from a V4L2 device to stdout.
// {device} is replaced by the device path.
var DefaultGrabCommand = []string{
	"ffmpeg", "-hide_banner", "-loglevel", "error",
	"-f", "v4l2", "-i", "{device}",
	"-frames:v", "1", "-f", "image2pipe", "-vcodec", "png", "-",
}

// CommandCamera acquires a local video device and grabs frames by running an
// external command that writes one encoded image to stdout.
type CommandCamera struct {
	DevicePath string
	Command    []string
}

// Open checks that the device exists and can be opened for reading.
func (c *CommandCamera) Open(ctx context.Context) (Stream, error) {
	path := c.DevicePath
	if path == "" {
		path = DefaultDevicePath
	}

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &intake.DeviceError{Reason: fmt.Sprintf("no camera found at %s", path), Err: err}
	case errors.Is(err, fs.ErrPermission):
		return nil, &intake.DeviceError{Reason: fmt.Sprintf("permission denied for %s", path), Err: err}
	case err != nil:
		return nil, &intake.DeviceError{Reason: fmt.Sprintf("cannot open %s", path), Err: err}
	}
	_ = f.Close()

	command := c.Command
	if len(command) == 0 {
		command = DefaultGrabCommand
	}
	args := make([]string, len(command))
	for i, a := range command {
		args[i] = strings.ReplaceAll(a, "{device}", path)
	}

	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, &intake.DeviceError{Reason: fmt.Sprintf("frame grabber %q not installed", args[0]), Err: err}
	}

	return &commandStream{args: args, track: &commandTrack{enabled: true}}, nil
}

type commandStream struct {
	args  []string
	track *commandTrack
}

func (s *commandStream) Tracks() []Track {
	return []Track{s.track}
}

func (s *commandStream) Frame(ctx context.Context) (image.Image, error) {
	if !s.track.active() {
		return nil, errors.New("stream stopped")
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.args[0], s.args[1:]...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running %s: %w: %s", s.args[0], err, strings.TrimSpace(stderr.String()))
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	return img, nil
}

type commandTrack struct {
	mu      sync.Mutex
	enabled bool
	stopped bool
}

func (t *commandTrack) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *commandTrack) SetEnabled(enabled bool) {
	t.mu.Lock()
	t.enabled = enabled
	t.mu.Unlock()
}

func (t *commandTrack) active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled && !t.stopped
}
