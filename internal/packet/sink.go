package packet

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/rs/zerolog"
)

// Opener displays a rendered packet to the operator.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// CommandOpener opens files with an external program.
type CommandOpener struct {
	// Command is the program and leading arguments; the path is appended.
	Command []string
}

// DefaultOpener returns the platform's file opener.
func DefaultOpener() CommandOpener {
	switch runtime.GOOS {
	case "darwin":
		return CommandOpener{Command: []string{"open"}}
	case "windows":
		return CommandOpener{Command: []string{"rundll32", "url.dll,FileProtocolHandler"}}
	default:
		return CommandOpener{Command: []string{"xdg-open"}}
	}
}

func (o CommandOpener) Open(ctx context.Context, path string) error {
	if len(o.Command) == 0 {
		return fmt.Errorf("no opener configured")
	}
	args := append(append([]string{}, o.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, o.Command[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", o.Command[0], err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}

// HTMLSink renders packets to HTML files in a directory and opens them.
type HTMLSink struct {
	Dir    string
	Opener Opener
	Logger zerolog.Logger
}

// Deliver renders p to <Dir>/<Last>_<First>_<eventDate>.html and opens it.
// If the file was written but could not be opened the error is an
// *intake.PopupBlockedError and the returned path is still valid.
func (s *HTMLSink) Deliver(ctx context.Context, p *Packet) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating packet directory: %w", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, p); err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, p.FileName()+".html")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("writing packet: %w", err)
	}
	s.Logger.Info().Str("path", path).Int("bytes", buf.Len()).Msg("packet written")

	if s.Opener == nil {
		return path, nil
	}
	if err := s.Opener.Open(ctx, path); err != nil {
		s.Logger.Warn().Err(err).Str("path", path).Msg("could not open packet")
		return path, &intake.PopupBlockedError{Path: path, Err: err}
	}
	return path, nil
}
