package screens

import (
	"github.com/mrsinham/intakeforge/internal/capture"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/mrsinham/intakeforge/internal/session"
)

// Request is the navigation a screen asks the wizard for when it finishes.
type Request int

const (
	RequestNone Request = iota
	RequestNext
	RequestBack
	RequestNewPatient
	RequestChangeEvent
	RequestQuit
)

// requestForKey maps the navigation keys shared by the intake screens.
func requestForKey(key string) Request {
	switch key {
	case "ctrl+c":
		return RequestQuit
	case "esc":
		return RequestBack
	case "ctrl+n":
		return RequestNewPatient
	case "ctrl+e":
		return RequestChangeEvent
	}
	return RequestNone
}

const navHint = "Enter: Next | Esc: Back | Ctrl+N: New patient | Ctrl+E: Change event"

// NoticeMsg asks the wizard to show the notice for Err.
type NoticeMsg struct {
	Err error
}

// CameraStartedMsg reports the outcome of acquiring the camera. Gen
// identifies the start request it answers.
type CameraStartedMsg struct {
	Gen  int
	Role intake.CaptureRole
	Err  error
}

// SnapshotMsg carries a still taken from the live camera.
type SnapshotMsg struct {
	Role     intake.CaptureRole
	Artifact *intake.Artifact
	Err      error
}

// PrintedMsg reports the outcome of delivering the packet.
type PrintedMsg struct {
	Result session.PrintResult
	Err    error
}

// GalleryMsg announces a new photo in the gallery folder.
type GalleryMsg struct {
	File capture.GalleryFile
}
