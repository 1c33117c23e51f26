package intake

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDeviceUnavailable reports that the camera could not be acquired.
	ErrDeviceUnavailable = errors.New("camera unavailable")
	// ErrEmptySignature reports a save attempted on a blank signature surface.
	ErrEmptySignature = errors.New("signature is empty")
	// ErrMissingRequiredField reports a transition attempted without required data.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrSnapshotCorrupt reports a stored snapshot that could not be decoded.
	ErrSnapshotCorrupt = errors.New("saved session is corrupt")
	// ErrPopupBlocked reports that the packet could not be opened for display.
	ErrPopupBlocked = errors.New("packet window could not be opened")
)

// DeviceError carries the reason a camera could not be acquired.
type DeviceError struct {
	Reason string
	Err    error
}

func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("camera unavailable: %s: %v", e.Reason, e.Err)
	}
	return "camera unavailable: " + e.Reason
}

func (e *DeviceError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrDeviceUnavailable, e.Err}
	}
	return []error{ErrDeviceUnavailable}
}

// MissingFieldError lists the fields that blocked a transition.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequiredField }

// CorruptSnapshotError wraps the decode failure of a stored snapshot.
type CorruptSnapshotError struct {
	Err error
}

func (e *CorruptSnapshotError) Error() string {
	return fmt.Sprintf("saved session is corrupt: %v", e.Err)
}

func (e *CorruptSnapshotError) Unwrap() []error { return []error{ErrSnapshotCorrupt, e.Err} }

// PopupBlockedError wraps the failure to open the rendered packet.
type PopupBlockedError struct {
	Path string
	Err  error
}

func (e *PopupBlockedError) Error() string {
	return fmt.Sprintf("packet window could not be opened for %s: %v", e.Path, e.Err)
}

func (e *PopupBlockedError) Unwrap() []error { return []error{ErrPopupBlocked, e.Err} }
