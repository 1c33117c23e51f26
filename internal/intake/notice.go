package intake

import (
	"errors"
	"fmt"
	"strings"
)

// NoticeKind classifies an operator notice.
type NoticeKind string

const (
	NoticeDeviceUnavailable NoticeKind = "device-unavailable"
	NoticeEmptySignature    NoticeKind = "empty-signature"
	NoticeMissingField      NoticeKind = "missing-field"
	NoticeSnapshotCorrupt   NoticeKind = "snapshot-corrupt"
	NoticePopupBlocked      NoticeKind = "popup-blocked"
	NoticeError             NoticeKind = "error"
)

// Notice is what the operator sees when an operation fails.
// Blocking notices must be acknowledged before the wizard continues.
type Notice struct {
	Kind     NoticeKind
	Title    string
	Message  string
	Hint     string
	Blocking bool
}

// NoticeFor converts an error into the notice shown to the operator.
// It returns nil for a nil error.
func NoticeFor(err error) *Notice {
	if err == nil {
		return nil
	}

	var (
		devErr     *DeviceError
		missingErr *MissingFieldError
		popupErr   *PopupBlockedError
	)

	switch {
	case errors.As(err, &devErr):
		return &Notice{
			Kind:    NoticeDeviceUnavailable,
			Title:   "Camera unavailable",
			Message: devErr.Reason,
			Hint:    "Choose a photo file instead, or check the camera permission and connection.",
		}
	case errors.Is(err, ErrDeviceUnavailable):
		return &Notice{
			Kind:    NoticeDeviceUnavailable,
			Title:   "Camera unavailable",
			Message: err.Error(),
			Hint:    "Choose a photo file instead.",
		}
	case errors.Is(err, ErrEmptySignature):
		return &Notice{
			Kind:     NoticeEmptySignature,
			Title:    "Signature required",
			Message:  "Please sign before saving.",
			Blocking: true,
		}
	case errors.As(err, &missingErr):
		return &Notice{
			Kind:    NoticeMissingField,
			Title:   "Required information missing",
			Message: fmt.Sprintf("Please fill in: %s", strings.Join(missingErr.Fields, ", ")),
		}
	case errors.Is(err, ErrMissingRequiredField):
		return &Notice{
			Kind:    NoticeMissingField,
			Title:   "Required information missing",
			Message: err.Error(),
		}
	case errors.Is(err, ErrSnapshotCorrupt):
		return &Notice{
			Kind:    NoticeSnapshotCorrupt,
			Title:   "Saved session discarded",
			Message: "The saved session could not be read and was removed. Starting fresh.",
		}
	case errors.As(err, &popupErr):
		return &Notice{
			Kind:    NoticePopupBlocked,
			Title:   "Could not open packet",
			Message: fmt.Sprintf("The packet was saved to %s but could not be opened.", popupErr.Path),
			Hint:    "Open the file manually, or set packet.opener in the configuration.",
		}
	case errors.Is(err, ErrPopupBlocked):
		return &Notice{
			Kind:    NoticePopupBlocked,
			Title:   "Could not open packet",
			Message: err.Error(),
			Hint:    "Open the file manually, or set packet.opener in the configuration.",
		}
	default:
		return &Notice{
			Kind:    NoticeError,
			Title:   "Something went wrong",
			Message: err.Error(),
		}
	}
}

