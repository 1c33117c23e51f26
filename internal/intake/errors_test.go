package intake

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomy_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	tests := []struct {
		name     string
		err      error
		sentinel error
		kind     NoticeKind
		blocking bool
	}{
		{"device", &DeviceError{Reason: "no camera", Err: cause}, ErrDeviceUnavailable, NoticeDeviceUnavailable, false},
		{"signature", fmt.Errorf("saving provider: %w", ErrEmptySignature), ErrEmptySignature, NoticeEmptySignature, true},
		{"missing", &MissingFieldError{Fields: []string{"event name"}}, ErrMissingRequiredField, NoticeMissingField, false},
		{"corrupt", &CorruptSnapshotError{Err: cause}, ErrSnapshotCorrupt, NoticeSnapshotCorrupt, false},
		{"popup", &PopupBlockedError{Path: "/tmp/x.html", Err: cause}, ErrPopupBlocked, NoticePopupBlocked, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tc.err, tc.sentinel)
			}
			n := NoticeFor(tc.err)
			if n == nil {
				t.Fatal("NoticeFor returned nil")
			}
			if n.Kind != tc.kind {
				t.Errorf("Kind = %s, want %s", n.Kind, tc.kind)
			}
			if n.Blocking != tc.blocking {
				t.Errorf("Blocking = %v, want %v", n.Blocking, tc.blocking)
			}
		})
	}
}

func TestDeviceError_KeepsCause(t *testing.T) {
	cause := errors.New("busy")
	err := &DeviceError{Reason: "open", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("DeviceError should unwrap to its cause")
	}
}

func TestNoticeFor_Nil(t *testing.T) {
	if NoticeFor(nil) != nil {
		t.Error("NoticeFor(nil) should be nil")
	}
}

func TestNoticeFor_PopupHint(t *testing.T) {
	n := NoticeFor(&PopupBlockedError{Path: "p.html", Err: errors.New("x")})
	if n.Hint == "" {
		t.Error("popup notice should carry a remediation hint")
	}
}
