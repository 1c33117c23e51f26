package intake

import (
	"encoding/base64"
	"time"
)

// MIME types produced by the capture and signature pipelines.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEPDF  = "application/pdf"
)

// Artifact is an encoded image (or, for prescriptions, a PDF) held in memory.
type Artifact struct {
	MIME       string
	Data       []byte
	Width      int
	Height     int
	CapturedAt time.Time
}

// IsImage reports whether the artifact holds a raster image.
func (a *Artifact) IsImage() bool {
	return a != nil && (a.MIME == MIMEJPEG || a.MIME == MIMEPNG)
}

// DataURI returns the artifact as an RFC 2397 data URI.
func (a *Artifact) DataURI() string {
	if a == nil {
		return ""
	}
	return "data:" + a.MIME + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// SignatureEntry is a saved signature. After a resume only the presence of the
// signature is known, so Artifact is nil and Restored is set.
type SignatureEntry struct {
	Artifact *Artifact
	Restored bool
}

// SignatureSet maps each signed role to its entry. Absent roles are unsigned.
type SignatureSet map[SignatureRole]*SignatureEntry

// Signed reports whether role has a saved or restored signature.
func (s SignatureSet) Signed(role SignatureRole) bool {
	return s[role] != nil
}

// Flags returns the presence of each role, for snapshots.
func (s SignatureSet) Flags() map[SignatureRole]bool {
	flags := make(map[SignatureRole]bool, 3)
	for _, role := range AllSignatureRoles() {
		flags[role] = s.Signed(role)
	}
	return flags
}

// CaptureSet maps each captured document role to its artifact.
type CaptureSet map[CaptureRole]*Artifact

// Has reports whether role has been captured.
func (c CaptureSet) Has(role CaptureRole) bool {
	return c[role] != nil
}
