package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxIngestBytes bounds the size of an imported file.
const MaxIngestBytes = 32 << 20

// ErrUnsupportedDocument is returned for files that are neither a decodable
// image nor, for prescriptions, a PDF.
var ErrUnsupportedDocument = errors.New("unsupported document format")

var pdfMagic = []byte("%PDF-")

// Ingest reads a document from r and routes images through the normalizer.
// PDFs are kept as-is for the prescription role.
func (n Normalizer) Ingest(role intake.CaptureRole, r io.Reader) (*intake.Artifact, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxIngestBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if len(data) > MaxIngestBytes {
		return nil, fmt.Errorf("document larger than %d bytes", MaxIngestBytes)
	}

	if bytes.HasPrefix(data, pdfMagic) {
		if role != intake.CapturePrescription {
			return nil, fmt.Errorf("%w: PDF is only accepted for %s", ErrUnsupportedDocument, intake.CapturePrescription.Label())
		}
		now := time.Now
		if n.Now != nil {
			now = n.Now
		}
		return &intake.Artifact{MIME: intake.MIMEPDF, Data: data, CapturedAt: now()}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
	}

	return n.Normalize(img)
}

// IngestFile opens path and ingests it.
func (n Normalizer) IngestFile(role intake.CaptureRole, path string) (*intake.Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return n.Ingest(role, f)
}
