package packet

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegArtifact(t *testing.T, w, h int) *intake.Artifact {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{200, 180, uint8(x), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}))
	return &intake.Artifact{MIME: intake.MIMEJPEG, Data: buf.Bytes(), Width: w, Height: h}
}

func sampleInput(t *testing.T) Input {
	rec := intake.NewPatientRecord("2024-05-01")
	rec.FirstName = "Jane"
	rec.LastName = "Doe"
	rec.PrimaryIns = "United Healthcare PPO"
	rec.PrimaryID = "UHC123"
	rec.DOB = "1980-02-03"
	rec.Sex = "F"

	return Input{
		EventName: "Spring Fair",
		EventDate: "2024-05-01",
		Patient:   rec,
		Routing:   intake.Route(rec.PrimaryIns),
		Captures: intake.CaptureSet{
			intake.CaptureInsuranceFront: jpegArtifact(t, 64, 40),
		},
		Signatures: intake.SignatureSet{
			intake.SignatureProvider: {Artifact: &intake.Artifact{MIME: intake.MIMEPNG, Data: []byte("png-bytes"), Width: 700, Height: 150}},
		},
		Now: time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC),
	}
}

func TestAssemble_RequiresName(t *testing.T) {
	in := sampleInput(t)
	in.Patient.LastName = "  "

	_, err := Assemble(in)
	require.ErrorIs(t, err, intake.ErrMissingRequiredField)

	var missing *intake.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"last name"}, missing.Fields)
}

func TestAssemble_Populated(t *testing.T) {
	in := sampleInput(t)
	p, err := Assemble(in)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", p.FullName())
	assert.Equal(t, intake.CompanyNJBack, p.Company.ID)
	assert.True(t, p.AutoRouted)
	require.NotNil(t, p.Signatures[intake.SignatureProvider])
	assert.Nil(t, p.Signatures[intake.SignatureHIPAA])
	assert.Equal(t, "Doe_Jane_2024-05-01", p.FileName())
}

func TestAssemble_OwnsItsData(t *testing.T) {
	in := sampleInput(t)
	p, err := Assemble(in)
	require.NoError(t, err)

	in.Patient.FirstName = "Changed"
	require.NoError(t, in.Patient.Toggle("device", "L0631"))
	in.Signatures[intake.SignatureProvider].Artifact.Data[0] = 'X'
	delete(in.Captures, intake.CaptureInsuranceFront)

	assert.Equal(t, "Jane", p.Patient.FirstName)
	assert.True(t, p.Patient.Has("device", "L0631"))
	assert.Equal(t, byte('p'), p.Signatures[intake.SignatureProvider].Data[0])
	assert.NotNil(t, p.Captures[intake.CaptureInsuranceFront])
}

func TestAssemble_RestoredSignature(t *testing.T) {
	in := sampleInput(t)
	in.Signatures[intake.SignatureAcknowledgment] = &intake.SignatureEntry{Restored: true}

	p, err := Assemble(in)
	require.NoError(t, err)
	assert.True(t, p.Signed[intake.SignatureAcknowledgment])
	assert.Nil(t, p.Signatures[intake.SignatureAcknowledgment])
}

func TestChecklist(t *testing.T) {
	in := sampleInput(t)
	items := Checklist(&in.Patient, in.Routing, in.Captures, in.Signatures)

	byLabel := map[string]ChecklistItem{}
	for _, it := range items {
		byLabel[it.Label] = it
	}
	assert.True(t, byLabel["Patient name"].Done)
	assert.True(t, byLabel["Provider Attestation signature"].Done)
	assert.False(t, byLabel["HIPAA Acknowledgment signature"].Done)
	assert.True(t, byLabel["HIPAA Acknowledgment signature"].Optional)
	assert.False(t, byLabel["Driver's License"].Done)
	assert.Equal(t, intake.StepSignatures, byLabel["Patient Acknowledgment signature"].Step)
}

func TestRender(t *testing.T) {
	p, err := Assemble(sampleInput(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p))
	html := buf.String()

	assert.Contains(t, html, "<title>Doe_Jane_2024-05-01</title>")
	assert.Contains(t, html, "NJback Chiropractic Center, LLC")
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "Lower back pain")
	assert.Contains(t, html, `src="data:image/png;base64,`)
	assert.Contains(t, html, `src="data:image/jpeg;base64,`)
	assert.Contains(t, html, "Lumbar Sacral Orthosis")
	assert.Contains(t, html, "SUPPORTING DOCUMENTS")
}

func TestRender_EscapesInput(t *testing.T) {
	in := sampleInput(t)
	in.Patient.OtherNotes = "<script>alert(1)</script>"
	p, err := Assemble(in)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p))
	assert.NotContains(t, buf.String(), "<script>")
}

type stubOpener struct {
	err    error
	opened string
}

func (o *stubOpener) Open(ctx context.Context, path string) error {
	o.opened = path
	return o.err
}

func TestHTMLSink_Deliver(t *testing.T) {
	p, err := Assemble(sampleInput(t))
	require.NoError(t, err)

	opener := &stubOpener{}
	sink := &HTMLSink{Dir: t.TempDir(), Opener: opener, Logger: zerolog.Nop()}

	path, err := sink.Deliver(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Doe_Jane_2024-05-01.html", filepath.Base(path))
	assert.Equal(t, path, opener.opened)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
}

func TestHTMLSink_OpenerFailureIsPopupBlocked(t *testing.T) {
	p, err := Assemble(sampleInput(t))
	require.NoError(t, err)

	sink := &HTMLSink{Dir: t.TempDir(), Opener: &stubOpener{err: errors.New("no display")}}
	path, err := sink.Deliver(context.Background(), p)

	assert.ErrorIs(t, err, intake.ErrPopupBlocked)
	assert.FileExists(t, path)
	n := intake.NoticeFor(err)
	assert.NotEmpty(t, n.Hint)
}

func TestFileName_Sanitized(t *testing.T) {
	p := &Packet{EventDate: "2024-05-01", Patient: intake.PatientRecord{FirstName: "Mary Ann", LastName: "O/Neil"}}
	assert.Equal(t, "O-Neil_Mary-Ann_2024-05-01", p.FileName())
}
