package capture

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func TestIngest_ImageIsNormalized(t *testing.T) {
	art, err := DefaultNormalizer().Ingest(intake.CaptureLicense, bytes.NewReader(pngBytes(t, 900, 1600)))
	require.NoError(t, err)
	assert.Equal(t, intake.MIMEJPEG, art.MIME)
	assert.Equal(t, 600, art.Width)
	assert.True(t, art.Width >= art.Height)
}

func TestIngest_PDFOnlyForPrescription(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%fake\n")

	art, err := DefaultNormalizer().Ingest(intake.CapturePrescription, bytes.NewReader(pdf))
	require.NoError(t, err)
	assert.Equal(t, intake.MIMEPDF, art.MIME)
	assert.Equal(t, pdf, art.Data)

	_, err = DefaultNormalizer().Ingest(intake.CaptureInsuranceFront, bytes.NewReader(pdf))
	assert.ErrorIs(t, err, ErrUnsupportedDocument)
}

func TestIngest_Garbage(t *testing.T) {
	_, err := DefaultNormalizer().Ingest(intake.CaptureLicense, strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedDocument)
}

func TestIngestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 400, 250), 0o644))

	art, err := DefaultNormalizer().IngestFile(intake.CaptureInsuranceBack, path)
	require.NoError(t, err)
	assert.Equal(t, 400, art.Width)
	assert.Equal(t, 250, art.Height)

	_, err = DefaultNormalizer().IngestFile(intake.CaptureInsuranceBack, path+".missing")
	assert.Error(t, err)
}

func TestIsGalleryFile(t *testing.T) {
	assert.True(t, IsGalleryFile("IMG_0001.JPG"))
	assert.True(t, IsGalleryFile("/sync/rx.pdf"))
	assert.False(t, IsGalleryFile("notes.txt"))
	assert.False(t, IsGalleryFile(".hidden.jpg"))
}

func TestListGallery_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "a.png")
	newer := filepath.Join(dir, "b.jpg")
	require.NoError(t, os.WriteFile(older, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("y"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("z"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	files, err := ListGallery(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, newer, files[0].Path)
	assert.Equal(t, older, files[1].Path)
}

func TestGalleryWatcher_ReportsNewFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewGalleryWatcher(dir, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	path := filepath.Join(dir, "card.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 10, 10), 0o644))

	select {
	case f := <-w.Files():
		assert.Equal(t, path, f.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("gallery watcher did not report the new file")
	}
}
