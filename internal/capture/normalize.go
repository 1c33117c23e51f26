// Package capture owns the camera and turns every captured or imported
// document into a bounded, landscape JPEG.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
	"golang.org/x/image/draw"
)

const (
	// DefaultMaxWidth bounds the width of every normalized image.
	DefaultMaxWidth = 600
	// DefaultQuality is the JPEG quality of normalized images.
	DefaultQuality = 80
)

// Normalizer converts raw bitmaps into landscape JPEG artifacts no wider than MaxWidth.
type Normalizer struct {
	MaxWidth int
	Quality  int
	// Now stamps CapturedAt; defaults to time.Now.
	Now func() time.Time
}

// DefaultNormalizer returns a Normalizer with the standard bounds.
func DefaultNormalizer() Normalizer {
	return Normalizer{MaxWidth: DefaultMaxWidth, Quality: DefaultQuality}
}

func (n Normalizer) maxWidth() int {
	if n.MaxWidth <= 0 {
		return DefaultMaxWidth
	}
	return n.MaxWidth
}

func (n Normalizer) quality() int {
	if n.Quality <= 0 || n.Quality > 100 {
		return DefaultQuality
	}
	return n.Quality
}

// Target returns the output dimensions for a w x h input and whether the
// input is rotated. Portrait inputs are turned a quarter clockwise; the
// scale never exceeds 1.
func (n Normalizer) Target(w, h int) (outW, outH int, rotate bool) {
	rotate = h > w
	longSide, shortSide := w, h
	if rotate {
		longSide, shortSide = h, w
	}

	scale := math.Min(float64(n.maxWidth())/float64(longSide), 1.0)
	outW = max(1, min(n.maxWidth(), int(math.Round(float64(longSide)*scale))))
	outH = max(1, int(math.Round(float64(shortSide)*scale)))
	return outW, outH, rotate
}

// Normalize rotates, scales and encodes img.
func (n Normalizer) Normalize(img image.Image) (*intake.Artifact, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("normalizing image: empty bounds %v", b)
	}

	outW, outH, rotate := n.Target(b.Dx(), b.Dy())

	src := img
	if rotate {
		src = rotateClockwise(img)
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	sb := src.Bounds()
	if sb.Dx() == outW && sb.Dy() == outH {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: n.quality()}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}

	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	return &intake.Artifact{
		MIME:       intake.MIMEJPEG,
		Data:       buf.Bytes(),
		Width:      outW,
		Height:     outH,
		CapturedAt: now(),
	}, nil
}

// rotateClockwise turns img a quarter turn clockwise.
func rotateClockwise(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			dst.Set(x, y, img.At(b.Min.X+y, b.Min.Y+h-1-x))
		}
	}
	return dst
}
