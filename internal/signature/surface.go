// Package signature captures freehand signatures into fixed-size rasters.
package signature

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

const (
	// Width and Height are the native resolution of every signature surface.
	Width  = 700
	Height = 150
	// LineWidth is the stroke width in surface pixels.
	LineWidth = 2.0
)

// capSegments is the number of segments used to approximate a round cap.
const capSegments = 8

var ink = image.NewUniform(color.NRGBA{A: 0xff})

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Surface is an in-memory drawing buffer. It starts fully transparent; a
// surface is blank while every channel of every pixel is zero.
type Surface struct {
	img *image.NRGBA
	z   *vector.Rasterizer
}

// NewSurface returns a blank surface at the native resolution.
func NewSurface() *Surface {
	return &Surface{
		img: image.NewNRGBA(image.Rect(0, 0, Width, Height)),
		z:   vector.NewRasterizer(Width, Height),
	}
}

// Image exposes the underlying raster.
func (s *Surface) Image() *image.NRGBA {
	return s.img
}

// Segment draws a line from a to b with round caps. Zero-length segments draw nothing.
func (s *Surface) Segment(a, b Point) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	r := LineWidth / 2
	nx, ny := -dy/length*r, dx/length*r
	// angle of the normal; the cap at b sweeps from +n to -n through the stroke direction
	theta := math.Atan2(ny, nx)

	s.z.Reset(Width, Height)
	s.z.DrawOp = draw.Over
	s.z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	s.z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	arc(s.z, b, r, theta, -math.Pi)
	s.z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	arc(s.z, a, r, theta+math.Pi, -math.Pi)
	s.z.ClosePath()
	s.z.Draw(s.img, s.img.Bounds(), ink, image.Point{})
}

// arc adds line segments around c starting at angle from and sweeping by sweep.
func arc(z *vector.Rasterizer, c Point, r, from, sweep float64) {
	for i := 1; i <= capSegments; i++ {
		a := from + sweep*float64(i)/capSegments
		z.LineTo(float32(c.X+r*math.Cos(a)), float32(c.Y+r*math.Sin(a)))
	}
}

// IsBlank scans every channel of every pixel.
func (s *Surface) IsBlank() bool {
	for _, v := range s.img.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// Clear resets the surface to fully blank.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Export encodes the surface as a PNG artifact at native resolution.
// A blank surface yields intake.ErrEmptySignature.
func (s *Surface) Export(now time.Time) (*intake.Artifact, error) {
	if s.IsBlank() {
		return nil, intake.ErrEmptySignature
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("encoding signature: %w", err)
	}

	return &intake.Artifact{
		MIME:       intake.MIMEPNG,
		Data:       buf.Bytes(),
		Width:      Width,
		Height:     Height,
		CapturedAt: now,
	}, nil
}
