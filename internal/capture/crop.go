package capture

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

const (
	// CardAspect is the width/height ratio of an ID-1 wallet card (3.375in x 2.125in).
	CardAspect = 3.375 / 2.125
	// CardCropFraction is the share of the frame width kept when cropping a card.
	CardCropFraction = 0.75
	// CardWidth and CardHeight are the fixed canvas a cropped card is drawn into.
	CardWidth  = 600
	CardHeight = 375
)

// CardRegion returns the centered crop rectangle for a card inside bounds.
// The height follows the card aspect and is clamped to the frame.
func CardRegion(bounds image.Rectangle) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	cropW := int(math.Round(float64(w) * CardCropFraction))
	cropH := int(math.Round(float64(cropW) / CardAspect))
	if cropH > h {
		cropH = h
		cropW = int(math.Round(float64(h) * CardAspect))
	}
	x0 := bounds.Min.X + (w-cropW)/2
	y0 := bounds.Min.Y + (h-cropH)/2
	return image.Rect(x0, y0, x0+cropW, y0+cropH)
}

// CropCard cuts the central card region out of a live frame and draws it
// onto the fixed card canvas.
func CropCard(frame image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), frame, CardRegion(frame.Bounds()), draw.Src, nil)
	return dst
}
