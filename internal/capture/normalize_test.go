package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func fixedNow() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }

func TestNormalize_PortraitBecomesLandscape(t *testing.T) {
	n := Normalizer{MaxWidth: 600, Quality: 80, Now: fixedNow}

	for _, size := range [][2]int{{300, 400}, {1080, 1920}, {3024, 4032}, {10, 11}} {
		art, err := n.Normalize(solid(size[0], size[1]))
		require.NoError(t, err)

		assert.GreaterOrEqual(t, art.Width, art.Height, "input %v", size)
		assert.LessOrEqual(t, art.Width, 600, "input %v", size)

		cfg, err := jpeg.DecodeConfig(bytes.NewReader(art.Data))
		require.NoError(t, err)
		assert.Equal(t, art.Width, cfg.Width)
		assert.Equal(t, art.Height, cfg.Height)
	}
}

func TestNormalize_PortraitScalesByLongerSide(t *testing.T) {
	n := DefaultNormalizer()
	w, h, rotate := n.Target(1080, 1920)
	assert.True(t, rotate)
	assert.Equal(t, 600, w)
	assert.Equal(t, 338, h)
}

func TestNormalize_SmallLandscapeUnchanged(t *testing.T) {
	n := DefaultNormalizer()
	art, err := n.Normalize(solid(320, 200))
	require.NoError(t, err)
	assert.Equal(t, 320, art.Width)
	assert.Equal(t, 200, art.Height)
}

func TestNormalize_SmallPortraitNotUpscaled(t *testing.T) {
	n := DefaultNormalizer()
	w, h, rotate := n.Target(200, 320)
	assert.True(t, rotate)
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
}

func TestNormalize_LargeLandscapeBounded(t *testing.T) {
	n := DefaultNormalizer()
	art, err := n.Normalize(solid(4000, 3000))
	require.NoError(t, err)
	assert.Equal(t, 600, art.Width)
	assert.Equal(t, 450, art.Height)
}

func TestNormalize_Deterministic(t *testing.T) {
	n := Normalizer{Now: fixedNow}
	src := solid(900, 1200)

	a, err := n.Normalize(src)
	require.NoError(t, err)
	b, err := n.Normalize(src)
	require.NoError(t, err)

	assert.Equal(t, a.Data, b.Data)
	assert.Equal(t, fixedNow(), a.CapturedAt)
}

func TestNormalize_EmptyImage(t *testing.T) {
	_, err := DefaultNormalizer().Normalize(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}

func TestRotateClockwise(t *testing.T) {
	// 2 wide x 3 tall, distinct red per pixel
	src := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			src.Set(x, y, color.RGBA{R: uint8(10*y + x), A: 255})
		}
	}

	dst := rotateClockwise(src)
	require.Equal(t, image.Rect(0, 0, 3, 2), dst.Bounds())

	// bottom-left of the source ends up top-left
	assert.Equal(t, uint8(20), dst.RGBAAt(0, 0).R)
	// top-left of the source ends up top-right
	assert.Equal(t, uint8(0), dst.RGBAAt(2, 0).R)
	// bottom-right of the source ends up bottom-left
	assert.Equal(t, uint8(21), dst.RGBAAt(0, 1).R)
}

func TestCardRegion(t *testing.T) {
	tests := []struct {
		name   string
		bounds image.Rectangle
		want   image.Rectangle
	}{
		{"720p", image.Rect(0, 0, 1280, 720), image.Rect(160, 58, 1120, 662)},
		{"wide and short clamps height", image.Rect(0, 0, 1000, 300), image.Rect(262, 0, 738, 300)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CardRegion(tc.bounds))
		})
	}
}

func TestCropCard_FixedCanvas(t *testing.T) {
	out := CropCard(solid(1920, 1080))
	assert.Equal(t, image.Rect(0, 0, CardWidth, CardHeight), out.Bounds())
}
