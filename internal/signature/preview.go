package signature

import "strings"

// braille dot bits indexed by [row][col] within a 2x4 cell
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Preview renders the surface as cols x rows braille cells for terminal display.
// A dot is set when any pixel it covers has ink.
func (s *Surface) Preview(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	dotsW, dotsH := cols*2, rows*4
	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cell := rune(0x2800)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if s.inked(col*2+dx, row*4+dy, dotsW, dotsH) {
						cell |= brailleDots[dy][dx]
					}
				}
			}
			sb.WriteRune(cell)
		}
		if row < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// inked reports whether the region of dot (dx, dy) on a dotsW x dotsH grid has ink.
func (s *Surface) inked(dx, dy, dotsW, dotsH int) bool {
	x0, x1 := dx*Width/dotsW, (dx+1)*Width/dotsW
	y0, y1 := dy*Height/dotsH, (dy+1)*Height/dotsH
	if x1 == x0 {
		x1 = x0 + 1
	}
	if y1 == y0 {
		y1 = y0 + 1
	}
	for y := y0; y < y1 && y < Height; y++ {
		for x := x0; x < x1 && x < Width; x++ {
			if s.img.Pix[s.img.PixOffset(x, y)+3] != 0 {
				return true
			}
		}
	}
	return false
}
