package render

import (
	"image/color"
	"math"
)

// Shade maps a cell value to a color: leader traces (positive) in warm red,
// follower traces (negative) in cyan, brightness proportional to |v|.
func Shade(v float64) color.RGBA {
	a := math.Min(math.Abs(v), 1)
	level := uint8(math.Round(a * 255))
	switch {
	case v > 0:
		return color.RGBA{R: level, G: level / 4, B: 0, A: 255}
	case v < 0:
		return color.RGBA{R: 0, G: level, B: level, A: 255}
	}
	return color.RGBA{A: 255}
}

// Pixels writes the grid cells as RGBA bytes into pix, which must hold
// 4*Rows*Cols bytes. The layout matches ebiten.Image.WritePixels.
func Pixels(cells []float64, pix []byte) {
	for i, v := range cells {
		c := Shade(v)
		pix[4*i] = c.R
		pix[4*i+1] = c.G
		pix[4*i+2] = c.B
		pix[4*i+3] = c.A
	}
}
