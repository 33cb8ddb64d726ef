package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShade(t *testing.T) {
	assert.Equal(t, color.RGBA{A: 255}, Shade(0))
	assert.Equal(t, color.RGBA{R: 255, G: 63, A: 255}, Shade(TagLeader))
	assert.Equal(t, color.RGBA{G: 255, B: 255, A: 255}, Shade(TagFollower))
	assert.Equal(t, Shade(1), Shade(7), "values saturate")

	half := Shade(-0.5)
	assert.Equal(t, uint8(128), half.G)
}

func TestPixels(t *testing.T) {
	cells := []float64{0, 1, -1}
	pix := make([]byte, 4*len(cells))
	Pixels(cells, pix)

	assert.Equal(t, []byte{
		0, 0, 0, 255,
		255, 63, 0, 255,
		0, 255, 255, 255,
	}, pix)
}
