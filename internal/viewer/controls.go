package viewer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// PanelWidth is the width of the control panel right of the map.
const PanelWidth = 180

var (
	panelBG     = color.RGBA{R: 40, G: 40, B: 45, A: 230}
	panelBorder = color.RGBA{R: 100, G: 100, B: 110, A: 255}
	widgetEdge  = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	buttonBG    = color.RGBA{R: 80, G: 120, B: 180, A: 255}
	buttonHover = color.RGBA{R: 100, G: 150, B: 220, A: 255}
	checkedFill = color.RGBA{R: 100, G: 200, B: 100, A: 255}
	sliderTrack = color.RGBA{R: 80, G: 80, B: 80, A: 255}
)

// pointer is the mouse state sampled once per update.
type pointer struct {
	X, Y float64
	Down bool
}

func cursor() pointer {
	mx, my := ebiten.CursorPosition()
	return pointer{X: float64(mx), Y: float64(my), Down: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)}
}

type rect struct{ X, Y, W, H float64 }

func (r rect) contains(p pointer) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// slider maps a horizontal drag onto [Min, Max].
type slider struct {
	rect
	Label    string
	Min, Max float64
	Value    float64
}

func (s *slider) update(p pointer) bool {
	if !p.Down || !s.contains(p) {
		return false
	}
	v := s.Min + (p.X-s.X)/s.W*(s.Max-s.Min)
	s.Value = max(s.Min, min(s.Max, v))
	return true
}

func (s *slider) draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, s.Label, int(s.X), int(s.Y-16))
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), sliderTrack, true)
	ratio := (s.Value - s.Min) / (s.Max - s.Min)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), widgetEdge, true)
}

// checkbox toggles once per press.
type checkbox struct {
	rect
	Label string
	Value bool
	held  bool
}

func (c *checkbox) update(p pointer) {
	if p.Down && c.contains(p) {
		if !c.held {
			c.Value = !c.Value
			c.held = true
		}
		return
	}
	c.held = false
}

func (c *checkbox) draw(screen *ebiten.Image) {
	vector.StrokeRect(screen, float32(c.X), float32(c.Y), float32(c.W), float32(c.H), 2, widgetEdge, true)
	if c.Value {
		vector.FillRect(screen, float32(c.X+2), float32(c.Y+2), float32(c.W-4), float32(c.H-4), checkedFill, true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.W+8), int(c.Y))
}

// button fires OnClick once per press.
type button struct {
	rect
	Label   string
	OnClick func()
	held    bool
	hover   bool
}

func (b *button) update(p pointer) {
	b.hover = b.contains(p)
	if p.Down && b.hover {
		if !b.held && b.OnClick != nil {
			b.OnClick()
		}
		b.held = true
		return
	}
	b.held = false
}

func (b *button) draw(screen *ebiten.Image) {
	bg := buttonBG
	if b.hover {
		bg = buttonHover
	}
	vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), bg, true)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 2, widgetEdge, true)
	ebitenutil.DebugPrintAt(screen, b.Label, int(b.X+8), int(b.Y+4))
}

// controls is the panel of widgets driving a Window.
type controls struct {
	origin  rect
	fade    *slider
	markers *checkbox
	pause   *button
	clear   *button
}

func newControls(x, y, h float64, fade float64, onPause, onClear func()) *controls {
	const margin = 10
	w := PanelWidth - 2*margin
	return &controls{
		origin:  rect{X: x, Y: y, W: PanelWidth, H: h},
		fade:    &slider{rect: rect{X: x + margin, Y: y + 40, W: w, H: 12}, Label: "trail fade", Max: 0.1, Value: fade},
		markers: &checkbox{rect: rect{X: x + margin, Y: y + 70, W: 16, H: 16}, Label: "markers", Value: true},
		pause:   &button{rect: rect{X: x + margin, Y: y + 100, W: w, H: 24}, Label: "pause / resume", OnClick: onPause},
		clear:   &button{rect: rect{X: x + margin, Y: y + 134, W: w, H: 24}, Label: "clear map", OnClick: onClear},
	}
}

// update reports whether the fade slider moved.
func (c *controls) update(p pointer) bool {
	c.markers.update(p)
	c.pause.update(p)
	c.clear.update(p)
	return c.fade.update(p)
}

func (c *controls) draw(screen *ebiten.Image) {
	o := c.origin
	vector.FillRect(screen, float32(o.X), float32(o.Y), float32(o.W), float32(o.H), panelBG, true)
	vector.StrokeRect(screen, float32(o.X), float32(o.Y), float32(o.W), float32(o.H), 2, panelBorder, true)
	ebitenutil.DebugPrintAt(screen, "Controls", int(o.X+10), int(o.Y+5))
	c.fade.draw(screen)
	c.markers.draw(screen)
	c.pause.draw(screen)
	c.clear.draw(screen)
}
