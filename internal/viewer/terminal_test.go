package viewer

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/internal/render"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/pursuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(t *testing.T, duration float64) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 21)

	cfg := pursuit.DefaultConfig()
	sc, err := pursuit.Build(cfg)
	require.NoError(t, err)
	grid, err := render.NewGrid(20, 20, cfg.MapBounds())
	require.NoError(t, err)
	painter := render.NewObserver(grid, cfg.Map.Fade, nil)
	sc.Simulation.AddObserver(painter)

	return NewTerminal(screen, sc.Simulation, painter, duration, time.Millisecond), screen
}

func TestTerminal_DrawsTraces(t *testing.T) {
	term, screen := newTestTerminal(t, 1)
	for i := 0; i < 10; i++ {
		require.NoError(t, term.Tick())
	}
	term.Draw()

	blocks := 0
	w, h := screen.Size()
	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			if r, _, _, _ := screen.GetContent(x, y); r == '█' {
				blocks++
			}
		}
	}
	assert.Positive(t, blocks)

	var status []rune
	for x := 0; x < 6; x++ {
		r, _, _, _ := screen.GetContent(x, 0)
		status = append(status, r)
	}
	assert.Equal(t, "t=0.20", string(status))
}

func TestTerminal_KeysAndDuration(t *testing.T) {
	term, _ := newTestTerminal(t, 0.1)

	assert.True(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)))
	require.NoError(t, term.Tick())
	assert.Equal(t, 0, term.sim.Steps(), "paused terminal must not step")

	term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	for i := 0; i < 20; i++ {
		require.NoError(t, term.Tick())
	}
	assert.True(t, term.Done())
	assert.Equal(t, 5, term.sim.Steps(), "stepping stops once the duration is reached")

	before := term.painter.Fade()
	term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone))
	assert.InDelta(t, before+fadeStep, term.painter.Fade(), 1e-12)

	assert.False(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestSpanAndPeak(t *testing.T) {
	lo, hi := span(0, 10, 100)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 10, hi)

	// upscaling still covers one cell per screen position
	lo, hi = span(7, 40, 20)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 4, hi)

	g, err := render.NewGrid(4, 4, geometry.Square(2))
	require.NoError(t, err)
	require.NoError(t, g.Draw(geometry.Vector2D{X: -1.5, Y: 1.5}, 0.3))
	require.NoError(t, g.Draw(geometry.Vector2D{X: -0.5, Y: 0.5}, -0.8))
	assert.Equal(t, -0.8, peak(g, 0, 2, 0, 2))
	assert.Equal(t, 0.0, peak(g, 2, 4, 2, 4))
}

func TestToScreen(t *testing.T) {
	b := geometry.Square(4)
	x, y, ok := toScreen(b, geometry.Vector2D{})
	require.True(t, ok)
	assert.Equal(t, float32(WindowSize/2), x)
	assert.Equal(t, float32(WindowSize/2+statusBar), y)

	_, _, ok = toScreen(b, geometry.Vector2D{X: 5})
	assert.False(t, ok)
}
