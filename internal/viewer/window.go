// Package viewer shows a running pursuit scenario, either in a desktop window
// or in the terminal.
package viewer

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/internal/render"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/pursuit"
	"github.com/tochemey/goakt/v3/actor"
)

const (
	// WindowSize is the logical width and height of the map area in pixels.
	WindowSize = 600
	statusBar  = 20
	fadeStep   = 0.005
)

var (
	leaderColor   = color.RGBA{R: 255, G: 80, B: 40, A: 255}
	followerColor = color.RGBA{R: 60, G: 220, B: 255, A: 255}
)

// Window is an ebiten.Game that drives a SimulationActor with one Tick per
// update and paints the frames it sends back.
type Window struct {
	ctx     context.Context
	pid     *actor.PID
	frames  chan pursuit.Frame
	painter *render.Observer

	tile   *ebiten.Image
	pixels []byte

	panel  *controls
	last   pursuit.Frame
	paused bool
}

// NewWindow spawns the simulation actor for sim in system. The painter's grid
// is redrawn from the frames the actor emits, so it must not also be
// registered on sim.
func NewWindow(ctx context.Context, system actor.ActorSystem, sim *pursuit.Simulation, painter *render.Observer, duration float64) (*Window, error) {
	frames := make(chan pursuit.Frame, 10) // buffer to avoid blocking the actor
	pid, err := system.Spawn(ctx, "pursuit", pursuit.NewSimulationActor(sim, duration, frames))
	if err != nil {
		return nil, fmt.Errorf("spawn simulation actor: %w", err)
	}
	g := painter.Grid()
	w := &Window{
		ctx:     ctx,
		pid:     pid,
		frames:  frames,
		painter: painter,
		tile:    ebiten.NewImage(g.Cols(), g.Rows()),
		pixels:  make([]byte, 4*g.Rows()*g.Cols()),
	}
	w.panel = newControls(WindowSize, 0, WindowSize+statusBar, painter.Fade(),
		func() { w.paused = !w.paused },
		g.Clear)
	return w, nil
}

func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		w.paused = !w.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		w.painter.SetFade(w.painter.Fade() + fadeStep)
		w.panel.fade.Value = w.painter.Fade()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		w.painter.SetFade(w.painter.Fade() - fadeStep)
		w.panel.fade.Value = w.painter.Fade()
	}
	if w.panel.update(cursor()) {
		w.painter.SetFade(w.panel.fade.Value)
	}

Drain:
	for {
		select {
		case f := <-w.frames:
			w.painter.Observe(f)
			w.last = f
		default:
			break Drain
		}
	}

	if !w.paused {
		if err := actor.Tell(w.ctx, w.pid, pursuit.Tick()); err != nil {
			return fmt.Errorf("tick simulation: %w", err)
		}
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	g := w.painter.Grid()
	render.Pixels(g.Snapshot(), w.pixels)
	w.tile.WritePixels(w.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(WindowSize)/float64(g.Cols()), float64(WindowSize)/float64(g.Rows()))
	op.GeoM.Translate(0, statusBar)
	screen.DrawImage(w.tile, op)

	if w.panel.markers.Value {
		b := g.Bounds()
		for _, a := range w.last.Agents {
			if x, y, ok := toScreen(b, a.Position); ok {
				vector.FillCircle(screen, x, y, 3, followerColor, true)
			}
		}
		if x, y, ok := toScreen(b, w.last.Leader); ok {
			vector.StrokeCircle(screen, x, y, 5, 1.5, leaderColor, true)
		}
	}
	w.panel.draw(screen)

	state := "running"
	if w.paused {
		state = "paused"
	}
	msg := fmt.Sprintf("t=%6.2f  step=%5d  fade=%.3f  %s  [space] pause  [+/-] fade  FPS %.0f",
		w.last.Time, w.last.Step, w.painter.Fade(), state, ebiten.ActualFPS())
	ebitenutil.DebugPrintAt(screen, msg, 4, 2)
}

func (w *Window) Layout(int, int) (int, int) {
	return WindowSize + PanelWidth, WindowSize + statusBar
}

// toScreen maps a world position to window pixels below the status bar.
func toScreen(b geometry.Bounds, p geometry.Vector2D) (float32, float32, bool) {
	if !b.ContainsOpen(p) {
		return 0, 0, false
	}
	x := (p.X - b.MinX) / b.Width() * WindowSize
	y := (b.MaxY-p.Y)/b.Height()*WindowSize + statusBar
	return float32(x), float32(y), true
}
