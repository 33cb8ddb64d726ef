package viewer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/internal/render"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/pursuit"
)

// minVisible is the smallest |cell| value still drawn as a block.
const minVisible = 0.02

// Terminal steps a Simulation on a ticker and draws its grid with block
// characters. The painter must be registered as an observer of sim.
type Terminal struct {
	screen   tcell.Screen
	sim      *pursuit.Simulation
	painter  *render.Observer
	end      float64
	interval time.Duration
	paused   bool
}

// NewTerminal prepares a terminal view that runs sim for duration more time
// units, one step per interval. The screen must already be initialised.
func NewTerminal(screen tcell.Screen, sim *pursuit.Simulation, painter *render.Observer, duration float64, interval time.Duration) *Terminal {
	return &Terminal{
		screen:   screen,
		sim:      sim,
		painter:  painter,
		end:      sim.Time() + duration,
		interval: interval,
	}
}

// Run loops until the user quits or ctx is done. When the run has reached its
// duration the last picture stays on screen until the user quits.
func (t *Terminal) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			events <- ev
		}
	}()

	t.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !t.HandleEvent(ev) {
				return nil
			}
			t.Draw()
		case <-ticker.C:
			if err := t.Tick(); err != nil {
				return err
			}
			t.Draw()
		}
	}
}

// Tick advances the simulation by one step unless paused or finished.
func (t *Terminal) Tick() error {
	if t.paused || t.Done() {
		return nil
	}
	return t.sim.Step()
}

// Done reports whether the configured duration has elapsed.
func (t *Terminal) Done() bool { return t.sim.Time() >= t.end }

// HandleEvent applies a key or resize event and returns false when the user quits.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				t.paused = !t.paused
			case '+', '=':
				t.painter.SetFade(t.painter.Fade() + fadeStep)
			case '-':
				t.painter.SetFade(t.painter.Fade() - fadeStep)
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// Draw renders the status line and the grid, scaled to the screen.
func (t *Terminal) Draw() {
	t.screen.Clear()
	w, h := t.screen.Size()

	state := "running"
	switch {
	case t.Done():
		state = "done"
	case t.paused:
		state = "paused"
	}
	status := fmt.Sprintf("t=%.2f step=%d fade=%.3f %s  space pause  +/- fade  q quit",
		t.sim.Time(), t.sim.Steps(), t.painter.Fade(), state)
	for i, r := range []rune(status) {
		if i >= w {
			break
		}
		t.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Bold(true))
	}

	g := t.painter.Grid()
	rows := h - 1
	if rows <= 0 || w <= 0 {
		t.screen.Show()
		return
	}
	for sy := 0; sy < rows; sy++ {
		r0, r1 := span(sy, rows, g.Rows())
		for sx := 0; sx < w; sx++ {
			c0, c1 := span(sx, w, g.Cols())
			v := peak(g, r0, r1, c0, c1)
			if math.Abs(v) < minVisible {
				continue
			}
			c := render.Shade(v)
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			t.screen.SetContent(sx, sy+1, '█', nil, style)
		}
	}
	t.screen.Show()
}

// span returns the grid index range [lo, hi) covered by screen index i of n.
func span(i, n, cells int) (int, int) {
	lo := i * cells / n
	hi := max((i+1)*cells/n, lo+1)
	return lo, min(hi, cells)
}

// peak returns the value with the largest magnitude in the block, so a
// downscaled screen never hides a fresh trace.
func peak(g *render.Grid, r0, r1, c0, c1 int) float64 {
	var best float64
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			if v := g.At(r, c); math.Abs(v) > math.Abs(best) {
				best = v
			}
		}
	}
	return best
}
