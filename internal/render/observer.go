package render

import (
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/pursuit"
	"github.com/tochemey/goakt/v3/log"
)

// Observer paints simulation frames onto a Grid: every agent is drawn and the
// grid faded after it, then the leader is drawn on top.
type Observer struct {
	grid   *Grid
	fade   float64
	logger log.Logger
}

// NewObserver returns an observer drawing on grid with the given per-agent fade.
// A nil logger discards out-of-bounds warnings.
func NewObserver(grid *Grid, fade float64, logger log.Logger) *Observer {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &Observer{grid: grid, fade: fade, logger: logger}
}

// Observe implements pursuit.Observer.
func (o *Observer) Observe(f pursuit.Frame) {
	for _, a := range f.Agents {
		if err := o.grid.Draw(a.Position, TagFollower); err != nil {
			o.logger.Warnf("step %d: %s %v", f.Step, a.Name, err)
		}
		o.grid.Fade(o.fade)
	}
	if err := o.grid.Draw(f.Leader, TagLeader); err != nil {
		o.logger.Warnf("step %d: leader %v", f.Step, err)
	}
}

// SetFade changes the per-agent fade fraction, clamped to [0, 1].
func (o *Observer) SetFade(frac float64) {
	o.fade = min(max(frac, 0), 1)
}

func (o *Observer) Fade() float64 { return o.fade }
func (o *Observer) Grid() *Grid   { return o.grid }
