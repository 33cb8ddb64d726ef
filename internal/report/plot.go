package report

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no frames collected")

// File names written by WritePNG.
const (
	PathsFile    = "paths.png"
	DistanceFile = "distance.png"
)

var (
	leaderColor = color.RGBA{R: 220, G: 60, B: 30, A: 255}
	agentColors = []color.RGBA{
		{R: 31, G: 119, B: 180, A: 255},
		{R: 44, G: 160, B: 44, A: 255},
		{R: 148, G: 103, B: 189, A: 255},
		{R: 255, G: 127, B: 14, A: 255},
		{R: 23, G: 190, B: 207, A: 255},
	}
)

func agentColor(i int) color.RGBA { return agentColors[i%len(agentColors)] }

// WritePNG writes paths.png (leader and agent trajectories in the plane) and
// distance.png (sensed and true leader distance over time) into dir.
func (c *Collector) WritePNG(dir string) error {
	if c.Steps() == 0 {
		return ErrNoData
	}
	if err := c.savePaths(filepath.Join(dir, PathsFile)); err != nil {
		return err
	}
	return c.saveDistance(filepath.Join(dir, DistanceFile))
}

func (c *Collector) savePaths(file string) error {
	p := plot.New()
	p.Title.Text = "Leader and follower paths"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	leader, err := plotter.NewLine(toXYs(c.Leader))
	if err != nil {
		return fmt.Errorf("leader path: %w", err)
	}
	leader.Color = leaderColor
	leader.Width = vg.Points(1.5)
	p.Add(leader)
	p.Legend.Add("leader", leader)

	for i, s := range c.Series() {
		line, err := plotter.NewLine(toXYs(s.Path))
		if err != nil {
			return fmt.Errorf("%s path: %w", s.Name, err)
		}
		line.Color = agentColor(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	if err := p.Save(7*vg.Inch, 7*vg.Inch, file); err != nil {
		return fmt.Errorf("failed to save %s: %w", file, err)
	}
	return nil
}

func (c *Collector) saveDistance(file string) error {
	p := plot.New()
	p.Title.Text = "Distance to leader"
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Distance"

	for i, s := range c.Series() {
		sensed, err := plotter.NewLine(series(s.Time, s.Sensed))
		if err != nil {
			return fmt.Errorf("%s sensed distance: %w", s.Name, err)
		}
		sensed.Color = agentColor(i)
		sensed.Width = vg.Points(0.75)
		sensed.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		p.Add(sensed)
		p.Legend.Add(s.Name+" sensed", sensed)

		truth, err := plotter.NewLine(series(s.Time, s.True))
		if err != nil {
			return fmt.Errorf("%s true distance: %w", s.Name, err)
		}
		truth.Color = agentColor(i)
		truth.Width = vg.Points(1.5)
		p.Add(truth)
		p.Legend.Add(s.Name+" true", truth)
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("failed to save %s: %w", file, err)
	}
	return nil
}

func toXYs(pts []geometry.Vector2D) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return xys
}

func series(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return xys
}
