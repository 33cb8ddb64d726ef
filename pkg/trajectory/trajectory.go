// Package trajectory provides the time to position curves that drive the leader.
//
// A Trajectory is a capability: anything that can answer "where is the leader at
// time t" can be substituted, whether it is an analytic curve or a tabulated path.
// The leader evaluates it at t, t+dt and t-dt, so implementations must be defined
// for every t >= -dt the simulation reaches.
package trajectory

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"gonum.org/v1/gonum/interp"
)

var (
	// ErrUnknownKind is returned by FromSpec for an unsupported curve kind.
	ErrUnknownKind = errors.New("unknown trajectory kind")
	// ErrTooFewSamples is returned when a tabulated path has fewer than two samples.
	ErrTooFewSamples = errors.New("tabulated trajectory needs at least two samples")
	// ErrDuplicateSample is returned when two tabulated samples share a timestamp.
	ErrDuplicateSample = errors.New("duplicate sample time")
)

// Trajectory maps time to a position in the plane.
type Trajectory interface {
	Position(t float64) geometry.Vector2D
}

// Func adapts an ordinary function to the Trajectory interface.
type Func func(t float64) geometry.Vector2D

// Position calls f(t).
func (f Func) Position(t float64) geometry.Vector2D { return f(t) }

// Stationary holds the leader at a fixed point.
type Stationary struct {
	At geometry.Vector2D
}

func (s Stationary) Position(float64) geometry.Vector2D { return s.At }

// Lissajous is (AX·cos(WX·t), AY·sin(WY·t)) shifted by Center.
// With AX=1.5, AY=1, WX=1, WY=2 it is the figure-eight of the reference scenario,
// periodic with period 2π.
type Lissajous struct {
	AX, AY float64
	WX, WY float64
	Center geometry.Vector2D
}

// FigureEight returns the default scenario curve (1.5·cos t, sin 2t).
func FigureEight() Lissajous {
	return Lissajous{AX: 1.5, AY: 1, WX: 1, WY: 2}
}

func (l Lissajous) Position(t float64) geometry.Vector2D {
	return geometry.Vector2D{
		X: l.Center.X + l.AX*math.Cos(l.WX*t),
		Y: l.Center.Y + l.AY*math.Sin(l.WY*t),
	}
}

// Parabola is the arc (t - Shift, -Curvature·(t - Shift)² + Peak).
type Parabola struct {
	Shift     float64
	Curvature float64
	Peak      float64
}

// Arch returns the parabolic arc (-π + t, -0.1·(t-π)² + 1).
func Arch() Parabola {
	return Parabola{Shift: math.Pi, Curvature: 0.1, Peak: 1}
}

func (p Parabola) Position(t float64) geometry.Vector2D {
	u := t - p.Shift
	return geometry.Vector2D{X: u, Y: -p.Curvature*u*u + p.Peak}
}

// Sample is one tabulated point of a path.
type Sample struct {
	T float64 `json:"t"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tabulated interpolates linearly between time-ordered samples and holds the
// end points outside the sampled range.
type Tabulated struct {
	first, last Sample
	x, y        interp.PiecewiseLinear
}

// NewTabulated sorts a copy of samples by time and returns the interpolated path.
// Two samples may not share a timestamp.
func NewTabulated(samples []Sample) (*Tabulated, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSamples, len(samples))
	}
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })

	ts := make([]float64, len(sorted))
	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, s := range sorted {
		if i > 0 && s.T == sorted[i-1].T {
			return nil, fmt.Errorf("%w: t=%v", ErrDuplicateSample, s.T)
		}
		ts[i], xs[i], ys[i] = s.T, s.X, s.Y
	}

	tb := &Tabulated{first: sorted[0], last: sorted[len(sorted)-1]}
	if err := tb.x.Fit(ts, xs); err != nil {
		return nil, fmt.Errorf("fit x samples: %w", err)
	}
	if err := tb.y.Fit(ts, ys); err != nil {
		return nil, fmt.Errorf("fit y samples: %w", err)
	}
	return tb, nil
}

func (tb *Tabulated) Position(t float64) geometry.Vector2D {
	switch {
	case t <= tb.first.T:
		return geometry.Vector2D{X: tb.first.X, Y: tb.first.Y}
	case t >= tb.last.T:
		return geometry.Vector2D{X: tb.last.X, Y: tb.last.Y}
	}
	return geometry.Vector2D{X: tb.x.Predict(t), Y: tb.y.Predict(t)}
}
