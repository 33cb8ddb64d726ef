package trajectory

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
)

// Curve kinds accepted in configuration files.
const (
	KindStationary = "stationary"
	KindLissajous  = "lissajous"
	KindParabola   = "parabola"
	KindTabulated  = "tabulated"
)

// Spec is the JSON description of a trajectory.
// Only the fields relevant to Kind are read; zero values fall back to the
// reference scenario defaults.
type Spec struct {
	Kind string `json:"kind"`

	// stationary
	At *geometry.Vector2D `json:"at,omitempty"`

	// lissajous
	AX     float64            `json:"ax,omitempty"`
	AY     float64            `json:"ay,omitempty"`
	WX     float64            `json:"wx,omitempty"`
	WY     float64            `json:"wy,omitempty"`
	Center *geometry.Vector2D `json:"center,omitempty"`

	// parabola
	Shift     float64 `json:"shift,omitempty"`
	Curvature float64 `json:"curvature,omitempty"`
	Peak      float64 `json:"peak,omitempty"`

	// tabulated
	Samples []Sample `json:"samples,omitempty"`
}

// FromSpec builds the Trajectory described by s.
func FromSpec(s Spec) (Trajectory, error) {
	switch s.Kind {
	case KindStationary, "":
		st := Stationary{}
		if s.At != nil {
			st.At = *s.At
		}
		return st, nil

	case KindLissajous:
		l := FigureEight()
		if s.AX != 0 {
			l.AX = s.AX
		}
		if s.AY != 0 {
			l.AY = s.AY
		}
		if s.WX != 0 {
			l.WX = s.WX
		}
		if s.WY != 0 {
			l.WY = s.WY
		}
		if s.Center != nil {
			l.Center = *s.Center
		}
		return l, nil

	case KindParabola:
		p := Arch()
		if s.Shift != 0 {
			p.Shift = s.Shift
		}
		if s.Curvature != 0 {
			p.Curvature = s.Curvature
		}
		if s.Peak != 0 {
			p.Peak = s.Peak
		}
		return p, nil

	case KindTabulated:
		tb, err := NewTabulated(s.Samples)
		if err != nil {
			return nil, err
		}
		return tb, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
}
