// Package report turns the frames of a finished run into statistics, PNG
// plots and an interactive HTML chart.
package report

import (
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/pursuit"
)

// Series is the recorded history of one agent.
type Series struct {
	Name   string
	Kind   pursuit.AgentKind
	Time   []float64
	Sensed []float64
	True   []float64
	Path   []geometry.Vector2D
}

// Collector is a pursuit.Observer that keeps every frame's numbers in memory.
type Collector struct {
	Time   []float64
	Leader []geometry.Vector2D

	order  []string
	series map[string]*Series
}

func NewCollector() *Collector {
	return &Collector{series: make(map[string]*Series)}
}

func (c *Collector) Observe(f pursuit.Frame) {
	c.Time = append(c.Time, f.Time)
	c.Leader = append(c.Leader, f.Leader)
	for _, a := range f.Agents {
		s, ok := c.series[a.Name]
		if !ok {
			s = &Series{Name: a.Name, Kind: a.Kind}
			c.series[a.Name] = s
			c.order = append(c.order, a.Name)
		}
		s.Time = append(s.Time, f.Time)
		s.Sensed = append(s.Sensed, a.SensedDistance)
		s.True = append(s.True, a.TrueDistance)
		s.Path = append(s.Path, a.Position)
	}
}

// Series returns the agents' histories in the order they first appeared.
func (c *Collector) Series() []*Series {
	out := make([]*Series, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.series[name])
	}
	return out
}

// Steps is the number of frames observed.
func (c *Collector) Steps() int { return len(c.Time) }
