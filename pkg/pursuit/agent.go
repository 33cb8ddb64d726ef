package pursuit

import (
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
)

// AgentKind names a pursuit strategy.
type AgentKind string

const (
	KindTrail  AgentKind = "trail"
	KindChaser AgentKind = "chaser"
)

// Agent is anything that pursues the leader one step at a time.
type Agent interface {
	Name() string
	Follow(l *Leader) error
	Position() geometry.Vector2D
	Velocity() geometry.Vector2D
	Report() AgentFrame
}

// AgentFrame is the per-step view of one agent.
type AgentFrame struct {
	Name           string            `json:"name"`
	Kind           AgentKind         `json:"kind"`
	Position       geometry.Vector2D `json:"position"`
	Velocity       geometry.Vector2D `json:"velocity"`
	CruiseSpeed    float64           `json:"cruiseSpeed"`
	SensedDistance float64           `json:"sensedDistance"`
	TrueDistance   float64           `json:"trueDistance"`
}

// Frame is what observers see after every agent has followed and before the leader moves.
type Frame struct {
	Step   int               `json:"step"`
	Time   float64           `json:"time"`
	Leader geometry.Vector2D `json:"leader"`
	Agents []AgentFrame      `json:"agents"`
}

// Observer receives one Frame per simulation step. Each frame owns its Agents
// slice, so observers may keep it.
type Observer interface {
	Observe(Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (fn ObserverFunc) Observe(f Frame) { fn(f) }
