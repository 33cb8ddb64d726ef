package pursuit

import (
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
)

// ChaserConfig holds the parameters of a Chaser.
type ChaserConfig struct {
	Name          string
	Start         geometry.Vector2D
	NominalSpeed  float64
	Aggression    float64
	PositionNoise float64
	VelocityNoise float64
}

// Chaser steers straight at the sensed absolute leader position.
// Its speed is capped at the nominal speed plus the sensed leader speed.
type Chaser struct {
	cfg          ChaserConfig
	pos          geometry.Vector2D
	vel          geometry.Vector2D
	lastDistance float64
}

// NewChaser creates a chaser at cfg.Start with zero velocity.
func NewChaser(cfg ChaserConfig) *Chaser {
	return &Chaser{cfg: cfg, pos: cfg.Start}
}

// Follow implements Agent.
func (c *Chaser) Follow(l *Leader) error {
	pos, vel := l.SenseAbsolute(c.cfg.PositionNoise, c.cfg.VelocityNoise)
	toward := pos.Sub(c.pos)
	c.lastDistance = toward.Len()

	if dir, err := toward.Unit(); err == nil {
		c.vel = c.vel.Add(dir.Mul(c.cfg.Aggression))
	}
	c.vel = c.vel.ClampLen(c.cfg.NominalSpeed + vel.Len())
	c.pos = c.pos.Add(c.vel.Mul(l.Timestep()))
	return nil
}

func (c *Chaser) Name() string                { return c.cfg.Name }
func (c *Chaser) Position() geometry.Vector2D { return c.pos }
func (c *Chaser) Velocity() geometry.Vector2D { return c.vel }

// LastDistance is the range to the sensed leader position before the latest move.
func (c *Chaser) LastDistance() float64 { return c.lastDistance }

// Report implements Agent.
func (c *Chaser) Report() AgentFrame {
	return AgentFrame{
		Name:           c.cfg.Name,
		Kind:           KindChaser,
		Position:       c.pos,
		Velocity:       c.vel,
		CruiseSpeed:    c.vel.Len(),
		SensedDistance: c.lastDistance,
	}
}
