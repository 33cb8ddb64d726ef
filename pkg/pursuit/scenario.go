package pursuit

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/sensor"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/trajectory"
)

// Scenario is a ready-to-run simulation assembled from a Config.
type Scenario struct {
	Config     *Config
	Noise      *sensor.Noise
	Leader     *Leader
	Simulation *Simulation
}

// Build validates cfg and wires the leader, its trajectory and the agents in
// the order they are listed.
func Build(cfg *Config, opts ...Option) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	path, err := trajectory.FromSpec(cfg.Trajectory)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	noise := sensor.New(cfg.Seed)
	leader, err := NewLeader(cfg.Dt, noise)
	if err != nil {
		return nil, err
	}
	leader.SetTrajectory(path)

	agents := make([]Agent, 0, len(cfg.Followers))
	for _, spec := range cfg.Followers {
		agents = append(agents, cfg.NewAgent(spec))
	}

	sim, err := New(leader, agents, opts...)
	if err != nil {
		return nil, err
	}
	return &Scenario{Config: cfg, Noise: noise, Leader: leader, Simulation: sim}, nil
}

// NewAgent builds the agent described by spec. An empty kind is a trail follower.
func (c *Config) NewAgent(spec FollowerSpec) Agent {
	if spec.Kind == KindChaser {
		return NewChaser(c.ChaserConfig(spec))
	}
	return NewFollower(c.FollowerConfig(spec))
}
