package pursuit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/tochemey/goakt/v3/log"
)

// State is the lifecycle state of a Simulation.
type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Simulation advances one leader and an ordered list of agents in lock step.
// Within a step every agent follows in list order, observers are notified,
// and only then does the leader move.
type Simulation struct {
	leader    *Leader
	agents    []Agent
	observers []Observer
	logger    log.Logger

	t     float64
	steps int

	state atomic.Int32
	stop  atomic.Bool
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger used for lifecycle and per-step diagnostics.
func WithLogger(l log.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

// New builds a simulation starting at the leader's current time.
func New(leader *Leader, agents []Agent, opts ...Option) (*Simulation, error) {
	if leader == nil {
		return nil, fmt.Errorf("%w: leader is required", ErrInvalidConfig)
	}
	if len(agents) == 0 {
		return nil, fmt.Errorf("%w: at least one agent is required", ErrInvalidConfig)
	}
	s := &Simulation{
		leader: leader,
		agents: agents,
		logger: log.DiscardLogger,
		t:      leader.Time(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddObserver registers o; it sees every step run after this call.
func (s *Simulation) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Step runs one iteration. Degenerate steering directions are logged and
// tolerated; any other agent error aborts the step before the leader moves.
func (s *Simulation) Step() error {
	for _, a := range s.agents {
		if err := a.Follow(s.leader); err != nil {
			if errors.Is(err, ErrDegenerateDirection) {
				s.logger.Debugf("step %d t=%.3f: %v", s.steps, s.t, err)
				continue
			}
			return fmt.Errorf("step %d: agent %q: %w", s.steps, a.Name(), err)
		}
	}
	s.notify()
	s.leader.Step()
	s.t += s.leader.Timestep()
	s.steps++
	return nil
}

// Run steps until duration has elapsed, the context is cancelled or Stop is called.
func (s *Simulation) Run(ctx context.Context, duration float64) error {
	if !s.state.CompareAndSwap(int32(Stopped), int32(Running)) {
		return errors.New("simulation is already running")
	}
	defer s.state.Store(int32(Stopped))
	s.stop.Store(false)

	end := s.t + duration
	s.logger.Infof("simulation started: t=%.3f end=%.3f agents=%d", s.t, end, len(s.agents))
	for s.t < end {
		if err := ctx.Err(); err != nil {
			s.logger.Infof("simulation cancelled at t=%.3f after %d steps", s.t, s.steps)
			return err
		}
		if s.stop.Load() {
			s.logger.Infof("simulation stopped at t=%.3f after %d steps", s.t, s.steps)
			return nil
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	s.logger.Infof("simulation finished: t=%.3f steps=%d", s.t, s.steps)
	return nil
}

// Stop asks a running Run to return before its next step.
func (s *Simulation) Stop() { s.stop.Store(true) }

func (s *Simulation) State() State    { return State(s.state.Load()) }
func (s *Simulation) Time() float64   { return s.t }
func (s *Simulation) Steps() int      { return s.steps }
func (s *Simulation) Leader() *Leader { return s.leader }
func (s *Simulation) Agents() []Agent { return s.agents }

// Frame returns the current view of the leader and agents.
func (s *Simulation) Frame() Frame {
	lp := s.leader.Position()
	agents := make([]AgentFrame, len(s.agents))
	for i, a := range s.agents {
		af := a.Report()
		af.TrueDistance = lp.DistanceTo(af.Position)
		agents[i] = af
	}
	return Frame{Step: s.steps, Time: s.t, Leader: lp, Agents: agents}
}

func (s *Simulation) notify() {
	if len(s.observers) == 0 {
		return
	}
	f := s.Frame()
	for _, o := range s.observers {
		o.Observe(f)
	}
}
