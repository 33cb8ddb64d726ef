package pursuit

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
)

// ErrDegenerateDirection is returned when the follower sits exactly on its nearest
// trail point, so no steering direction exists for that step.
var ErrDegenerateDirection = errors.New("degenerate steering direction")

// CruiseGain is the fraction of the gap to the target speed closed every step.
const CruiseGain = 0.1

// initialCruiseSpeed is the cruise speed of a freshly created follower.
const initialCruiseSpeed = 1.0

// TrailSource selects where the follower gets the leader state it records and gates on.
type TrailSource string

const (
	// SourceTruth reads the leader's true position and velocity.
	SourceTruth TrailSource = "truth"
	// SourceEstimate integrates the sensed relative acceleration instead.
	SourceEstimate TrailSource = "estimate"
)

var initialRelPos = geometry.Vector2D{X: 0, Y: 0.3}

// FollowerConfig holds the per-follower parameters.
// A negative ProximityThreshold disables the gate; zero means it never commits.
type FollowerConfig struct {
	Name               string
	Start              geometry.Vector2D
	NominalSpeed       float64
	ProximityThreshold float64
	AccelNoise         float64
	DistanceNoise      float64
	TrailCapacity      int
	TrailCellSize      float64
	TrailSource        TrailSource
}

// Follower tracks the leader from relative measurements, steering along the
// recorded leader trail and committing a move only while the leader stays in range.
type Follower struct {
	cfg FollowerConfig

	pos     geometry.Vector2D
	vel     geometry.Vector2D
	prevVel geometry.Vector2D
	cruise  float64
	trail   *Trail

	relPos       geometry.Vector2D
	relVel       geometry.Vector2D
	lastDistance float64
}

// NewFollower creates a follower at cfg.Start with zero velocity and an empty trail.
func NewFollower(cfg FollowerConfig) *Follower {
	if cfg.TrailSource == "" {
		cfg.TrailSource = SourceTruth
	}
	return &Follower{
		cfg:    cfg,
		pos:    cfg.Start,
		cruise: initialCruiseSpeed,
		trail:  NewTrail(cfg.TrailCapacity, cfg.TrailCellSize),
		relPos: initialRelPos,
	}
}

// Follow runs one control step against the leader.
//
// On ErrDegenerateDirection the sensing, dead reckoning, trail and cruise updates
// have been applied; only the gated steering move is skipped.
func (f *Follower) Follow(l *Leader) error {
	dt := l.Timestep()

	acc := over(f.vel.Sub(f.prevVel), dt)
	relAcc, dist := l.SenseRelative(acc, f.pos, f.cfg.AccelNoise, f.cfg.DistanceNoise)
	f.lastDistance = dist
	leaderPos, leaderVel := f.perceiveLeader(l, relAcc, dist, dt)

	f.pos = f.pos.Add(f.vel.Mul(dt))
	f.prevVel = f.vel
	f.vel = f.vel.Add(relAcc.Mul(dt))

	f.trail.Push(leaderPos)

	target := f.cfg.NominalSpeed + leaderVel.Len()
	f.cruise += CruiseGain * (target - f.cruise)

	closest, _ := f.trail.Nearest(f.pos)
	dir, err := closest.Sub(f.pos).Unit()
	if err != nil {
		return fmt.Errorf("follower %q at %v: %w", f.cfg.Name, f.pos, ErrDegenerateDirection)
	}

	candidate := f.pos.Add(dir.Mul(f.cruise * dt))
	if leaderPos.DistanceTo(candidate) < f.threshold() {
		f.pos = candidate
	}
	return nil
}

// perceiveLeader returns the leader position and velocity this step acts on.
// It runs before the follower moves, so the estimate is anchored at the position
// the distance was measured from.
func (f *Follower) perceiveLeader(l *Leader, relAcc geometry.Vector2D, dist, dt float64) (geometry.Vector2D, geometry.Vector2D) {
	if f.cfg.TrailSource != SourceEstimate {
		return l.Position(), l.Velocity()
	}
	f.relVel = f.relVel.Add(relAcc.Mul(dt))
	f.relPos = f.relPos.Add(f.relVel.Mul(dt)).Add(relAcc.Mul(0.5 * dt * dt))
	if n := f.relPos.Len(); n > 0 && dist > 0 {
		f.relPos = f.relPos.Mul(dist / n)
	}
	return f.pos.Add(f.relPos), f.vel.Add(f.relVel)
}

func (f *Follower) threshold() float64 {
	if f.cfg.ProximityThreshold < 0 {
		return math.Inf(1)
	}
	return f.cfg.ProximityThreshold
}

func (f *Follower) Name() string                        { return f.cfg.Name }
func (f *Follower) Config() FollowerConfig              { return f.cfg }
func (f *Follower) Position() geometry.Vector2D         { return f.pos }
func (f *Follower) Velocity() geometry.Vector2D         { return f.vel }
func (f *Follower) PreviousVelocity() geometry.Vector2D { return f.prevVel }
func (f *Follower) CruiseSpeed() float64                { return f.cruise }
func (f *Follower) Trail() *Trail                       { return f.trail }

// LastDistance is the sensed leader range from the most recent step.
func (f *Follower) LastDistance() float64 { return f.lastDistance }

// Report implements Agent.
func (f *Follower) Report() AgentFrame {
	return AgentFrame{
		Name:           f.cfg.Name,
		Kind:           KindTrail,
		Position:       f.pos,
		Velocity:       f.vel,
		CruiseSpeed:    f.cruise,
		SensedDistance: f.lastDistance,
	}
}
