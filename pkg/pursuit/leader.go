package pursuit

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/sensor"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/trajectory"
)

// ErrInvalidTimestep is returned when dt is not a positive finite number.
var ErrInvalidTimestep = errors.New("timestep must be a positive finite number")

// Leader follows a prescribed trajectory and answers sensing queries about itself.
//
// Velocity and acceleration are never stored independently: AdvanceTo derives them
// from the trajectory by finite differences every time, so they carry no drift.
type Leader struct {
	path  trajectory.Trajectory
	noise *sensor.Noise
	dt    float64
	t     float64

	pos geometry.Vector2D
	vel geometry.Vector2D
	acc geometry.Vector2D
}

// NewLeader creates a leader parked at the origin at time 0.
// A nil noise source is replaced by one seeded with 0.
func NewLeader(dt float64, noise *sensor.Noise) (*Leader, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidTimestep, dt)
	}
	if noise == nil {
		noise = sensor.New(0)
	}
	l := &Leader{
		path:  trajectory.Stationary{},
		noise: noise,
		dt:    dt,
	}
	l.AdvanceTo(0)
	return l, nil
}

// SetTrajectory replaces the path and re-derives the kinematic state at the current time.
func (l *Leader) SetTrajectory(path trajectory.Trajectory) {
	l.path = path
	l.AdvanceTo(l.t)
}

// AdvanceTo moves the leader to time t.
// Velocity is a forward difference; acceleration is the backward difference of two
// velocity estimates, with the prior velocity taken as zero during the first step.
func (l *Leader) AdvanceTo(t float64) {
	l.pos = l.path.Position(t)
	l.vel = over(l.path.Position(t+l.dt).Sub(l.pos), l.dt)

	var prior geometry.Vector2D
	if t >= l.dt/2 {
		prior = over(l.pos.Sub(l.path.Position(t-l.dt)), l.dt)
	}
	l.acc = over(l.vel.Sub(prior), l.dt)
	l.t = t
}

// Step advances the leader by one timestep.
func (l *Leader) Step() {
	l.AdvanceTo(l.t + l.dt)
}

// SenseAbsolute reports the leader position and velocity, each perturbed by
// independent zero-mean Gaussian noise.
func (l *Leader) SenseAbsolute(positionStd, velocityStd float64) (geometry.Vector2D, geometry.Vector2D) {
	pos := l.noise.Perturb(l.pos, positionStd)
	vel := l.noise.Perturb(l.vel, velocityStd)
	return pos, vel
}

// SenseRelative reports the leader acceleration relative to the follower's own
// estimate, and the range between the two, each independently perturbed.
func (l *Leader) SenseRelative(followerAcc, followerPos geometry.Vector2D, accelStd, distStd float64) (geometry.Vector2D, float64) {
	relAcc := l.acc.Sub(followerAcc)
	dist := l.pos.DistanceTo(followerPos)
	return l.noise.Perturb(relAcc, accelStd), l.noise.PerturbScalar(dist, distStd)
}

func (l *Leader) Position() geometry.Vector2D     { return l.pos }
func (l *Leader) Velocity() geometry.Vector2D     { return l.vel }
func (l *Leader) Acceleration() geometry.Vector2D { return l.acc }
func (l *Leader) Time() float64                   { return l.t }
func (l *Leader) Timestep() float64               { return l.dt }

// over divides v by a positive dt.
func over(v geometry.Vector2D, dt float64) geometry.Vector2D {
	return geometry.Vector2D{X: v.X / dt, Y: v.Y / dt}
}
