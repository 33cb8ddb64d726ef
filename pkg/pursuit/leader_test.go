package pursuit

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/sensor"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/trajectory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeader(t *testing.T, dt float64, path trajectory.Trajectory) *Leader {
	t.Helper()
	l, err := NewLeader(dt, sensor.New(1))
	require.NoError(t, err)
	if path != nil {
		l.SetTrajectory(path)
	}
	return l
}

func TestNewLeader_RejectsBadTimestep(t *testing.T) {
	for _, dt := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
		_, err := NewLeader(dt, nil)
		assert.ErrorIs(t, err, ErrInvalidTimestep, "dt=%v", dt)
	}
}

func TestNewLeader_StartsAtRestAtOrigin(t *testing.T) {
	l, err := NewLeader(0.1, nil)
	require.NoError(t, err)

	assert.Equal(t, geometry.Vector2D{}, l.Position())
	assert.Equal(t, geometry.Vector2D{}, l.Velocity())
	assert.Equal(t, geometry.Vector2D{}, l.Acceleration())
	assert.Equal(t, 0.0, l.Time())
	assert.Equal(t, 0.1, l.Timestep())
}

func TestLeader_SetTrajectoryKeepsTime(t *testing.T) {
	l := newTestLeader(t, 0.1, nil)
	l.Step()
	l.Step()
	require.InDelta(t, 0.2, l.Time(), 1e-12)

	line := trajectory.Func(func(t float64) geometry.Vector2D { return geometry.Vector2D{X: 3 * t, Y: 1} })
	l.SetTrajectory(line)

	assert.InDelta(t, 0.2, l.Time(), 1e-12)
	assert.True(t, l.Position().EqWithin(geometry.Vector2D{X: 0.6, Y: 1}, 1e-12))
	assert.True(t, l.Velocity().EqWithin(geometry.Vector2D{X: 3, Y: 0}, 1e-9))
	assert.True(t, l.Acceleration().EqWithin(geometry.Vector2D{}, 1e-6))
}

func TestLeader_FirstStepPriorVelocityIsZero(t *testing.T) {
	dt := 0.02
	l := newTestLeader(t, dt, trajectory.FigureEight())

	want := l.Velocity().Mul(1 / dt)
	assert.True(t, l.Acceleration().EqWithin(want, 1e-9), "acc = %v; want %v", l.Acceleration(), want)
}

func TestLeader_AdvanceToIsIdempotent(t *testing.T) {
	l := newTestLeader(t, 0.02, trajectory.FigureEight())

	l.AdvanceTo(1.37)
	p, v, a := l.Position(), l.Velocity(), l.Acceleration()
	l.AdvanceTo(1.37)

	assert.Equal(t, p, l.Position())
	assert.Equal(t, v, l.Velocity())
	assert.Equal(t, a, l.Acceleration())
	assert.Equal(t, 1.37, l.Time())
}

func TestLeader_VelocityConvergesToDerivative(t *testing.T) {
	const at = 0.7
	exact := geometry.Vector2D{X: -1.5 * math.Sin(at), Y: 2 * math.Cos(2*at)}

	var prevErr float64
	for i, dt := range []float64{0.1, 0.01, 0.001} {
		l := newTestLeader(t, dt, trajectory.FigureEight())
		l.AdvanceTo(at)
		err := l.Velocity().DistanceTo(exact)
		if i > 0 {
			assert.Less(t, err, prevErr/5, "dt=%v should shrink the error", dt)
		}
		prevErr = err
	}
	assert.Less(t, prevErr, 5e-3)
}

func TestLeader_ZeroNoiseSensingIsExact(t *testing.T) {
	l := newTestLeader(t, 0.02, trajectory.FigureEight())
	l.AdvanceTo(2)

	pos, vel := l.SenseAbsolute(0, 0)
	assert.Equal(t, l.Position(), pos)
	assert.Equal(t, l.Velocity(), vel)

	followerAcc := geometry.Vector2D{X: 0.5, Y: -1}
	followerPos := geometry.Vector2D{X: -1, Y: 2}
	relAcc, dist := l.SenseRelative(followerAcc, followerPos, 0, 0)
	assert.Equal(t, l.Acceleration().Sub(followerAcc), relAcc)
	assert.Equal(t, l.Position().DistanceTo(followerPos), dist)
}

func TestLeader_NoisySensingIsReproducible(t *testing.T) {
	sense := func() (geometry.Vector2D, float64) {
		l, err := NewLeader(0.02, sensor.New(5))
		require.NoError(t, err)
		l.SetTrajectory(trajectory.FigureEight())
		return l.SenseRelative(geometry.Vector2D{}, geometry.Vector2D{}, 0.5, 0.3)
	}
	a1, d1 := sense()
	a2, d2 := sense()
	assert.Equal(t, a1, a2)
	assert.Equal(t, d1, d2)
}

func TestLeader_FigureEightReturnsToStart(t *testing.T) {
	l := newTestLeader(t, 0.02, trajectory.FigureEight())
	start := l.Position()

	l.AdvanceTo(4 * math.Pi)
	assert.True(t, l.Position().EqWithin(start, 1e-9), "position = %v; want %v", l.Position(), start)
}
