package pursuit

import (
	"context"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/trajectory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietFollower(start geometry.Vector2D, threshold float64) *Follower {
	return NewFollower(FollowerConfig{
		Name:               "f",
		Start:              start,
		NominalSpeed:       1,
		ProximityThreshold: threshold,
	})
}

func TestNewFollower_InitialState(t *testing.T) {
	f := quietFollower(geometry.Vector2D{X: 1.5, Y: -0.3}, 10)

	assert.Equal(t, geometry.Vector2D{X: 1.5, Y: -0.3}, f.Position())
	assert.Equal(t, geometry.Vector2D{}, f.Velocity())
	assert.Equal(t, geometry.Vector2D{}, f.PreviousVelocity())
	assert.Equal(t, 1.0, f.CruiseSpeed())
	assert.Equal(t, 0, f.Trail().Len())
	assert.Equal(t, SourceTruth, f.Config().TrailSource)
}

func TestFollower_PreviousVelocityLagsOneStep(t *testing.T) {
	l := newTestLeader(t, 0.02, trajectory.FigureEight())
	f := quietFollower(geometry.Vector2D{X: 1.5, Y: -0.3}, 10)

	for i := 0; i < 20; i++ {
		before := f.Velocity()
		_ = f.Follow(l)
		require.Equal(t, before, f.PreviousVelocity(), "step %d", i)
		l.Step()
	}
}

func TestFollower_TrailRecordsTrueLeaderPositions(t *testing.T) {
	l := newTestLeader(t, 0.02, trajectory.FigureEight())
	f := quietFollower(geometry.Vector2D{X: 1.5, Y: -0.3}, 10)

	var want []geometry.Vector2D
	for i := 0; i < 10; i++ {
		want = append(want, l.Position())
		_ = f.Follow(l)
		l.Step()
	}
	assert.Equal(t, want, f.Trail().Points())
}

func TestFollower_GateNeverCommitsBeyondThreshold(t *testing.T) {
	for _, threshold := range []float64{0, 0.3, 1} {
		l := newTestLeader(t, 0.02, trajectory.FigureEight())
		f := NewFollower(FollowerConfig{
			Name:               "f",
			Start:              geometry.Vector2D{X: 1.5, Y: -0.3},
			NominalSpeed:       1,
			ProximityThreshold: threshold,
			AccelNoise:         0.5,
			DistanceNoise:      0.3,
		})
		for i := 0; i < 300; i++ {
			deadReckoned := f.Position().Add(f.Velocity().Mul(l.Timestep()))
			err := f.Follow(l)
			if err != nil {
				require.ErrorIs(t, err, ErrDegenerateDirection)
			}
			if f.Position() != deadReckoned {
				require.Less(t, l.Position().DistanceTo(f.Position()), threshold,
					"threshold=%v step=%d committed a move outside the gate", threshold, i)
			}
			l.Step()
		}
	}
}

// Scenario C: a zero threshold freezes steering, leaving pure dead reckoning.
func TestFollower_ZeroThresholdNeverCommits(t *testing.T) {
	l := newTestLeader(t, 0.02, trajectory.FigureEight())
	f := quietFollower(geometry.Vector2D{X: 1.5, Y: -0.3}, 0)

	for i := 0; i < 200; i++ {
		want := f.Position().Add(f.Velocity().Mul(l.Timestep()))
		require.NoError(t, f.Follow(l))
		require.Equal(t, want, f.Position(), "step %d", i)
		l.Step()
	}
}

// Scenario A: a stationary leader at the origin pulls the follower in at nominal speed.
func TestFollower_ConvergesOnStationaryLeader(t *testing.T) {
	l := newTestLeader(t, 0.02, nil)
	f := quietFollower(geometry.Vector2D{X: 1.5, Y: -0.3}, -1)
	startDist := f.Position().Len()

	prev := startDist
	for i := 0; i < 60; i++ {
		require.NoError(t, f.Follow(l))
		d := f.Position().Len()
		require.InDelta(t, prev-0.02, d, 1e-9, "step %d should move one cruise step closer", i)
		prev = d
		l.Step()
	}

	for i := 0; i < 200; i++ {
		if err := f.Follow(l); err != nil {
			require.ErrorIs(t, err, ErrDegenerateDirection)
		}
		l.Step()
	}
	assert.InDelta(t, 1.0, f.CruiseSpeed(), 1e-12)
	assert.Equal(t, geometry.Vector2D{}, f.Velocity())
	assert.LessOrEqual(t, f.Position().Len(), 0.02+1e-9)
}

func TestFollower_CruiseSpeedApproachesTarget(t *testing.T) {
	line := trajectory.Func(func(t float64) geometry.Vector2D { return geometry.Vector2D{X: 2 * t} })
	l := newTestLeader(t, 0.01, line)
	f := quietFollower(geometry.Vector2D{X: -1, Y: 0.5}, -1)

	for i := 0; i < 200; i++ {
		_ = f.Follow(l)
		l.Step()
	}
	// target = nominal 1 + leader speed 2
	assert.InDelta(t, 3.0, f.CruiseSpeed(), 1e-6)
}

func TestFollower_DegenerateDirection(t *testing.T) {
	l := newTestLeader(t, 0.02, nil)
	f := quietFollower(geometry.Vector2D{}, -1)

	err := f.Follow(l)
	require.ErrorIs(t, err, ErrDegenerateDirection)

	// everything before the steering move has happened
	assert.Equal(t, 1, f.Trail().Len())
	assert.Equal(t, geometry.Vector2D{}, f.Position())
	assert.Equal(t, 1.0, f.CruiseSpeed())
}

func TestFollower_EstimateSourceStaysFinite(t *testing.T) {
	l := newTestLeader(t, 0.02, trajectory.FigureEight())
	f := NewFollower(FollowerConfig{
		Name:               "est",
		Start:              geometry.Vector2D{X: 1.5, Y: -0.3},
		NominalSpeed:       1,
		ProximityThreshold: 10,
		AccelNoise:         0.5,
		DistanceNoise:      0.3,
		TrailSource:        SourceEstimate,
	})
	for i := 0; i < 300; i++ {
		if err := f.Follow(l); err != nil {
			require.ErrorIs(t, err, ErrDegenerateDirection)
		}
		require.True(t, f.Position().IsFinite(), "step %d", i)
		l.Step()
	}
	assert.Equal(t, 300, f.Trail().Len())
}

func TestFollower_EstimateMatchesTruthWithoutNoise(t *testing.T) {
	l := newTestLeader(t, 0.02, nil)
	f := NewFollower(FollowerConfig{
		Name:               "est",
		Start:              geometry.Vector2D{X: 0, Y: -1},
		NominalSpeed:       1,
		ProximityThreshold: -1,
		TrailSource:        SourceEstimate,
	})
	require.NoError(t, f.Follow(l))

	// the initial relative guess points along +Y and is rescaled to the sensed range
	got := f.Trail().Points()[0]
	assert.True(t, got.EqWithin(geometry.Vector2D{}, 1e-12), "estimated leader = %v", got)
}

// Scenario B: the reference figure eight run without noise.
func TestScenario_FigureEightWithoutNoise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Noise = NoiseConfig{}
	sc, err := Build(cfg)
	require.NoError(t, err)
	start := sc.Leader.Position()

	require.NoError(t, sc.Simulation.Run(context.Background(), 4*math.Pi))

	// 4π is not a whole number of 0.02 steps; the run stops on the first step past it
	assert.GreaterOrEqual(t, sc.Simulation.Time(), 4*math.Pi)
	assert.Less(t, sc.Simulation.Time(), 4*math.Pi+cfg.Dt+1e-9)
	assert.InDelta(t, 0, sc.Leader.Position().DistanceTo(start), 0.05)

	sc.Leader.AdvanceTo(4 * math.Pi)
	assert.True(t, sc.Leader.Position().EqWithin(start, 1e-9))

	f := sc.Simulation.Agents()[0].(*Follower)
	assert.True(t, f.Position().IsFinite())
	assert.Equal(t, sc.Simulation.Steps(), f.Trail().Len())
}
