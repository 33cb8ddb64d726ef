package pursuit

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/trajectory"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidConfig wraps every configuration problem found by Validate or New.
var ErrInvalidConfig = errors.New("invalid configuration")

//go:embed config.schema.json
var configSchema string

const schemaURL = "config.schema.json"

type NoiseConfig struct {
	Accel    float64 `json:"accel"`
	Distance float64 `json:"distance"`
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
}

type TrailConfig struct {
	Capacity int         `json:"capacity"` // 0 keeps every point
	CellSize float64     `json:"cellSize"` // 0 uses a linear scan
	Source   TrailSource `json:"source"`
}

// MapConfig describes the occupancy grid drawn by the viewers.
type MapConfig struct {
	Resolution int     `json:"resolution"`
	Bound      float64 `json:"bound"`
	Fade       float64 `json:"fade"`
}

type FollowerSpec struct {
	Name  string            `json:"name"`
	Start geometry.Vector2D `json:"start"`
	Kind  AgentKind         `json:"kind"`
}

type Config struct {
	Dt       float64 `json:"dt"`
	Duration float64 `json:"duration"`
	Seed     uint64  `json:"seed"`

	NominalSpeed float64 `json:"nominalSpeed"`
	// Negative disables the gate; JSON has no infinity.
	ProximityThreshold float64 `json:"proximityThreshold"`
	Aggression         float64 `json:"aggression"` // chaser pull gain

	Followers  []FollowerSpec  `json:"followers"`
	Noise      NoiseConfig     `json:"noise"`
	Trail      TrailConfig     `json:"trail"`
	Trajectory trajectory.Spec `json:"trajectory"`
	Map        MapConfig       `json:"map"`
}

// DefaultConfig returns the reference figure-eight scenario.
func DefaultConfig() *Config {
	return &Config{
		Dt:                 0.02,
		Duration:           4 * math.Pi,
		Seed:               1,
		NominalSpeed:       1.0,
		ProximityThreshold: 10.0,
		Aggression:         0.5,
		Followers:          defaultFollowers(),
		Noise: NoiseConfig{
			Accel:    0.5,
			Distance: 0.3,
			Position: 0.1,
			Velocity: 0.1,
		},
		Trail:      TrailConfig{Source: SourceTruth},
		Trajectory: trajectory.Spec{Kind: trajectory.KindLissajous},
		Map:        MapConfig{Resolution: 100, Bound: 4, Fade: 0.01},
	}
}

func defaultFollowers() []FollowerSpec {
	return []FollowerSpec{{Name: "f0", Start: geometry.Vector2D{X: 1.5, Y: -0.3}, Kind: KindTrail}}
}

// LoadConfig reads a JSON file, checks it against the embedded schema and
// overlays it on DefaultConfig.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig is LoadConfig for an in-memory document.
func ParseConfig(b []byte) (*Config, error) {
	sch, err := jsonschema.CompileString(schemaURL, configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	// decoding into a non-empty slice would merge into the default entries
	cfg.Followers = nil
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Followers) == 0 {
		cfg.Followers = defaultFollowers()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every semantic problem at once, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Dt > 0 && !math.IsInf(c.Dt, 0), "dt must be positive and finite, got %v", c.Dt)
	check(c.Duration >= 0, "duration must not be negative, got %v", c.Duration)
	check(c.NominalSpeed >= 0, "nominalSpeed must not be negative, got %v", c.NominalSpeed)
	check(c.Aggression >= 0, "aggression must not be negative, got %v", c.Aggression)
	check(c.Noise.Accel >= 0 && c.Noise.Distance >= 0 && c.Noise.Position >= 0 && c.Noise.Velocity >= 0,
		"noise standard deviations must not be negative, got %+v", c.Noise)
	check(c.Trail.Capacity >= 0, "trail.capacity must not be negative, got %d", c.Trail.Capacity)
	check(c.Trail.CellSize >= 0, "trail.cellSize must not be negative, got %v", c.Trail.CellSize)
	check(c.Trail.Source == "" || c.Trail.Source == SourceTruth || c.Trail.Source == SourceEstimate,
		"trail.source must be %q or %q, got %q", SourceTruth, SourceEstimate, c.Trail.Source)
	check(c.Map.Resolution > 0, "map.resolution must be positive, got %d", c.Map.Resolution)
	check(c.Map.Bound > 0, "map.bound must be positive, got %v", c.Map.Bound)
	check(c.Map.Fade >= 0 && c.Map.Fade <= 1, "map.fade must be within [0, 1], got %v", c.Map.Fade)

	check(len(c.Followers) > 0, "at least one follower is required")
	seen := make(map[string]bool, len(c.Followers))
	for i, f := range c.Followers {
		check(f.Name != "", "followers[%d]: name is required", i)
		check(!seen[f.Name], "followers[%d]: duplicate name %q", i, f.Name)
		seen[f.Name] = true
		check(f.Kind == "" || f.Kind == KindTrail || f.Kind == KindChaser,
			"followers[%d]: unknown kind %q", i, f.Kind)
		check(f.Start.IsFinite(), "followers[%d]: start must be finite", i)
	}

	if _, err := trajectory.FromSpec(c.Trajectory); err != nil {
		errs = append(errs, fmt.Errorf("trajectory: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// FollowerConfig derives the control parameters of the trail follower described by spec.
func (c *Config) FollowerConfig(spec FollowerSpec) FollowerConfig {
	return FollowerConfig{
		Name:               spec.Name,
		Start:              spec.Start,
		NominalSpeed:       c.NominalSpeed,
		ProximityThreshold: c.ProximityThreshold,
		AccelNoise:         c.Noise.Accel,
		DistanceNoise:      c.Noise.Distance,
		TrailCapacity:      c.Trail.Capacity,
		TrailCellSize:      c.Trail.CellSize,
		TrailSource:        c.Trail.Source,
	}
}

// ChaserConfig derives the parameters of the chaser described by spec.
func (c *Config) ChaserConfig(spec FollowerSpec) ChaserConfig {
	return ChaserConfig{
		Name:          spec.Name,
		Start:         spec.Start,
		NominalSpeed:  c.NominalSpeed,
		Aggression:    c.Aggression,
		PositionNoise: c.Noise.Position,
		VelocityNoise: c.Noise.Velocity,
	}
}

// MapBounds is the square world window drawn by the viewers.
func (c *Config) MapBounds() geometry.Bounds {
	return geometry.Square(c.Map.Bound)
}
