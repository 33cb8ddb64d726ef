package pursuit

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"google.golang.org/protobuf/encoding/protowire"
)

// FollowerSnapshot is the complete dynamic state of a Follower.
// Its binary form is a protobuf message:
//
//	message Vector { fixed64 x = 1; fixed64 y = 2; }   // IEEE-754 bits
//	message FollowerSnapshot {
//	  string name = 1;
//	  Vector position = 2;
//	  Vector velocity = 3;
//	  Vector previous_velocity = 4;
//	  fixed64 cruise_speed = 5;
//	  repeated Vector trail = 6;      // oldest first
//	  Vector rel_position = 7;
//	  Vector rel_velocity = 8;
//	  fixed64 last_distance = 9;
//	}
type FollowerSnapshot struct {
	Name             string              `json:"name"`
	Position         geometry.Vector2D   `json:"position"`
	Velocity         geometry.Vector2D   `json:"velocity"`
	PreviousVelocity geometry.Vector2D   `json:"previousVelocity"`
	CruiseSpeed      float64             `json:"cruiseSpeed"`
	Trail            []geometry.Vector2D `json:"trail"`
	RelPosition      geometry.Vector2D   `json:"relPosition"`
	RelVelocity      geometry.Vector2D   `json:"relVelocity"`
	LastDistance     float64             `json:"lastDistance"`
}

const (
	fieldName protowire.Number = iota + 1
	fieldPosition
	fieldVelocity
	fieldPreviousVelocity
	fieldCruiseSpeed
	fieldTrail
	fieldRelPosition
	fieldRelVelocity
	fieldLastDistance
)

// Snapshot captures the follower state.
func (f *Follower) Snapshot() FollowerSnapshot {
	return FollowerSnapshot{
		Name:             f.cfg.Name,
		Position:         f.pos,
		Velocity:         f.vel,
		PreviousVelocity: f.prevVel,
		CruiseSpeed:      f.cruise,
		Trail:            f.trail.Points(),
		RelPosition:      f.relPos,
		RelVelocity:      f.relVel,
		LastDistance:     f.lastDistance,
	}
}

// RestoreFollower rebuilds a follower from cfg and snap. Trail points are
// re-inserted in their original order, so nearest-point ties still resolve to
// the earliest point.
func RestoreFollower(cfg FollowerConfig, snap FollowerSnapshot) *Follower {
	if snap.Name != "" {
		cfg.Name = snap.Name
	}
	f := NewFollower(cfg)
	f.pos = snap.Position
	f.vel = snap.Velocity
	f.prevVel = snap.PreviousVelocity
	f.cruise = snap.CruiseSpeed
	for _, p := range snap.Trail {
		f.trail.Push(p)
	}
	f.relPos = snap.RelPosition
	f.relVel = snap.RelVelocity
	f.lastDistance = snap.LastDistance
	return f
}

// MarshalBinary encodes s in protobuf wire format.
func (s FollowerSnapshot) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, 64+len(s.Trail)*22)
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, s.Name)
	b = appendVector(b, fieldPosition, s.Position)
	b = appendVector(b, fieldVelocity, s.Velocity)
	b = appendVector(b, fieldPreviousVelocity, s.PreviousVelocity)
	b = appendFloat(b, fieldCruiseSpeed, s.CruiseSpeed)
	for _, p := range s.Trail {
		b = appendVector(b, fieldTrail, p)
	}
	b = appendVector(b, fieldRelPosition, s.RelPosition)
	b = appendVector(b, fieldRelVelocity, s.RelVelocity)
	b = appendFloat(b, fieldLastDistance, s.LastDistance)
	return b, nil
}

// UnmarshalBinary decodes a message produced by MarshalBinary. Unknown fields are skipped.
func (s *FollowerSnapshot) UnmarshalBinary(b []byte) error {
	*s = FollowerSnapshot{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("decode follower snapshot: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldName && typ == protowire.BytesType:
			var v string
			v, n = protowire.ConsumeString(b)
			s.Name = v

		case num == fieldCruiseSpeed && typ == protowire.Fixed64Type,
			num == fieldLastDistance && typ == protowire.Fixed64Type:
			var v uint64
			v, n = protowire.ConsumeFixed64(b)
			if num == fieldCruiseSpeed {
				s.CruiseSpeed = math.Float64frombits(v)
			} else {
				s.LastDistance = math.Float64frombits(v)
			}

		case isVectorField(num) && typ == protowire.BytesType:
			var raw []byte
			raw, n = protowire.ConsumeBytes(b)
			if n < 0 {
				break
			}
			v, err := parseVector(raw)
			if err != nil {
				return fmt.Errorf("decode follower snapshot field %d: %w", num, err)
			}
			s.setVector(num, v)

		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("decode follower snapshot field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

func isVectorField(num protowire.Number) bool {
	switch num {
	case fieldPosition, fieldVelocity, fieldPreviousVelocity, fieldTrail, fieldRelPosition, fieldRelVelocity:
		return true
	}
	return false
}

func (s *FollowerSnapshot) setVector(num protowire.Number, v geometry.Vector2D) {
	switch num {
	case fieldPosition:
		s.Position = v
	case fieldVelocity:
		s.Velocity = v
	case fieldPreviousVelocity:
		s.PreviousVelocity = v
	case fieldTrail:
		s.Trail = append(s.Trail, v)
	case fieldRelPosition:
		s.RelPosition = v
	case fieldRelVelocity:
		s.RelVelocity = v
	}
}

func appendFloat(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendVector(b []byte, num protowire.Number, v geometry.Vector2D) []byte {
	var m [18]byte
	msg := appendFloat(m[:0], 1, v.X)
	msg = appendFloat(msg, 2, v.Y)
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func parseVector(b []byte) (geometry.Vector2D, error) {
	var v geometry.Vector2D
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return v, protowire.ParseError(n)
		}
		b = b[n:]
		if typ == protowire.Fixed64Type && (num == 1 || num == 2) {
			var bits uint64
			bits, n = protowire.ConsumeFixed64(b)
			if n >= 0 {
				if num == 1 {
					v.X = math.Float64frombits(bits)
				} else {
					v.Y = math.Float64frombits(bits)
				}
			}
		} else {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return v, protowire.ParseError(n)
		}
		b = b[n:]
	}
	return v, nil
}
