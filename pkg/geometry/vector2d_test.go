package geometry

import (
	"errors"
	"math"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVector(t *testing.T) {
	v := NewVector(1, 2)
	if v.X != 1 || v.Y != 2 {
		t.Errorf("NewVector(1, 2) = %v; want (1, 2)", v)
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{1.2345, -5.6789}
	want := "(1.234, -5.679)"
	if got := v.String(); got != want {
		t.Errorf("Vector2D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		want := Vector2D{4, 6}
		if got := v1.Add(v2); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector2D{-2, -2}
		if got := v1.Sub(v2); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector2D{2, 4}
		if got := v1.Mul(2); !got.Eq(want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("Div", func(t *testing.T) {
		want := Vector2D{0.5, 1}
		got, err := v1.Div(2)
		if err != nil {
			t.Fatalf("%v.Div(2) returned error %v", v1, err)
		}
		if !got.Eq(want) {
			t.Errorf("%v.Div(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("DivByZero", func(t *testing.T) {
		got, err := v1.Div(0)
		if err == nil {
			t.Errorf("%v.Div(0) should have returned an error, got %v", v1, got)
		}
		if !math.IsInf(got.X, 0) || !math.IsInf(got.Y, 0) {
			t.Errorf("Div(0) should result in Inf coordinates, got %v", got)
		}
	})

	t.Run("Dot", func(t *testing.T) {
		if got := v1.Dot(v2); got != 11 {
			t.Errorf("Dot = %v; want 11", got)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector2D{3, 4} // 3-4-5 triangle

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 5 {
			t.Errorf("Len = %v; want 5", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); got != 25 {
			t.Errorf("LenSqr = %v; want 25", got)
		}
	})

	t.Run("ClampLen", func(t *testing.T) {
		if got := v.ClampLen(10); !got.Eq(v) {
			t.Errorf("ClampLen(10) = %v; want unchanged %v", got, v)
		}
		got := v.ClampLen(2.5)
		if !got.Eq(Vector2D{1.5, 2}) {
			t.Errorf("ClampLen(2.5) = %v; want (1.5, 2)", got)
		}
	})
}

func TestVector_Unit(t *testing.T) {
	tests := []struct {
		name    string
		v       Vector2D
		want    Vector2D
		wantErr error
	}{
		{"3-4-5", Vector2D{3, 4}, Vector2D{0.6, 0.8}, nil},
		{"negative axis", Vector2D{0, -7}, Vector2D{0, -1}, nil},
		{"tiny but non-zero", Vector2D{1e-300, 0}, Vector2D{1, 0}, nil},
		{"zero", Vector2D{0, 0}, Vector2D{}, ErrZeroLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.Unit()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Unit(%v) error = %v; want %v", tt.v, err, tt.wantErr)
			}
			if !got.Eq(tt.want) {
				t.Errorf("Unit(%v) = %v; want %v", tt.v, got, tt.want)
			}
			if err == nil && !floatEquals(got.Len(), 1.0) {
				t.Errorf("Unit(%v) length = %v; want 1", tt.v, got.Len())
			}
		})
	}
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector2D{1, 1}
	v2 := Vector2D{4, 5} // dx=3, dy=4, dist=5

	if got := v1.DistanceTo(v2); got != 5 {
		t.Errorf("DistanceTo = %v; want 5", got)
	}

	if got := v1.DistanceSquaredTo(v2); got != 25 {
		t.Errorf("DistanceSquaredTo = %v; want 25", got)
	}
}

func TestVector_IsFinite(t *testing.T) {
	if !(Vector2D{1, -2}).IsFinite() {
		t.Error("(1,-2) should be finite")
	}
	if (Vector2D{math.NaN(), 0}).IsFinite() {
		t.Error("NaN vector should not be finite")
	}
	if (Vector2D{0, math.Inf(-1)}).IsFinite() {
		t.Error("Inf vector should not be finite")
	}
}

func TestVector_Eq(t *testing.T) {
	v := Vector2D{1, 2}

	if !v.Eq(Vector2D{1, 2}) {
		t.Error("Eq exact match failed")
	}

	vClose := Vector2D{1 + Epsilon/2, 2 - Epsilon/2}
	if !v.Eq(vClose) {
		t.Error("Eq epsilon match failed")
	}

	if v.Eq(Vector2D{1.1, 2}) {
		t.Error("Eq mismatch failed")
	}

	if !v.EqWithin(Vector2D{1.05, 1.95}, 0.1) {
		t.Error("EqWithin(0.1) should accept a 0.05 offset")
	}
}

func TestBounds(t *testing.T) {
	b := Square(4)
	if b.Width() != 8 || b.Height() != 8 {
		t.Fatalf("Square(4) extents = %v x %v; want 8 x 8", b.Width(), b.Height())
	}

	tests := []struct {
		p    Vector2D
		want bool
	}{
		{Vector2D{0, 0}, true},
		{Vector2D{3.99, -3.99}, true},
		{Vector2D{4, 0}, false}, // the edge itself is outside
		{Vector2D{0, -5}, false},
	}
	for _, tt := range tests {
		if got := b.ContainsOpen(tt.p); got != tt.want {
			t.Errorf("%v.ContainsOpen(%v) = %v; want %v", b, tt.p, got, tt.want)
		}
	}
}
