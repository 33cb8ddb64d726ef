package geometry

import "fmt"

// Bounds is an axis-aligned rectangle [MinX, MaxX] x [MinY, MaxY].
type Bounds struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Square returns the bounds [-half, half] on both axes.
func Square(half float64) Bounds {
	return Bounds{MinX: -half, MaxX: half, MinY: -half, MaxY: half}
}

// Width returns the extent along X.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the extent along Y.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// ContainsOpen reports whether p lies strictly inside the rectangle.
func (b Bounds) ContainsOpen(p Vector2D) bool {
	return b.MinX < p.X && p.X < b.MaxX && b.MinY < p.Y && p.Y < b.MaxY
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%.2f, %.2f]x[%.2f, %.2f]", b.MinX, b.MaxX, b.MinY, b.MaxY)
}
