// Package render rasterizes agent positions into a fading occupancy grid.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
)

var (
	// ErrOutOfBounds is returned by Draw for a position outside the open world window.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrInvalidBounds is returned by NewGrid for empty dimensions or a zero-width window.
	ErrInvalidBounds = errors.New("invalid grid bounds")
)

// Tag values written into cells.
const (
	TagLeader   = 1.0
	TagFollower = -1.0
)

// Grid maps the world window onto rows x cols cells. Row 0 is the top (max Y).
type Grid struct {
	rows, cols int
	bounds     geometry.Bounds
	cells      []float64
}

// NewGrid returns an all-zero grid covering bounds.
func NewGrid(rows, cols int, bounds geometry.Bounds) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d cells", ErrInvalidBounds, rows, cols)
	}
	if !(bounds.Width() > 0) || !(bounds.Height() > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBounds, bounds)
	}
	return &Grid{
		rows:   rows,
		cols:   cols,
		bounds: bounds,
		cells:  make([]float64, rows*cols),
	}, nil
}

// Cell returns the row and column p falls into. ok is false outside the open window.
func (g *Grid) Cell(p geometry.Vector2D) (row, col int, ok bool) {
	if !g.bounds.ContainsOpen(p) {
		return 0, 0, false
	}
	row = int(math.Floor((g.bounds.MaxY - p.Y) / g.bounds.Height() * float64(g.rows)))
	col = int(math.Floor((p.X - g.bounds.MinX) / g.bounds.Width() * float64(g.cols)))
	// guards rounding right at the edge
	row = min(max(row, 0), g.rows-1)
	col = min(max(col, 0), g.cols-1)
	return row, col, true
}

// Draw writes tag into the cell containing p.
func (g *Grid) Draw(p geometry.Vector2D, tag float64) error {
	row, col, ok := g.Cell(p)
	if !ok {
		return fmt.Errorf("%w: %v outside %v", ErrOutOfBounds, p, g.bounds)
	}
	g.cells[row*g.cols+col] = tag
	return nil
}

// Fade scales every cell by 1-frac.
func (g *Grid) Fade(frac float64) {
	if frac == 0 {
		return
	}
	k := 1 - frac
	for i := range g.cells {
		g.cells[i] *= k
	}
}

// Clear zeroes every cell.
func (g *Grid) Clear() {
	clear(g.cells)
}

// At returns the value of cell (row, col).
func (g *Grid) At(row, col int) float64 {
	return g.cells[row*g.cols+col]
}

func (g *Grid) Rows() int               { return g.rows }
func (g *Grid) Cols() int               { return g.cols }
func (g *Grid) Bounds() geometry.Bounds { return g.bounds }

// Snapshot copies the cells row by row, for consumers on another goroutine.
func (g *Grid) Snapshot() []float64 {
	out := make([]float64, len(g.cells))
	copy(out, g.cells)
	return out
}
