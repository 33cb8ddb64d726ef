package pursuit

import (
	"math"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
)

// Trail is the ordered history of leader positions a follower steers toward.
//
// Every pushed point gets a sequence number (0, 1, 2, ...) that fixes its temporal
// order. With capacity 0 the trail keeps everything and Nearest is a linear scan,
// which is the reference behavior and costs O(len) per step. A positive capacity
// turns the storage into a ring that forgets the oldest points, and a positive
// cell size adds a spatial hash so Nearest only visits cells around the query.
// Both variants return the earliest-inserted point among equally near ones.
type Trail struct {
	points   []geometry.Vector2D
	capacity int
	count    int // sequence number of the next point
	grid     *trailGrid
}

// NewTrail returns an empty trail. Negative arguments are treated as zero.
func NewTrail(capacity int, cellSize float64) *Trail {
	tr := &Trail{capacity: max(capacity, 0)}
	if cellSize > 0 {
		tr.grid = newTrailGrid(cellSize)
	}
	return tr
}

// Push appends p, evicting the oldest point when the trail is at capacity.
func (tr *Trail) Push(p geometry.Vector2D) {
	seq := tr.count
	if tr.capacity > 0 && len(tr.points) == tr.capacity {
		slot := seq % tr.capacity
		if tr.grid != nil {
			tr.grid.remove(tr.points[slot], seq-tr.capacity)
		}
		tr.points[slot] = p
	} else {
		tr.points = append(tr.points, p)
	}
	if tr.grid != nil {
		tr.grid.insert(p, seq)
	}
	tr.count++
}

// Len returns the number of points currently held.
func (tr *Trail) Len() int { return len(tr.points) }

// Total returns how many points were ever pushed, evicted ones included.
func (tr *Trail) Total() int { return tr.count }

// Points returns a copy of the held points, oldest first.
func (tr *Trail) Points() []geometry.Vector2D {
	out := make([]geometry.Vector2D, 0, len(tr.points))
	for seq := tr.oldest(); seq < tr.count; seq++ {
		out = append(out, tr.at(seq))
	}
	return out
}

// Nearest returns the held point closest to q. ok is false for an empty trail.
func (tr *Trail) Nearest(q geometry.Vector2D) (p geometry.Vector2D, ok bool) {
	if len(tr.points) == 0 {
		return geometry.Vector2D{}, false
	}
	best := -1
	if tr.grid != nil {
		best = tr.grid.nearest(q, tr.at)
	}
	if best < 0 {
		best = tr.scan(q)
	}
	return tr.at(best), true
}

// scan is the linear nearest search; strict comparison keeps the earliest minimum.
func (tr *Trail) scan(q geometry.Vector2D) int {
	best := -1
	bestD := math.Inf(1)
	for seq := tr.oldest(); seq < tr.count; seq++ {
		if d := q.DistanceSquaredTo(tr.at(seq)); d < bestD || best < 0 {
			best, bestD = seq, d
		}
	}
	return best
}

func (tr *Trail) oldest() int { return tr.count - len(tr.points) }

func (tr *Trail) at(seq int) geometry.Vector2D {
	if tr.capacity > 0 {
		return tr.points[seq%tr.capacity]
	}
	return tr.points[seq]
}

// ---------------------------------------------------------------------
// Spatial hash
// ---------------------------------------------------------------------

type gridKey struct {
	x, y int
}

// trailGrid buckets sequence numbers by cell. Cells hold sequences in insertion order.
type trailGrid struct {
	cellSize float64
	cells    map[gridKey][]int
	// occupied extent; only ever grows, so it is a superset after evictions
	minX, maxX, minY, maxY int
	seeded                 bool
}

func newTrailGrid(cellSize float64) *trailGrid {
	return &trailGrid{
		cellSize: cellSize,
		cells:    make(map[gridKey][]int),
	}
}

// cellOf floors rather than truncates so cells keep a uniform width across zero.
func (g *trailGrid) cellOf(p geometry.Vector2D) gridKey {
	return gridKey{
		x: int(math.Floor(p.X / g.cellSize)),
		y: int(math.Floor(p.Y / g.cellSize)),
	}
}

func (g *trailGrid) insert(p geometry.Vector2D, seq int) {
	k := g.cellOf(p)
	g.cells[k] = append(g.cells[k], seq)
	if !g.seeded {
		g.minX, g.maxX, g.minY, g.maxY = k.x, k.x, k.y, k.y
		g.seeded = true
		return
	}
	g.minX, g.maxX = min(g.minX, k.x), max(g.maxX, k.x)
	g.minY, g.maxY = min(g.minY, k.y), max(g.maxY, k.y)
}

func (g *trailGrid) remove(p geometry.Vector2D, seq int) {
	k := g.cellOf(p)
	list := g.cells[k]
	for i, s := range list {
		if s == seq {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(g.cells, k)
		return
	}
	g.cells[k] = list
}

// nearest searches rings of cells around q, nearest ring first.
// Points in ring r+1 lie at least r*cellSize from q, so the search stops as soon
// as the best candidate is strictly closer than that bound. Returns -1 if empty.
func (g *trailGrid) nearest(q geometry.Vector2D, at func(int) geometry.Vector2D) int {
	if !g.seeded || len(g.cells) == 0 {
		return -1
	}
	c := g.cellOf(q)
	maxRing := max(abs(c.x-g.minX), abs(c.x-g.maxX), abs(c.y-g.minY), abs(c.y-g.maxY))

	best := -1
	bestD := math.Inf(1)
	visit := func(k gridKey) {
		for _, seq := range g.cells[k] {
			d := q.DistanceSquaredTo(at(seq))
			if best < 0 || d < bestD || (d == bestD && seq < best) {
				best, bestD = seq, d
			}
		}
	}

	for r := 0; r <= maxRing; r++ {
		forEachRingCell(c, r, visit)
		if best >= 0 {
			bound := float64(r) * g.cellSize
			if bestD < bound*bound {
				break
			}
		}
	}
	return best
}

// forEachRingCell visits the cells whose Chebyshev distance from c is exactly r.
func forEachRingCell(c gridKey, r int, fn func(gridKey)) {
	if r == 0 {
		fn(c)
		return
	}
	for x := c.x - r; x <= c.x+r; x++ {
		fn(gridKey{x: x, y: c.y - r})
		fn(gridKey{x: x, y: c.y + r})
	}
	for y := c.y - r + 1; y <= c.y+r-1; y++ {
		fn(gridKey{x: c.x - r, y: y})
		fn(gridKey{x: c.x + r, y: y})
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
