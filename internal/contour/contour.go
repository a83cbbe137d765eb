// Package contour traces the silhouette of the in-range pixel region produced
// by internal/mask, via a stateful 8-direction raster walk with several
// fallback search strategies.
package contour

import (
	"github.com/arjunv/mudra/internal/mask"
	"github.com/arjunv/mudra/internal/vec"
)

// SearchDirection names one of the four diagonal quadrants the walk searches,
// plus the initial Undefined state.
type SearchDirection int

const (
	Undefined SearchDirection = iota
	UpLeft
	UpRight
	DownRight
	DownLeft
)

// Config holds the tunables for the contour walk; see spec.md §4.C.
type Config struct {
	MaxEdgePixels      int
	RowsToSkip         int
	MaxBacktrack       int
	ScanHeightOffset   float64 // fraction of H
	EnableScanFromLeft bool
	EnableScanFromRight bool
	GridRadius         int
}

// DefaultConfig returns the spec.md §4.C defaults.
func DefaultConfig() Config {
	return Config{
		MaxEdgePixels:       700,
		RowsToSkip:          5,
		MaxBacktrack:        25,
		ScanHeightOffset:    0.2,
		EnableScanFromLeft:  true,
		EnableScanFromRight: false,
		GridRadius:          2,
	}
}

// Tracker is reused across frames; Trace clears its internal state at the
// start of every call, avoiding per-frame allocation of the visited set (see
// spec.md Design Notes).
type Tracker struct {
	cfg     Config
	visited map[posKey]struct{}
	path    []vec.Vector

	// OnContourReady fires exactly once per Trace call, even when the
	// resulting contour is empty.
	OnContourReady func(points []vec.Vector, m []mask.Pixel)
}

type posKey struct{ x, y int }

// NewTracker creates a Tracker with the given configuration.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{
		cfg:     cfg,
		visited: make(map[posKey]struct{}),
	}
}

// Trace walks the silhouette of m (width x height) and returns the ordered
// list of boundary pixel positions. The returned slice is owned by the
// caller; Tracker reuses its own backing array across calls and copies out.
func (t *Tracker) Trace(m []mask.Pixel, width, height int) []vec.Vector {
	for k := range t.visited {
		delete(t.visited, k)
	}
	t.path = t.path[:0]

	start, ok := t.findStart(m, width, height)
	if !ok {
		if t.OnContourReady != nil {
			t.OnContourReady(nil, m)
		}
		return nil
	}

	t.path = append(t.path, start)
	t.visited[key(start)] = struct{}{}

	pos := start
	dir := UpLeft

	for len(t.path) <= t.cfg.MaxEdgePixels {
		next, nextDir, terminal, found := t.step(pos, dir, m, width, height)
		if !found {
			break // termination (c): no candidate found even after backtrack
		}

		t.path = append(t.path, next)
		if terminal {
			break // termination (a): duplicate reached, one final write then stop
		}

		if _, dup := t.visited[key(next)]; dup {
			break // step() already signalled terminal for true dup cases; defensive
		}
		t.visited[key(next)] = struct{}{}
		pos = next
		dir = nextDir
	}

	out := make([]vec.Vector, len(t.path))
	copy(out, t.path)

	if t.OnContourReady != nil {
		t.OnContourReady(out, m)
	}
	return out
}

func key(p vec.Vector) posKey {
	return posKey{int(p.X), int(p.Y)}
}

// step implements the ordered fallback chain of spec.md §4.C: current
// quadrant, next-most-probable quadrant, clockwise sweep, counter-clockwise
// sweep (on duplicate), single-line-end probe (on duplicate), backtrack.
func (t *Tracker) step(pos vec.Vector, dir SearchDirection, m []mask.Pixel, w, h int) (next vec.Vector, nextDir SearchDirection, terminal, found bool) {
	type attempt struct {
		q SearchDirection
	}

	ordered := []attempt{{dir}, {nextProbable(dir)}}
	for _, q := range clockwiseFrom(dir) {
		ordered = append(ordered, attempt{q})
	}

	var firstDuplicate vec.Vector
	haveDuplicate := false

	for _, a := range ordered {
		cand, ok := t.searchQuadrant(pos, a.q, m, w, h)
		if !ok {
			continue
		}
		if _, dup := t.visited[key(cand)]; !dup {
			return cand, a.q, false, true
		}
		if !haveDuplicate {
			firstDuplicate = cand
			haveDuplicate = true
		}
	}

	if haveDuplicate {
		// counter-clockwise sweep instead
		for _, q := range counterClockwiseFrom(dir) {
			cand, ok := t.searchQuadrant(pos, q, m, w, h)
			if !ok {
				continue
			}
			if _, dup := t.visited[key(cand)]; !dup {
				return cand, q, false, true
			}
		}

		// still duplicate: single-line-end probe
		if term, ok := t.singleLineProbe(pos, m, w, h); ok {
			return term, Undefined, true, true
		}

		// nothing new found anywhere: emit the duplicate once and stop
		return firstDuplicate, Undefined, true, true
	}

	// no candidate at all from steps 1-5: backtrack
	cand, q, ok := t.backtrack(m, w, h)
	if !ok {
		return vec.Vector{}, Undefined, false, false
	}
	return cand, q, false, true
}

// nextProbable implements the fixed "next most probable quadrant" table,
// optimised for finger contours going up.
func nextProbable(d SearchDirection) SearchDirection {
	switch d {
	case UpLeft:
		return UpRight
	case UpRight:
		return DownRight
	case DownRight:
		return UpRight
	case DownLeft:
		return DownRight
	}
	return UpLeft
}

// clockwiseNext/counterClockwiseNext define the generic sweep cycle, distinct
// from the finger-optimised nextProbable table above.
func clockwiseNext(d SearchDirection) SearchDirection {
	switch d {
	case UpLeft:
		return UpRight
	case UpRight:
		return DownRight
	case DownRight:
		return DownLeft
	case DownLeft:
		return UpLeft
	}
	return UpLeft
}

func counterClockwiseNext(d SearchDirection) SearchDirection {
	switch d {
	case UpLeft:
		return DownLeft
	case DownLeft:
		return DownRight
	case DownRight:
		return UpRight
	case UpRight:
		return UpLeft
	}
	return UpLeft
}

func clockwiseFrom(d SearchDirection) []SearchDirection {
	if d == Undefined {
		d = UpLeft
	}
	out := make([]SearchDirection, 0, 4)
	cur := d
	for i := 0; i < 4; i++ {
		out = append(out, cur)
		cur = clockwiseNext(cur)
	}
	return out
}

func counterClockwiseFrom(d SearchDirection) []SearchDirection {
	if d == Undefined {
		d = UpLeft
	}
	out := make([]SearchDirection, 0, 4)
	cur := d
	for i := 0; i < 4; i++ {
		out = append(out, cur)
		cur = counterClockwiseNext(cur)
	}
	return out
}

// searchQuadrant scans a gridRadius-pixel rectangle in the given quadrant and
// returns the first pixel that is InRange while having an OutOfRange
// neighbour on the appropriate side for that quadrant — a boundary pixel,
// not an interior one.
func (t *Tracker) searchQuadrant(pos vec.Vector, q SearchDirection, m []mask.Pixel, w, h int) (vec.Vector, bool) {
	sx, sy := quadrantSign(q)
	if sx == 0 && sy == 0 {
		return vec.Vector{}, false
	}

	x0, y0 := int(pos.X), int(pos.Y)

	for r := 1; r <= t.cfg.GridRadius; r++ {
		for _, off := range []struct{ dx, dy int }{
			{r, 1},
			{1, r},
			{r, r},
		} {
			cx := x0 + sx*off.dx
			cy := y0 + sy*off.dy
			if mask.At(m, w, h, cx, cy) != mask.InRange {
				continue
			}
			if isBoundaryFor(q, m, w, h, cx, cy) {
				return vec.Vector{X: float64(cx), Y: float64(cy)}, true
			}
		}
	}
	return vec.Vector{}, false
}

func quadrantSign(q SearchDirection) (sx, sy int) {
	switch q {
	case UpLeft:
		return -1, -1
	case UpRight:
		return 1, -1
	case DownRight:
		return 1, 1
	case DownLeft:
		return -1, 1
	}
	return 0, 0
}

// isBoundaryFor applies the directionally-specific adjacency test: an
// InRange candidate qualifies as a boundary pixel for quadrant q if it has an
// OutOfRange neighbour on the side that quadrant is walking away from.
func isBoundaryFor(q SearchDirection, m []mask.Pixel, w, h, x, y int) bool {
	switch q {
	case UpLeft:
		return mask.At(m, w, h, x, y-1) == mask.OutOfRange || mask.At(m, w, h, x-1, y) == mask.OutOfRange
	case UpRight:
		// The vertical half of this test carries a preserved quirk: see
		// nextPointInRange, whose deltaY is always zero and therefore always
		// satisfied — reproduced rather than fixed, per spec.md §9(a).
		return nextPointInRange(vec.Vector{X: float64(x), Y: float64(y)}, vec.Vector{X: float64(x), Y: float64(y - 1)}) ||
			mask.At(m, w, h, x+1, y) == mask.OutOfRange
	case DownRight:
		return mask.At(m, w, h, x, y+1) == mask.OutOfRange || mask.At(m, w, h, x+1, y) == mask.OutOfRange
	case DownLeft:
		return mask.At(m, w, h, x, y+1) == mask.OutOfRange || mask.At(m, w, h, x-1, y) == mask.OutOfRange
	}
	return false
}

// nextPointInRange mirrors a quirk in the source implementation being
// reproduced here: deltaY is computed as pointB.Y - pointB.Y, which is
// always zero, making the vertical-adjacency branch trivially true. This is
// preserved rather than corrected — see spec.md §9(a) and SPEC_FULL.md §12.
func nextPointInRange(pointA, pointB vec.Vector) bool {
	deltaX := pointB.X - pointA.X
	deltaY := pointB.Y - pointB.Y // always 0 (quirk, preserved intentionally)
	return deltaX != 0 || deltaY == 0
}

// singleLineProbe detects that the neighbourhood of pos is a single-pixel
// wide vertical or horizontal stripe and walks along it until its end,
// returning the terminal pixel.
func (t *Tracker) singleLineProbe(pos vec.Vector, m []mask.Pixel, w, h int) (vec.Vector, bool) {
	x, y := int(pos.X), int(pos.Y)

	leftOOR := mask.At(m, w, h, x-1, y) == mask.OutOfRange
	rightOOR := mask.At(m, w, h, x+1, y) == mask.OutOfRange
	upOOR := mask.At(m, w, h, x, y-1) == mask.OutOfRange
	downOOR := mask.At(m, w, h, x, y+1) == mask.OutOfRange

	switch {
	case leftOOR && rightOOR && !(upOOR && downOOR):
		cy := y
		for mask.At(m, w, h, x, cy-1) == mask.InRange {
			cy--
		}
		return vec.Vector{X: float64(x), Y: float64(cy)}, true
	case upOOR && downOOR && !(leftOOR && rightOOR):
		cx := x
		for mask.At(m, w, h, cx+1, y) == mask.InRange {
			cx++
		}
		return vec.Vector{X: float64(cx), Y: float64(y)}, true
	}
	return vec.Vector{}, false
}

// backtrack steps back through up to MaxBacktrack prior contour pixels,
// doing a clockwise sweep at each, looking for an as-yet-undiscovered
// neighbour.
func (t *Tracker) backtrack(m []mask.Pixel, w, h int) (vec.Vector, SearchDirection, bool) {
	n := len(t.path)
	limit := t.cfg.MaxBacktrack
	if limit > n-1 {
		limit = n - 1
	}

	for i := 1; i <= limit; i++ {
		p := t.path[n-1-i]
		for _, q := range clockwiseFrom(UpLeft) {
			cand, ok := t.searchQuadrant(p, q, m, w, h)
			if !ok {
				continue
			}
			if _, dup := t.visited[key(cand)]; !dup {
				return cand, q, true
			}
		}
	}
	return vec.Vector{}, Undefined, false
}

// findStart locates the initial contour pixel via a raster scan, optionally
// falling back to the right-to-left scan strategy.
func (t *Tracker) findStart(m []mask.Pixel, w, h int) (vec.Vector, bool) {
	if t.cfg.EnableScanFromLeft {
		if p, ok := t.findStartFromLeft(m, w, h); ok {
			return p, true
		}
	}
	if t.cfg.EnableScanFromRight {
		if p, ok := t.findStartFromRight(m, w, h); ok {
			return p, true
		}
	}
	return vec.Vector{}, false
}

func (t *Tracker) findStartFromLeft(m []mask.Pixel, w, h int) (vec.Vector, bool) {
	startY := h - 1 - int(t.cfg.ScanHeightOffset*float64(h))
	stride := t.cfg.RowsToSkip
	if stride <= 0 {
		stride = 1
	}
	for y := startY; y >= 0; y -= stride {
		for x := 0; x < w; x++ {
			if mask.At(m, w, h, x, y) == mask.InRange {
				return vec.Vector{X: float64(x), Y: float64(y)}, true
			}
		}
	}
	return vec.Vector{}, false
}

// findStartFromRight scans from the bottom-right upward; on finding an
// InRange pixel it traverses leftward along that row until the first
// OutOfRange pixel, then starts the walk from that left-object boundary.
func (t *Tracker) findStartFromRight(m []mask.Pixel, w, h int) (vec.Vector, bool) {
	startY := h - 1 - int(t.cfg.ScanHeightOffset*float64(h))
	stride := t.cfg.RowsToSkip
	if stride <= 0 {
		stride = 1
	}
	for y := startY; y >= 0; y -= stride {
		for x := w - 1; x >= 0; x-- {
			if mask.At(m, w, h, x, y) != mask.InRange {
				continue
			}
			lx := x
			for mask.At(m, w, h, lx-1, y) == mask.InRange {
				lx--
			}
			return vec.Vector{X: float64(lx), Y: float64(y)}, true
		}
	}
	return vec.Vector{}, false
}
