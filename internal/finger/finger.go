// Package finger classifies k-curvature peaks as fingertips.
package finger

import (
	"math"

	"github.com/arjunv/mudra/internal/curve"
	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/mask"
	"github.com/arjunv/mudra/internal/vec"
)

// continuationThreshold is the pixel distance under which two curve points
// are considered part of the same contiguous run (spec.md §4.E).
const continuationThreshold = 5

// probeDistance is how far out along the bisector the fingertip test probes.
const probeDistance = 25

// Config holds the finger recognizer tunables.
type Config struct {
	MinPixelsPerSegment int
}

// DefaultConfig returns the spec.md §4.E defaults.
func DefaultConfig() Config {
	return Config{MinPixelsPerSegment: 0}
}

// Recognize turns a list of curve points into fingertip candidates against
// the given pixel mask (W x H). onReady, if non-nil, fires exactly once
// after the pass (fingertip_locations_ready).
func Recognize(points []curve.Point, m []mask.Pixel, w, h int, cfg Config, onReady func([]hand.Fingertip)) []hand.Fingertip {
	rotated := rotateForWrap(points)

	var tips []hand.Fingertip
	for _, run := range segment(rotated) {
		if len(run) < cfg.MinPixelsPerSegment {
			continue
		}
		mid := run[len(run)/2]
		if tip, ok := classify(mid, m, w, h); ok {
			tips = append(tips, tip)
		}
	}

	if onReady != nil {
		onReady(tips)
	}
	return tips
}

// rotateForWrap rotates points so that, if the last and first points are a
// continuation of one another, the returned slice starts at the beginning of
// that wrapping run instead of splitting it across the boundary.
func rotateForWrap(points []curve.Point) []curve.Point {
	n := len(points)
	if n < 2 {
		return points
	}
	if !isContinuation(points[n-1].Point, points[0].Point) {
		return points
	}

	i := n - 1
	for i > 0 && isContinuation(points[i-1].Point, points[i].Point) {
		i--
	}
	if i == 0 {
		return points
	}

	out := make([]curve.Point, 0, n)
	out = append(out, points[i:]...)
	out = append(out, points[:i]...)
	return out
}

// segment groups consecutive curve points whose positions fall within the
// continuation threshold into runs.
func segment(points []curve.Point) [][]curve.Point {
	if len(points) == 0 {
		return nil
	}

	var runs [][]curve.Point
	cur := []curve.Point{points[0]}
	for i := 1; i < len(points); i++ {
		if isContinuation(points[i-1].Point, points[i].Point) {
			cur = append(cur, points[i])
			continue
		}
		runs = append(runs, cur)
		cur = []curve.Point{points[i]}
	}
	runs = append(runs, cur)
	return runs
}

func isContinuation(a, b vec.Vector) bool {
	return math.Abs(a.X-b.X) < continuationThreshold && math.Abs(a.Y-b.Y) < continuationThreshold
}

// classify applies the fingertip test to a run's midpoint curve point:
// fingertips point out of the hand mask, so the probe along the bisector of
// SegA/SegB must land outside the in-range region.
func classify(p curve.Point, m []mask.Pixel, w, h int) (hand.Fingertip, bool) {
	bisect := vec.Bisect(p.SegA, p.SegB)
	q := vec.Add(p.Point, vec.Scale(bisect, probeDistance))

	if mask.IsInRange(mask.At(m, w, h, int(q.X), int(q.Y))) {
		return hand.Fingertip{}, false
	}

	direction := vec.Sub(vec.Scale(p.SegC, 0.5), p.SegB)
	return hand.Fingertip{
		Position:  p.Point,
		Direction: direction,
		Bisect:    q,
	}, true
}
