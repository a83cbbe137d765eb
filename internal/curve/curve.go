// Package curve detects k-curvature angle peaks along a closed contour.
package curve

import (
	"math"

	"github.com/arjunv/mudra/internal/vec"
)

// Point is a curve point: the contour position plus the two segments used to
// compute its angle, and their difference.
type Point struct {
	Point vec.Vector
	SegA  vec.Vector
	SegB  vec.Vector
	SegC  vec.Vector
}

// Config holds the k-curvature tunables; see spec.md §4.D.
type Config struct {
	K        int
	MinAngle float64 // radians
	MaxAngle float64 // radians
}

// DefaultConfig returns the spec.md §4.D defaults, with angles already
// converted to radians.
func DefaultConfig() Config {
	return Config{
		K:        20,
		MinAngle: 25 * math.Pi / 180,
		MaxAngle: 55 * math.Pi / 180,
	}
}

// Detect walks contour once, emitting a Point for every index whose
// k-curvature angle falls within [cfg.MinAngle, cfg.MaxAngle].
// onReady, if non-nil, fires exactly once after the pass with the full
// result (curves_ready, per spec.md §4.D), even when it is empty.
func Detect(contour []vec.Vector, cfg Config, onReady func([]Point)) []Point {
	n := len(contour)
	var out []Point

	wrap := wraps(contour, cfg.K)

	for i := 0; i < n; i++ {
		a := segmentBack(contour, i, cfg.K, wrap)
		b := segmentForward(contour, i, cfg.K, wrap)
		c := vec.Sub(b, a)
		theta := vec.Theta(a, b)

		if theta >= cfg.MinAngle && theta <= cfg.MaxAngle {
			out = append(out, Point{
				Point: contour[i],
				SegA:  a,
				SegB:  b,
				SegC:  c,
			})
		}
	}

	if onReady != nil {
		onReady(out)
	}
	return out
}

// segmentBack returns the vector from contour[i] to contour[i-k], treating
// the contour as possibly circular when i-k would run off the front.
func segmentBack(contour []vec.Vector, i, k int, wrap bool) vec.Vector {
	n := len(contour)
	j := i - k
	if j >= 0 {
		return vec.Sub(contour[j], contour[i])
	}

	if wrap {
		j = ((j % n) + n) % n
		return vec.Sub(contour[j], contour[i])
	}
	return vec.Sub(contour[0], contour[i])
}

// segmentForward is the symmetric counterpart of segmentBack for the i+k
// direction.
func segmentForward(contour []vec.Vector, i, k int, wrap bool) vec.Vector {
	n := len(contour)
	j := i + k
	if j <= n-1 {
		return vec.Sub(contour[j], contour[i])
	}

	if wrap {
		j = j % n
		return vec.Sub(contour[j], contour[i])
	}
	return vec.Sub(contour[n-1], contour[i])
}

// wraps reports whether the contour's endpoints are adjacent, making
// circular indexing valid instead of clamping.
func wraps(contour []vec.Vector, k int) bool {
	n := len(contour)
	if n < 2 {
		return false
	}
	first, last := contour[0], contour[n-1]
	dx := math.Abs(first.X - last.X)
	dy := math.Abs(first.Y - last.Y)
	return dx <= float64(k+1) && dy <= float64(k+1)
}
