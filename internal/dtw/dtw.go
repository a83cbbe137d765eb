// Package dtw recognizes a completed observation gesture against a library
// of stored candidates via dynamic time warping over hand frames.
package dtw

import (
	"math"

	"github.com/arjunv/mudra/internal/gesture"
	"github.com/arjunv/mudra/internal/hand"
)

// Config holds the DTW tunables; see spec.md §4.K.
type Config struct {
	WeightX                float64
	WeightY                float64
	WeightZ                float64
	FrameDistanceThreshold float64
	PathCostThreshold      float64
	HorizontalThreshold    int
	VerticalThreshold      int
}

// DefaultConfig returns the spec.md §4.K defaults.
func DefaultConfig() Config {
	return Config{
		WeightX:                0,
		WeightY:                0,
		WeightZ:                0.5,
		FrameDistanceThreshold: 30.0,
		PathCostThreshold:      8.0,
		HorizontalThreshold:    10,
		VerticalThreshold:      10,
	}
}

// HandDistance is the sum, over all 5 finger slots, of the Euclidean
// distance between each slot's Position.
func HandDistance(x, y hand.Hand) float64 {
	var total float64
	for i := range x.Fingers {
		dx := x.Fingers[i].Position.X - y.Fingers[i].Position.X
		dy := x.Fingers[i].Position.Y - y.Fingers[i].Position.Y
		dz := x.Fingers[i].Position.Z - y.Fingers[i].Position.Z
		total += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return total
}

// SelectCandidate picks the stored gesture whose last frame is closest to
// obs's last frame, provided that distance is below FrameDistanceThreshold.
func SelectCandidate(obs gesture.Gesture, candidates []gesture.Gesture, cfg Config) (*gesture.Gesture, bool) {
	if len(obs.Frames) == 0 {
		return nil, false
	}
	last := obs.Frames[len(obs.Frames)-1]

	bestDist := math.Inf(1)
	bestIdx := -1
	for i, g := range candidates {
		if len(g.Frames) == 0 {
			continue
		}
		d := HandDistance(last, g.Frames[len(g.Frames)-1])
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestDist >= cfg.FrameDistanceThreshold {
		return nil, false
	}
	return &candidates[bestIdx], true
}

// Recognize selects the closest candidate gesture and evaluates it via the
// accumulated-cost DTW matrix; it returns the candidate and true if accepted.
func Recognize(obs gesture.Gesture, candidates []gesture.Gesture, cfg Config) (*gesture.Gesture, bool) {
	cand, ok := SelectCandidate(obs, candidates, cfg)
	if !ok {
		return nil, false
	}

	n, m := len(obs.Frames), len(cand.Frames)
	if n == 0 || m == 0 {
		return nil, false
	}

	local := make([][]float64, n)
	accum := make([][]float64, n)
	for i := 0; i < n; i++ {
		local[i] = make([]float64, m)
		accum[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			local[i][j] = HandDistance(obs.Frames[i], cand.Frames[j])
		}
	}

	accum[0][0] = 0
	for j := 1; j < m; j++ {
		accum[0][j] = local[0][j] + accum[0][j-1]
	}
	for i := 1; i < n; i++ {
		accum[i][0] = local[i][0] + accum[i-1][0]
	}
	for i := 1; i < n; i++ {
		for j := 1; j < m; j++ {
			accum[i][j] = min3(
				cfg.WeightX*local[i][j]+accum[i-1][j],
				cfg.WeightY*local[i][j]+accum[i][j-1],
				cfg.WeightZ*local[i][j]+accum[i-1][j-1],
			)
		}
	}

	totalCost, ok := backtrack(accum, n, m, cfg)
	if !ok {
		return nil, false
	}

	meanCost := totalCost / float64(n)
	if meanCost < cfg.PathCostThreshold {
		return cand, true
	}
	return nil, false
}

// backtrack walks from (n-1,m-1) back to (0,0), at each step picking the
// minimum of {left: accum[i-1][j], below: accum[i][j-1], diagonal:
// accum[i-1][j-1]}, diagonal-preferred on ties, accumulating the chosen
// value into total_path_cost. "left" steps count against VerticalThreshold,
// "below" steps against HorizontalThreshold; a diagonal step resets both.
func backtrack(accum [][]float64, n, m int, cfg Config) (float64, bool) {
	i, j := n-1, m-1
	var total float64
	var horizontal, vertical int

	for i > 0 || j > 0 {
		hasLeft := i > 0
		hasBelow := j > 0
		hasDiag := i > 0 && j > 0

		var left, below, diag float64 = math.Inf(1), math.Inf(1), math.Inf(1)
		if hasLeft {
			left = accum[i-1][j]
		}
		if hasBelow {
			below = accum[i][j-1]
		}
		if hasDiag {
			diag = accum[i-1][j-1]
		}

		switch {
		case hasDiag && diag <= left && diag <= below:
			total += diag
			i--
			j--
			horizontal, vertical = 0, 0
		case hasBelow && below <= left:
			total += below
			j--
			horizontal++
		default:
			total += left
			i--
			vertical++
		}

		if horizontal > cfg.HorizontalThreshold || vertical > cfg.VerticalThreshold {
			return 0, false
		}
	}

	return total, true
}

func min3(a, b, c float64) float64 {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
