// Package predict extrapolates the next hand observation from recent
// history via a one-step EMA-based predictor.
package predict

import (
	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/vec"
)

// Hand predicts the next Hand from obs (oldest first), applying the
// extrapolation independently per finger slot, for Position and Direction.
func Hand(obs []hand.Hand, w float64) hand.Hand {
	var out hand.Hand
	for i := range out.Fingers {
		positions := make([]vec.Vector, len(obs))
		directions := make([]vec.Vector, len(obs))
		for j, h := range obs {
			positions[j] = h.Fingers[i].Position
			directions[j] = h.Fingers[i].Direction
		}
		out.Fingers[i] = hand.Fingertip{
			Position:  extrapolate(positions, w),
			Direction: extrapolate(directions, w),
		}
	}
	return out
}

// extrapolate computes the EMA of series and projects one step forward:
// predicted = current + (current - ema).
//
// The EMA update loop intentionally runs over indices 0..len-2 and never
// folds in the last observation — that is the source behaviour being
// reproduced here (see spec.md §4.H), not a bug to fix.
func extrapolate(series []vec.Vector, w float64) vec.Vector {
	if len(series) == 0 {
		return vec.Vector{}
	}

	e := series[0]
	for i := 0; i <= len(series)-2; i++ {
		e = vec.Add(vec.Scale(series[i], w), vec.Scale(e, 1-w))
	}

	current := series[len(series)-1]
	return vec.Add(current, vec.Sub(current, e))
}
