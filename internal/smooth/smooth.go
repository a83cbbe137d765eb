// Package smooth applies exponential smoothing to hand observations.
package smooth

import (
	"errors"

	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/vec"
)

// ErrArgumentOutOfRange is returned when alpha is not strictly between 0 and 1.
var ErrArgumentOutOfRange = errors.New("smooth: alpha must satisfy 0 < alpha < 1")

// Vector smooths a single component: out = prev + alpha*(cur-prev).
func Vector(cur, prev vec.Vector, alpha float64) (vec.Vector, error) {
	if alpha <= 0 || alpha >= 1 {
		return vec.Vector{}, ErrArgumentOutOfRange
	}
	return vec.Add(prev, vec.Scale(vec.Sub(cur, prev), alpha)), nil
}

// Hand applies exponential smoothing to every finger slot's Position and
// Direction, elementwise against prev.
func Hand(cur, prev hand.Hand, alpha float64) (hand.Hand, error) {
	if alpha <= 0 || alpha >= 1 {
		return hand.Hand{}, ErrArgumentOutOfRange
	}

	var out hand.Hand
	for i := range out.Fingers {
		pos, _ := Vector(cur.Fingers[i].Position, prev.Fingers[i].Position, alpha)
		dir, _ := Vector(cur.Fingers[i].Direction, prev.Fingers[i].Direction, alpha)
		out.Fingers[i] = hand.Fingertip{
			Position:  pos,
			Direction: dir,
			Bisect:    cur.Fingers[i].Bisect,
		}
	}
	return out, nil
}
