// Package hand assembles recognized fingertips into the fixed 5-slot Hand
// descriptor shared by every downstream stage.
package hand

import "github.com/arjunv/mudra/internal/vec"

// FingerNotFound is the sentinel Position (and Direction) for an unfilled
// finger slot.
var FingerNotFound = vec.Vector{X: 1000, Y: 1000, Z: 1000}

// Fingertip is a recognized fingertip candidate.
type Fingertip struct {
	Position  vec.Vector
	Direction vec.Vector
	Bisect    vec.Vector
}

// Hand is a fixed-length sequence of exactly 5 finger slots: thumb, index,
// middle, ring, little. Hands are immutable once assembled.
type Hand struct {
	Fingers [5]Fingertip
}

// Assemble builds a Hand from up to 5 fingertips (in recognition order);
// unfilled slots get the FingerNotFound sentinel. Fingertips beyond the
// fifth are ignored — callers are expected to have already truncated the
// list (see spec.md §4.E).
func Assemble(fingertips []Fingertip) Hand {
	var h Hand
	for i := range h.Fingers {
		h.Fingers[i] = Fingertip{Position: FingerNotFound, Direction: FingerNotFound}
	}
	for i := 0; i < len(fingertips) && i < 5; i++ {
		h.Fingers[i] = fingertips[i]
	}
	return h
}

// HasFinger reports whether slot i is filled.
func (h Hand) HasFinger(i int) bool {
	return h.Fingers[i].Position != FingerNotFound
}

// FingerCount returns the number of filled slots.
func (h Hand) FingerCount() int {
	n := 0
	for i := range h.Fingers {
		if h.HasFinger(i) {
			n++
		}
	}
	return n
}
