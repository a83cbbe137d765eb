package gesture

import "github.com/arjunv/mudra/internal/hand"

// Gesture is an ordered list of Hand frames plus a human-readable name. The
// in-memory library the facade holds is an unordered collection; names are
// not required to be unique (spec.md §3).
type Gesture struct {
	Name   string
	Frames []hand.Hand
}
