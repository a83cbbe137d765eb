// Package stream holds the bounded FIFO of recent hand frames that the DTW
// recognizer draws its observation from.
package stream

import (
	"github.com/arjunv/mudra/internal/gesture"
	"github.com/arjunv/mudra/internal/hand"
)

// DefaultCapacity is the default FIFO depth (spec.md §4.J).
const DefaultCapacity = 40

// Stream is a bounded FIFO of Hands with a monotonic frame counter.
type Stream struct {
	capacity int
	frames   []hand.Hand
	accumulated int
}

// New creates a Stream with the given capacity.
func New(capacity int) *Stream {
	return &Stream{capacity: capacity}
}

// Add enqueues h, dropping the oldest frame if the stream is over capacity.
func (s *Stream) Add(h hand.Hand) {
	s.frames = append(s.frames, h)
	if len(s.frames) > s.capacity {
		s.frames = s.frames[len(s.frames)-s.capacity:]
	}
	s.accumulated++
}

// Saturated reports whether the stream holds exactly capacity frames.
func (s *Stream) Saturated() bool {
	return len(s.frames) == s.capacity
}

// Capacity returns the stream's configured maximum depth.
func (s *Stream) Capacity() int {
	return s.capacity
}

// AccumulatedFrameCount returns the monotonic count of frames ever added,
// unaffected by Clear.
func (s *Stream) AccumulatedFrameCount() int {
	return s.accumulated
}

// Frames returns the current contents, oldest first. The returned slice must
// not be mutated by the caller.
func (s *Stream) Frames() []hand.Hand {
	return s.frames
}

// ToGesture produces a Gesture whose frames are the stream's current
// contents, in order.
func (s *Stream) ToGesture(name string) gesture.Gesture {
	frames := make([]hand.Hand, len(s.frames))
	copy(frames, s.frames)
	return gesture.Gesture{Name: name, Frames: frames}
}

// Clear empties the stream without resetting the accumulated counter.
func (s *Stream) Clear() {
	s.frames = s.frames[:0]
}
