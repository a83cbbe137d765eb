// Package enhance buffers recent hand frames and retroactively repairs
// transient finger-count inconsistencies before forwarding frames on to
// gesture recognition.
package enhance

import (
	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/predict"
)

// Config holds the enhancer tunables; see spec.md §4.I.
type Config struct {
	QueueCap            int
	FrameLimit          int
	SaturationThreshold int
	PredictionWeight    float64
}

// DefaultConfig returns the spec.md §4.I defaults.
func DefaultConfig() Config {
	return Config{
		QueueCap:            40,
		FrameLimit:          10,
		SaturationThreshold: 30,
		PredictionWeight:    0.8,
	}
}

// Enhancer is the stateful per-stream consistency repairer; create one per
// gesture stream.
type Enhancer struct {
	cfg     Config
	queue   []hand.Hand
	pending []hand.Hand
	prev    hand.Hand
	hasPrev bool

	// FixedInconsistencies reports whether the most recent Process call
	// repaired pending frames.
	FixedInconsistencies bool

	// OnForward is called once per Hand the enhancer decides to forward to
	// gesture recognition, in order.
	OnForward func(hand.Hand)
}

// NewEnhancer creates an Enhancer with the given configuration.
func NewEnhancer(cfg Config) *Enhancer {
	return &Enhancer{cfg: cfg}
}

// Process feeds a single incoming Hand through the repair state machine.
func (e *Enhancer) Process(h hand.Hand) {
	saturated := len(e.queue) >= e.cfg.SaturationThreshold
	mismatch := e.hasPrev && h.FingerCount() != e.prev.FingerCount()

	switch {
	case saturated && mismatch:
		e.pending = append(e.pending, h)
		if len(e.pending) > e.cfg.FrameLimit {
			for _, p := range e.pending {
				e.enqueue(p)
				e.forward(p)
			}
			e.pending = nil
		}
		e.FixedInconsistencies = false

	case len(e.pending) > 0:
		e.pending = append(e.pending, h)
		predicted := predict.Hand(e.queue, e.cfg.PredictionWeight)
		for _, p := range e.pending {
			repaired := repair(p, predicted)
			e.enqueue(repaired)
			e.forward(repaired)
		}
		e.pending = nil
		e.FixedInconsistencies = true

	default:
		e.enqueue(h)
		e.forward(h)
		e.FixedInconsistencies = false
	}

	e.prev = h
	e.hasPrev = true
}

func (e *Enhancer) enqueue(h hand.Hand) {
	e.queue = append(e.queue, h)
	if len(e.queue) > e.cfg.QueueCap {
		e.queue = e.queue[len(e.queue)-e.cfg.QueueCap:]
	}
}

func (e *Enhancer) forward(h hand.Hand) {
	if e.OnForward != nil {
		e.OnForward(h)
	}
}

// repair substitutes the predicted Hand's fingertips into every slot missing
// from h.
func repair(h, predicted hand.Hand) hand.Hand {
	for i := range h.Fingers {
		if !h.HasFinger(i) {
			h.Fingers[i] = predicted.Fingers[i]
		}
	}
	return h
}
