// Package recognize implements the top-level recording/recognition state
// machine that every per-frame pipeline result is fed through.
package recognize

import (
	"log"

	"github.com/arjunv/mudra/internal/dtw"
	"github.com/arjunv/mudra/internal/gesture"
	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/stream"
)

// State is one of the facade's three operating modes.
type State int

const (
	Idle State = iota
	Recording
	Recognizing
)

// minRecordedFrames is the shortest recording kept as a stored gesture.
const minRecordedFrames = 10

// Facade owns the gesture stream, the in-memory gesture library, and the
// recording/recognition state machine; it is the single entry point the
// rest of the pipeline feeds hand frames into.
type Facade struct {
	state   State
	str     *stream.Stream
	cfg     dtw.Config
	library []gesture.Gesture

	// OnGestureRecognized fires when a recognizing stream's DTW candidate is
	// accepted.
	OnGestureRecognized func(gesture.Gesture)
	// OnGestureRecorded fires when stop_recording retains a new gesture.
	OnGestureRecorded func(gesture.Gesture)
}

// NewFacade creates a Facade with the given stream capacity and DTW config.
func NewFacade(streamCapacity int, cfg dtw.Config) *Facade {
	return &Facade{
		state: Idle,
		str:   stream.New(streamCapacity),
		cfg:   cfg,
	}
}

// State returns the facade's current state.
func (f *Facade) State() State {
	return f.state
}

// Library returns the in-memory gesture library.
func (f *Facade) Library() []gesture.Gesture {
	return f.library
}

// StartRecording transitions to Recording, stopping Recognizing first.
func (f *Facade) StartRecording() {
	f.state = Recording
}

// StartRecognizer transitions to Recognizing, clearing the stream.
func (f *Facade) StartRecognizer() {
	f.str.Clear()
	f.state = Recognizing
}

// StopRecording returns to Idle, and produces a Gesture from the stream's
// current contents if it holds at least minRecordedFrames frames.
func (f *Facade) StopRecording(name string) (gesture.Gesture, bool) {
	f.state = Idle
	if len(f.str.Frames()) < minRecordedFrames {
		return gesture.Gesture{}, false
	}
	g := f.str.ToGesture(name)
	if f.OnGestureRecorded != nil {
		f.OnGestureRecorded(g)
	}
	return g, true
}

// StopRecognizer returns to Idle.
func (f *Facade) StopRecognizer() {
	f.state = Idle
}

// StoreGesture appends g to the in-memory library.
func (f *Facade) StoreGesture(g gesture.Gesture) {
	f.library = append(f.library, g)
}

// AnalyzeFrame feeds a fully processed Hand through the current state.
func (f *Facade) AnalyzeFrame(h hand.Hand) {
	switch f.state {
	case Recognizing:
		f.str.Add(h)
		if !f.str.Saturated() {
			return
		}
		obs := f.str.ToGesture("")
		cand, ok := dtw.Recognize(obs, f.library, f.cfg)
		if ok && f.OnGestureRecognized != nil {
			f.OnGestureRecognized(*cand)
		}

	case Recording:
		full := f.str.Saturated()
		f.str.Add(h)
		if full {
			log.Printf("recognize: recording stream over capacity, oldest frames are being dropped")
		}
	}
}
