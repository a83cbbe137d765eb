package recognize

import (
	"testing"

	"github.com/arjunv/mudra/internal/dtw"
	"github.com/arjunv/mudra/internal/gesture"
	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/vec"
)

func handAt(x, y float64) hand.Hand {
	var tips []hand.Fingertip
	for i := 0; i < 5; i++ {
		tips = append(tips, hand.Fingertip{Position: vec.Vector{X: x + float64(i), Y: y, Z: 0}})
	}
	return hand.Assemble(tips)
}

func TestStartRecording_TransitionsToRecording(t *testing.T) {
	f := NewFacade(40, dtw.DefaultConfig())
	f.StartRecognizer()
	f.StartRecording()
	if f.State() != Recording {
		t.Errorf("State() = %v, want Recording", f.State())
	}
}

func TestStopRecording_DiscardsShortRecordings(t *testing.T) {
	f := NewFacade(40, dtw.DefaultConfig())
	f.StartRecording()
	for i := 0; i < 5; i++ {
		f.AnalyzeFrame(handAt(float64(i), float64(i)))
	}
	g, kept := f.StopRecording("too-short")
	if kept {
		t.Errorf("StopRecording() kept = true with only 5 frames, want false (< %d)", minRecordedFrames)
	}
	_ = g
	if f.State() != Idle {
		t.Errorf("State() after StopRecording() = %v, want Idle", f.State())
	}
}

func TestStopRecording_KeepsLongRecordingsAndFiresCallback(t *testing.T) {
	f := NewFacade(40, dtw.DefaultConfig())
	f.StartRecording()
	for i := 0; i < 12; i++ {
		f.AnalyzeFrame(handAt(float64(i), float64(i)))
	}

	fired := 0
	f.OnGestureRecorded = func(g gesture.Gesture) { fired++ }

	g, kept := f.StopRecording("wave")
	if !kept {
		t.Fatal("StopRecording() kept = false with 12 frames, want true")
	}
	if len(g.Frames) != 12 {
		t.Errorf("len(g.Frames) = %d, want 12", len(g.Frames))
	}
	if fired != 1 {
		t.Errorf("OnGestureRecorded fired %d times, want 1", fired)
	}
}

func TestAnalyzeFrame_RecognizingEmitsOnSaturationMatch(t *testing.T) {
	f := NewFacade(3, dtw.DefaultConfig())
	recorded := []hand.Hand{handAt(0, 0), handAt(1, 1), handAt(2, 2)}
	f.StoreGesture(gesture.Gesture{Name: "wave", Frames: recorded})

	f.StartRecognizer()

	recognized := 0
	f.OnGestureRecognized = func(g gesture.Gesture) { recognized++ }

	for _, h := range recorded {
		f.AnalyzeFrame(h)
	}
	if recognized != 1 {
		t.Errorf("OnGestureRecognized fired %d times, want 1", recognized)
	}
}

func TestAnalyzeFrame_IdleDoesNothing(t *testing.T) {
	f := NewFacade(40, dtw.DefaultConfig())
	f.AnalyzeFrame(handAt(0, 0))
	if len(f.str.Frames()) != 0 {
		t.Errorf("Idle AnalyzeFrame() appended to the stream, want no-op")
	}
}
