package smooth

import (
	"testing"

	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/vec"
)

func TestVector_LinearInterpolation(t *testing.T) {
	cur := vec.Vector{X: 10, Y: 0, Z: 0}
	prev := vec.Vector{X: 0, Y: 0, Z: 0}
	got, err := Vector(cur, prev, 0.5)
	if err != nil {
		t.Fatalf("Vector() error = %v", err)
	}
	want := vec.Vector{X: 5, Y: 0, Z: 0}
	if got != want {
		t.Errorf("Vector() = %+v, want %+v", got, want)
	}
}

func TestVector_RejectsOutOfRangeAlpha(t *testing.T) {
	for _, alpha := range []float64{0, 1, -0.1, 1.1} {
		if _, err := Vector(vec.Vector{}, vec.Vector{}, alpha); err != ErrArgumentOutOfRange {
			t.Errorf("Vector() alpha=%v error = %v, want ErrArgumentOutOfRange", alpha, err)
		}
	}
}

func TestHand_SmoothsEveryFingerSlot(t *testing.T) {
	cur := hand.Assemble([]hand.Fingertip{
		{Position: vec.Vector{X: 10, Y: 10}, Direction: vec.Vector{X: 2, Y: 2}},
	})
	prev := hand.Assemble([]hand.Fingertip{
		{Position: vec.Vector{X: 0, Y: 0}, Direction: vec.Vector{X: 0, Y: 0}},
	})

	got, err := Hand(cur, prev, 0.5)
	if err != nil {
		t.Fatalf("Hand() error = %v", err)
	}
	want := vec.Vector{X: 5, Y: 5, Z: 0}
	if got.Fingers[0].Position != want {
		t.Errorf("Fingers[0].Position = %+v, want %+v", got.Fingers[0].Position, want)
	}
}
