package finger

import (
	"testing"

	"github.com/arjunv/mudra/internal/curve"
	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/mask"
	"github.com/arjunv/mudra/internal/vec"
)

func discMask(w, h, cx, cy, radius int) []mask.Pixel {
	m := make([]mask.Pixel, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			if dx*dx+dy*dy <= float64(radius*radius) {
				m[y*w+x] = mask.InRange
			}
		}
	}
	return m
}

func TestClassify_BisectPointingOutIsFingertip(t *testing.T) {
	w, h := 100, 100
	m := discMask(w, h, 50, 50, 20)

	// Point near the disc's top edge; SegA/SegB bisector points up (-Y),
	// away from the disc interior.
	p := curve.Point{
		Point: vec.Vector{X: 50, Y: 31},
		SegA:  vec.Vector{X: -1, Y: -5},
		SegB:  vec.Vector{X: 1, Y: -5},
		SegC:  vec.Vector{X: 2, Y: 0},
	}

	tip, ok := classify(p, m, w, h)
	if !ok {
		t.Fatal("classify() = false, want true for a bisector pointing out of the mask")
	}
	if tip.Position != p.Point {
		t.Errorf("Position = %+v, want %+v", tip.Position, p.Point)
	}
}

func TestClassify_BisectPointingInIsNotFingertip(t *testing.T) {
	w, h := 100, 100
	m := discMask(w, h, 50, 50, 20)

	// Same edge point, but the bisector now points down (+Y), into the disc.
	p := curve.Point{
		Point: vec.Vector{X: 50, Y: 31},
		SegA:  vec.Vector{X: -1, Y: 5},
		SegB:  vec.Vector{X: 1, Y: 5},
		SegC:  vec.Vector{X: 2, Y: 0},
	}

	_, ok := classify(p, m, w, h)
	if ok {
		t.Error("classify() = true, want false for a bisector pointing into the mask")
	}
}

func TestRecognize_SplitsRunsByContinuation(t *testing.T) {
	w, h := 200, 200
	m := discMask(w, h, 100, 100, 60)

	far := curve.Point{
		Point: vec.Vector{X: 100, Y: 39},
		SegA:  vec.Vector{X: -1, Y: -5},
		SegB:  vec.Vector{X: 1, Y: -5},
	}
	near := curve.Point{
		Point: vec.Vector{X: 101, Y: 39}, // within 5px of far: same run
		SegA:  vec.Vector{X: -1, Y: -5},
		SegB:  vec.Vector{X: 1, Y: -5},
	}
	distant := curve.Point{
		Point: vec.Vector{X: 100, Y: 160}, // far away: new run
		SegA:  vec.Vector{X: -1, Y: 5},
		SegB:  vec.Vector{X: 1, Y: 5},
	}

	gotCalls := 0
	var lastTips []hand.Fingertip
	tips := Recognize([]curve.Point{far, near, distant}, m, w, h, DefaultConfig(), func(ft []hand.Fingertip) {
		gotCalls++
		lastTips = ft
	})
	if gotCalls != 1 {
		t.Errorf("onReady called %d times, want exactly 1", gotCalls)
	}
	if len(tips) != len(lastTips) {
		t.Errorf("Recognize() returned %d tips, onReady saw %d", len(tips), len(lastTips))
	}
	if len(tips) != 2 {
		t.Errorf("Recognize() returned %d tips, want 2 (one per run)", len(tips))
	}
}

func TestSegment_GroupsByContinuationThreshold(t *testing.T) {
	points := []curve.Point{
		{Point: vec.Vector{X: 0, Y: 0}},
		{Point: vec.Vector{X: 2, Y: 0}},  // continuation of [0]
		{Point: vec.Vector{X: 50, Y: 0}}, // new run
	}
	runs := segment(points)
	if len(runs) != 2 {
		t.Fatalf("segment() returned %d runs, want 2", len(runs))
	}
	if len(runs[0]) != 2 {
		t.Errorf("first run has %d points, want 2", len(runs[0]))
	}
	if len(runs[1]) != 1 {
		t.Errorf("second run has %d points, want 1", len(runs[1]))
	}
}

func TestRotateForWrap_NoRotationWhenEndsNotContinuous(t *testing.T) {
	points := []curve.Point{
		{Point: vec.Vector{X: 0, Y: 0}},
		{Point: vec.Vector{X: 50, Y: 50}},
	}
	got := rotateForWrap(points)
	if len(got) != len(points) || got[0].Point != points[0].Point {
		t.Errorf("rotateForWrap() changed order when ends are not continuous")
	}
}
