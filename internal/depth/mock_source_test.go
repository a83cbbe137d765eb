package depth

import "testing"

func TestMockSource_ReadFrameFailsWhenNotOpen(t *testing.T) {
	s := NewMockSource([][]int16{{1, 2, 3, 4}}, 2, 2)
	if _, _, _, err := s.ReadFrame(); err != ErrSourceNotOpen {
		t.Errorf("ReadFrame() before Open() error = %v, want ErrSourceNotOpen", err)
	}
}

func TestMockSource_LoopsFrames(t *testing.T) {
	frames := [][]int16{{1, 1, 1, 1}, {2, 2, 2, 2}}
	s := NewMockSource(frames, 2, 2)
	s.Open()

	for i := 0; i < 4; i++ {
		got, w, h, err := s.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() error = %v", err)
		}
		want := frames[i%2]
		if w != 2 || h != 2 {
			t.Errorf("ReadFrame() dims = %dx%d, want 2x2", w, h)
		}
		if got[0] != want[0] {
			t.Errorf("ReadFrame() iteration %d = %v, want %v", i, got, want)
		}
	}
}

func TestMockSource_OpenClose(t *testing.T) {
	s := NewMockSource(nil, 0, 0)
	if s.IsOpen() {
		t.Error("IsOpen() = true before Open()")
	}
	s.Open()
	if !s.IsOpen() {
		t.Error("IsOpen() = false after Open()")
	}
	s.Close()
	if s.IsOpen() {
		t.Error("IsOpen() = true after Close()")
	}
}
