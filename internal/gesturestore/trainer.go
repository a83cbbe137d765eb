package gesturestore

import (
	"fmt"

	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/vec"
)

// Trainer merges several recordings of the same gesture into one averaged
// template, so a user's three or four takes of a "wave" become a single
// smoother reference sequence for the DTW recognizer.
type Trainer struct{}

// NewTrainer creates a new Trainer instance.
func NewTrainer() *Trainer {
	return &Trainer{}
}

// Train resamples every sample to the length of the first sample and
// averages finger positions slot-by-slot. A slot missing (FingerNotFound) in
// the majority of samples at a given resampled index stays FingerNotFound in
// the template; otherwise it is averaged over only the samples where it was
// present.
func (t *Trainer) Train(samples [][]hand.Hand) ([]hand.Hand, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("gesturestore: no samples provided")
	}
	for i, s := range samples {
		if len(s) < 2 {
			return nil, fmt.Errorf("gesturestore: sample %d has insufficient frames", i)
		}
	}

	targetLength := len(samples[0])
	resampled := make([][]hand.Hand, len(samples))
	for i, s := range samples {
		resampled[i] = resampleFrames(s, targetLength)
	}

	averaged := make([]hand.Hand, targetLength)
	for frameIdx := 0; frameIdx < targetLength; frameIdx++ {
		var out hand.Hand
		for slot := 0; slot < 5; slot++ {
			var sum, sumDir vec.Vector
			var n, missing float64
			for _, s := range resampled {
				ft := s[frameIdx].Fingers[slot]
				if ft.Position == hand.FingerNotFound {
					missing++
					continue
				}
				sum = vec.Add(sum, ft.Position)
				sumDir = vec.Add(sumDir, ft.Direction)
				n++
			}
			if n == 0 || missing > n {
				out.Fingers[slot] = hand.Fingertip{Position: hand.FingerNotFound, Direction: hand.FingerNotFound}
				continue
			}
			out.Fingers[slot] = hand.Fingertip{
				Position:  vec.Scale(sum, 1/n),
				Direction: vec.Scale(sumDir, 1/n),
			}
		}
		averaged[frameIdx] = out
	}
	return averaged, nil
}

// resampleFrames linearly interpolates frames to targetLength, matching the
// index-by-index positions of every finger slot.
func resampleFrames(frames []hand.Hand, targetLength int) []hand.Hand {
	if len(frames) == 1 || targetLength <= 1 {
		return []hand.Hand{frames[0]}
	}

	result := make([]hand.Hand, targetLength)
	for i := 0; i < targetLength; i++ {
		pos := float64(i) / float64(targetLength-1) * float64(len(frames)-1)
		idx := int(pos)
		if idx >= len(frames)-1 {
			idx = len(frames) - 2
		}
		frac := pos - float64(idx)

		a := frames[idx]
		b := frames[idx+1]

		var out hand.Hand
		for slot := 0; slot < 5; slot++ {
			fa, fb := a.Fingers[slot], b.Fingers[slot]
			if fa.Position == hand.FingerNotFound || fb.Position == hand.FingerNotFound {
				out.Fingers[slot] = hand.Fingertip{Position: hand.FingerNotFound, Direction: hand.FingerNotFound}
				continue
			}
			out.Fingers[slot] = hand.Fingertip{
				Position:  lerpVector(fa.Position, fb.Position, frac),
				Direction: lerpVector(fa.Direction, fb.Direction, frac),
			}
		}
		result[i] = out
	}
	return result
}

func lerpVector(a, b vec.Vector, frac float64) vec.Vector {
	return vec.Vector{
		X: a.X + frac*(b.X-a.X),
		Y: a.Y + frac*(b.Y-a.Y),
		Z: a.Z + frac*(b.Z-a.Z),
	}
}
