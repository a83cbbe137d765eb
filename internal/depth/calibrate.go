package depth

import "sort"

// calibrationNearBuffer is subtracted from the observed near point so that
// the near point itself safely satisfies the mask's strict "> min" test.
const calibrationNearBuffer = 50

// CalibrationConfig tunes the automatic distance-window calibrator.
type CalibrationConfig struct {
	// SampleFrames is how many frames to observe before producing a window.
	SampleFrames int
	// MarginMM is added past the observed near point to produce max.
	MarginMM int16
}

// DefaultCalibrationConfig returns reasonable defaults: 30 frames (six
// seconds at the default 5fps capture rate), with a 400mm window past the
// nearest detected surface (enough depth to cover a hand held up to a
// depth-capable sensor).
func DefaultCalibrationConfig() CalibrationConfig {
	return CalibrationConfig{SampleFrames: 30, MarginMM: 400}
}

// Calibrator watches a run of frames and derives a DistanceThreshold window
// automatically, instead of requiring the operator to enter min/max by hand.
type Calibrator struct {
	cfg     CalibrationConfig
	samples []int16
	seen    int
}

// NewCalibrator creates a Calibrator with the given configuration.
func NewCalibrator(cfg CalibrationConfig) *Calibrator {
	return &Calibrator{cfg: cfg}
}

// Observe feeds one frame's distances into the calibrator. Once
// cfg.SampleFrames frames have been observed, ready is true and min/max hold
// the derived window; calling Observe again after that point has no further
// effect.
func (c *Calibrator) Observe(distances []int16) (min, max int16, ready bool) {
	if c.seen >= c.cfg.SampleFrames {
		return c.result()
	}

	if near := nearestNonZero(distances); near > 0 {
		c.samples = append(c.samples, near)
	}
	c.seen++

	if c.seen < c.cfg.SampleFrames {
		return 0, 0, false
	}
	min, max = c.resultValues()
	return min, max, true
}

func (c *Calibrator) result() (int16, int16, bool) {
	min, max := c.resultValues()
	return min, max, true
}

func (c *Calibrator) resultValues() (int16, int16) {
	if len(c.samples) == 0 {
		return 0, 0
	}
	near := median(c.samples)
	min := near - calibrationNearBuffer
	if min < 0 {
		min = 0
	}
	max := near + c.cfg.MarginMM
	return min, max
}

func nearestNonZero(distances []int16) int16 {
	var nearest int16
	for _, d := range distances {
		if d <= 0 {
			continue
		}
		if nearest == 0 || d < nearest {
			nearest = d
		}
	}
	return nearest
}

func median(values []int16) int16 {
	sorted := make([]int16, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}
