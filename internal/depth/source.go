// Package depth provides the Source abstraction the pipeline reads dense
// distance grids from, plus a GoCV-backed implementation and an automatic
// distance-window calibrator.
package depth

import "errors"

// ErrSourceNotOpen is returned when reading from a Source that has not been
// opened, mirroring capture.Camera's ErrCameraNotOpen.
var ErrSourceNotOpen = errors.New("depth: source is not open")

// Default capture settings, mirrored from capture.Camera.
const (
	DefaultFPS    = 5
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Source is the interface the pipeline reads depth frames from. A frame is a
// dense row-major grid of millimetre distance readings.
type Source interface {
	Open() error
	Close() error
	ReadFrame() (distances []int16, width, height int, err error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}
