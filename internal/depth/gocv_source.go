package depth

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// GocvSource reads depth frames from a device via gocv.VideoCapture,
// flattening each single-channel 16-bit Mat into a row-major []int16. It
// mirrors capture.cameraImpl's lifecycle and locking shape, repurposed from
// an RGB camera source to a depth-frame source.
type GocvSource struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      int
}

// NewGocvSource creates a GocvSource for the given device ID.
func NewGocvSource(deviceID int) *GocvSource {
	return &GocvSource{
		deviceID: deviceID,
		fps:      DefaultFPS,
	}
}

// Open opens the underlying device and configures its resolution and FPS.
func (s *GocvSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(s.deviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	capture.Set(gocv.VideoCaptureFPS, float64(s.fps))

	s.capture = capture
	s.running = true
	return nil
}

// Close releases the underlying device.
func (s *GocvSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		s.running = false
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.running = false
	return err
}

// ReadFrame reads a single depth Mat and flattens it to []int16.
func (s *GocvSource) ReadFrame() ([]int16, int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		return nil, 0, 0, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	defer mat.Close()

	if ok := s.capture.Read(&mat); !ok {
		return nil, 0, 0, errors.New("depth: failed to read frame from source")
	}
	if mat.Empty() {
		return nil, 0, 0, errors.New("depth: captured frame is empty")
	}

	w, h := mat.Cols(), mat.Rows()
	distances := make([]int16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			distances[y*w+x] = int16(mat.GetShortAt(y, x))
		}
	}
	return distances, w, h, nil
}

// SetFPS sets the capture frame rate; values <= 0 are ignored.
func (s *GocvSource) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fps = fps
	if s.capture != nil {
		s.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frame rate setting.
func (s *GocvSource) FPS() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}

// IsOpen reports whether the source is currently open.
func (s *GocvSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
