// Package server provides the HTTP server for the mudra gesture recognition system.
package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/arjunv/mudra/internal/depth"
)

// StreamHandler serves MJPEG frames rendered from the depth source, useful
// for visually checking distance-window calibration.
type StreamHandler struct {
	source depth.Source
}

// NewStreamHandler creates a new StreamHandler over the given depth source.
func NewStreamHandler(source depth.Source) *StreamHandler {
	return &StreamHandler{source: source}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		distances, width, height, err := h.source.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		buf, err := encodeGray(distances, width, height)
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}

// encodeGray renders a row-major millimetre distance grid as an 8-bit
// grayscale JPEG, clamping each reading to [0, 255] so the nearest surfaces
// show brightest.
func encodeGray(distances []int16, width, height int) (*gocv.NativeByteBuffer, error) {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)
	defer mat.Close()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := distances[y*width+x]
			v := 255 - d/16
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			mat.SetUCharAt(y, x, uint8(v))
		}
	}

	return gocv.IMEncode(".jpg", mat)
}
