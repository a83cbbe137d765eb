// Package config provides TOML configuration loading for mudra.
//
// The configuration file supports the following structure:
//
//	[depth]
//	device_id = 0
//	min_distance_mm = 800
//	max_distance_mm = 4000
//	auto_calibrate = false
//
//	[contour]
//	max_edge_pixels = 700
//	rows_to_skip = 5
//	max_backtrack = 25
//	scan_height_offset = 0.2
//	enable_scan_from_left = true
//	enable_scan_from_right = false
//	grid_radius = 2
//
//	[curve]
//	k = 20
//	min_angle_degrees = 25
//	max_angle_degrees = 55
//
//	[finger]
//	min_pixels_per_segment = 0
//
//	[smoothing]
//	alpha = 0.5
//
//	[enhancer]
//	queue_cap = 40
//	frame_limit = 10
//	prediction_weight = 0.8
//
//	[stream]
//	capacity = 40
//
//	[dtw]
//	weight_x = 0.0
//	weight_y = 0.0
//	weight_z = 0.5
//	frame_distance_threshold = 30.0
//	path_cost_threshold = 8.0
//	horizontal_movement_threshold = 10
//	vertical_movement_threshold = 10
//
//	[server]
//	address = ":8080"
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the complete configuration for mudra.
type Config struct {
	Depth     DepthConfig     `toml:"depth"`
	Contour   ContourConfig   `toml:"contour"`
	Curve     CurveConfig     `toml:"curve"`
	Finger    FingerConfig    `toml:"finger"`
	Smoothing SmoothingConfig `toml:"smoothing"`
	Enhancer  EnhancerConfig  `toml:"enhancer"`
	Stream    StreamConfig    `toml:"stream"`
	DTW       DTWConfig       `toml:"dtw"`
	Server    ServerConfig    `toml:"server"`
}

// DepthConfig holds depth-source capture settings.
type DepthConfig struct {
	DeviceID      int   `toml:"device_id"`
	MinDistanceMM int16 `toml:"min_distance_mm"`
	MaxDistanceMM int16 `toml:"max_distance_mm"`
	AutoCalibrate bool  `toml:"auto_calibrate"`
}

// ContourConfig holds contour-tracer tunables (spec.md §4.C).
type ContourConfig struct {
	MaxEdgePixels       int     `toml:"max_edge_pixels"`
	RowsToSkip          int     `toml:"rows_to_skip"`
	MaxBacktrack        int     `toml:"max_backtrack"`
	ScanHeightOffset    float64 `toml:"scan_height_offset"`
	EnableScanFromLeft  bool    `toml:"enable_scan_from_left"`
	EnableScanFromRight bool    `toml:"enable_scan_from_right"`
	GridRadius          int     `toml:"grid_radius"`
}

// CurveConfig holds k-curvature tunables (spec.md §4.D).
type CurveConfig struct {
	K               int     `toml:"k"`
	MinAngleDegrees float64 `toml:"min_angle_degrees"`
	MaxAngleDegrees float64 `toml:"max_angle_degrees"`
}

// FingerConfig holds fingertip-recognizer tunables (spec.md §4.E).
type FingerConfig struct {
	MinPixelsPerSegment int `toml:"min_pixels_per_segment"`
}

// SmoothingConfig holds the exponential smoother's alpha (spec.md §4.G).
type SmoothingConfig struct {
	Alpha float64 `toml:"alpha"`
}

// EnhancerConfig holds consistency-enhancer tunables (spec.md §4.I).
type EnhancerConfig struct {
	QueueCap         int     `toml:"queue_cap"`
	FrameLimit       int     `toml:"frame_limit"`
	PredictionWeight float64 `toml:"prediction_weight"`
}

// StreamConfig holds the gesture stream's capacity (spec.md §4.J).
type StreamConfig struct {
	Capacity int `toml:"capacity"`
}

// DTWConfig holds DTW recognizer tunables (spec.md §4.K).
type DTWConfig struct {
	WeightX                     float64 `toml:"weight_x"`
	WeightY                     float64 `toml:"weight_y"`
	WeightZ                     float64 `toml:"weight_z"`
	FrameDistanceThreshold      float64 `toml:"frame_distance_threshold"`
	PathCostThreshold           float64 `toml:"path_cost_threshold"`
	HorizontalMovementThreshold int     `toml:"horizontal_movement_threshold"`
	VerticalMovementThreshold   int     `toml:"vertical_movement_threshold"`
}

// ServerConfig holds the HTTP/websocket server's listen address.
type ServerConfig struct {
	Address string `toml:"address"`
}

// Default returns the default configuration, matching spec.md §4's defaults.
func Default() *Config {
	return &Config{
		Depth: DepthConfig{
			DeviceID:      0,
			MinDistanceMM: 800,
			MaxDistanceMM: 4000,
			AutoCalibrate: false,
		},
		Contour: ContourConfig{
			MaxEdgePixels:       700,
			RowsToSkip:          5,
			MaxBacktrack:        25,
			ScanHeightOffset:    0.2,
			EnableScanFromLeft:  true,
			EnableScanFromRight: false,
			GridRadius:          2,
		},
		Curve: CurveConfig{
			K:               20,
			MinAngleDegrees: 25,
			MaxAngleDegrees: 55,
		},
		Finger: FingerConfig{
			MinPixelsPerSegment: 0,
		},
		Smoothing: SmoothingConfig{
			Alpha: 0.5,
		},
		Enhancer: EnhancerConfig{
			QueueCap:         40,
			FrameLimit:       10,
			PredictionWeight: 0.8,
		},
		Stream: StreamConfig{
			Capacity: 40,
		},
		DTW: DTWConfig{
			WeightX:                     0,
			WeightY:                     0,
			WeightZ:                     0.5,
			FrameDistanceThreshold:      30.0,
			PathCostThreshold:           8.0,
			HorizontalMovementThreshold: 10,
			VerticalMovementThreshold:   10,
		},
		Server: ServerConfig{
			Address: ":8080",
		},
	}
}

// Load reads and parses a TOML configuration file, falling back to Default
// when path is empty or the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Depth.MinDistanceMM >= c.Depth.MaxDistanceMM {
		return fmt.Errorf("depth min_distance_mm (%d) must be less than max_distance_mm (%d)", c.Depth.MinDistanceMM, c.Depth.MaxDistanceMM)
	}
	if c.Contour.MaxEdgePixels <= 0 {
		return fmt.Errorf("contour max_edge_pixels must be positive, got %d", c.Contour.MaxEdgePixels)
	}
	if c.Contour.GridRadius <= 0 {
		return fmt.Errorf("contour grid_radius must be positive, got %d", c.Contour.GridRadius)
	}
	if c.Smoothing.Alpha <= 0 || c.Smoothing.Alpha >= 1 {
		return fmt.Errorf("smoothing alpha must satisfy 0 < alpha < 1, got %f", c.Smoothing.Alpha)
	}
	if c.Enhancer.PredictionWeight <= 0 || c.Enhancer.PredictionWeight >= 1 {
		return fmt.Errorf("enhancer prediction_weight must satisfy 0 < w < 1, got %f", c.Enhancer.PredictionWeight)
	}
	if c.Stream.Capacity <= 0 {
		return fmt.Errorf("stream capacity must be positive, got %d", c.Stream.Capacity)
	}
	if c.DTW.FrameDistanceThreshold <= 0 {
		return fmt.Errorf("dtw frame_distance_threshold must be positive, got %f", c.DTW.FrameDistanceThreshold)
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server address must not be empty")
	}
	return nil
}
