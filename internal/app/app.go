// Package app wires the depth source, recognition pipeline, gesture store,
// and plugin dispatch into one running application.
package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/arjunv/mudra/internal/config"
	"github.com/arjunv/mudra/internal/contour"
	"github.com/arjunv/mudra/internal/curve"
	"github.com/arjunv/mudra/internal/depth"
	"github.com/arjunv/mudra/internal/dtw"
	"github.com/arjunv/mudra/internal/enhance"
	"github.com/arjunv/mudra/internal/finger"
	"github.com/arjunv/mudra/internal/gesture"
	"github.com/arjunv/mudra/internal/gesturestore"
	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/mask"
	"github.com/arjunv/mudra/internal/plugin"
	"github.com/arjunv/mudra/internal/recognize"
	"github.com/arjunv/mudra/internal/smooth"
)

// Config holds configuration options for the application.
type Config struct {
	Store     *gesturestore.Store
	PluginDir string
	Source    depth.Source
	Pipeline  *config.Config

	// OnContourReady and OnFingertipsReady are wired up for server.EventHub
	// to broadcast to connected clients (see spec.md §4.L "debug
	// visualization"). OnFingertipsReady receives finger.Recognize's result;
	// OnContourReady receives each frame's range mask right after masking,
	// before the contour is traced, and carries no contour points.
	OnContourReady    func([]mask.Pixel)
	OnFingertipsReady func([]hand.Fingertip)
}

// App is the running application that orchestrates the gesture pipeline,
// recognition facade, and plugin dispatch.
type App struct {
	config Config

	contourTracker *contour.Tracker
	enhancer       *enhance.Enhancer
	facade         *recognize.Facade
	pluginMgr      *plugin.Manager
	pluginExec     *plugin.Executor

	mu       sync.RWMutex
	stopCh   chan struct{}
	prevHand hand.Hand
	hasPrev  bool
}

// New creates a new App instance with the given configuration. Pipeline
// tunables default to each component's DefaultConfig() when Pipeline is nil.
func New(cfg Config) *App {
	pipelineCfg := cfg.Pipeline
	if pipelineCfg == nil {
		pipelineCfg = config.Default()
	}

	a := &App{
		config:         cfg,
		contourTracker: contour.NewTracker(toContourConfig(pipelineCfg.Contour)),
		enhancer:       enhance.NewEnhancer(toEnhancerConfig(pipelineCfg.Enhancer)),
		facade:         recognize.NewFacade(pipelineCfg.Stream.Capacity, toDTWConfig(pipelineCfg.DTW)),
		pluginMgr:      plugin.NewManager(cfg.PluginDir),
		pluginExec:     plugin.NewExecutor(5000),
	}

	a.facade.OnGestureRecognized = a.handleGestureRecognized
	a.facade.OnGestureRecorded = a.handleGestureRecorded
	a.enhancer.OnForward = a.facade.AnalyzeFrame

	return a
}

func toContourConfig(c config.ContourConfig) contour.Config {
	return contour.Config{
		MaxEdgePixels:       c.MaxEdgePixels,
		RowsToSkip:          c.RowsToSkip,
		MaxBacktrack:        c.MaxBacktrack,
		ScanHeightOffset:    c.ScanHeightOffset,
		EnableScanFromLeft:  c.EnableScanFromLeft,
		EnableScanFromRight: c.EnableScanFromRight,
		GridRadius:          c.GridRadius,
	}
}

func toEnhancerConfig(c config.EnhancerConfig) enhance.Config {
	d := enhance.DefaultConfig()
	d.QueueCap = c.QueueCap
	d.FrameLimit = c.FrameLimit
	d.PredictionWeight = c.PredictionWeight
	return d
}

func toDTWConfig(c config.DTWConfig) dtw.Config {
	d := dtw.DefaultConfig()
	d.WeightX = c.WeightX
	d.WeightY = c.WeightY
	d.WeightZ = c.WeightZ
	d.FrameDistanceThreshold = c.FrameDistanceThreshold
	d.PathCostThreshold = c.PathCostThreshold
	d.HorizontalThreshold = c.HorizontalMovementThreshold
	d.VerticalThreshold = c.VerticalMovementThreshold
	return d
}

// LoadGestures loads the gesture library from the store into the facade.
func (a *App) LoadGestures() error {
	if a.config.Store == nil {
		return nil
	}

	records, err := a.config.Store.Gestures().List()
	if err != nil {
		return err
	}

	for _, rec := range records {
		a.facade.StoreGesture(rec.ToGesture())
	}

	log.Printf("app: loaded %d gestures from the store", len(records))
	return nil
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Facade returns the recognition state machine, for callers (the server,
// the tray) that need to drive recording/recognition directly.
func (a *App) Facade() *recognize.Facade {
	return a.facade
}

// Start opens the depth source and begins feeding it through the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}
	if a.config.Source == nil {
		return fmt.Errorf("app: no depth source configured")
	}

	if err := a.config.Source.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("app: pipeline started")
	return nil
}

// Stop halts the pipeline and releases the depth source.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if a.config.Source != nil {
		if err := a.config.Source.Close(); err != nil {
			log.Printf("app: error closing depth source: %v", err)
		}
	}

	log.Println("app: pipeline stopped")
}

// runPipeline continuously reads depth frames and runs them through mask,
// contour, curve, finger, hand, smoothing, and the consistency enhancer,
// which forwards the repaired Hand into the recognition facade.
func (a *App) runPipeline() {
	cfg := a.config.Pipeline
	if cfg == nil {
		cfg = config.Default()
	}

	for {
		select {
		case <-a.stopCh:
			return
		default:
		}

		distances, width, height, err := a.config.Source.ReadFrame()
		if err != nil {
			continue
		}

		pixels, err := mask.Mask(distances, width, height, cfg.Depth.MinDistanceMM, cfg.Depth.MaxDistanceMM)
		if err != nil {
			log.Printf("app: mask error: %v", err)
			continue
		}
		if a.config.OnContourReady != nil {
			a.config.OnContourReady(pixels)
		}

		contourPoints := a.contourTracker.Trace(pixels, width, height)
		curvePoints := curve.Detect(contourPoints, toCurveConfig(cfg.Curve), nil)
		fingertips := finger.Recognize(curvePoints, pixels, width, height, toFingerConfig(cfg.Finger), a.config.OnFingertipsReady)

		h := hand.Assemble(fingertips)
		if a.hasPrev {
			if smoothed, err := smooth.Hand(h, a.prevHand, cfg.Smoothing.Alpha); err == nil {
				h = smoothed
			}
		}
		a.prevHand = h
		a.hasPrev = true

		a.enhancer.Process(h)
	}
}

func toCurveConfig(c config.CurveConfig) curve.Config {
	return curve.Config{
		K:        c.K,
		MinAngle: degToRad(c.MinAngleDegrees),
		MaxAngle: degToRad(c.MaxAngleDegrees),
	}
}

func toFingerConfig(c config.FingerConfig) finger.Config {
	return finger.Config{MinPixelsPerSegment: c.MinPixelsPerSegment}
}

func degToRad(deg float64) float64 {
	return deg * 3.14159265358979323846 / 180
}

// handleGestureRecognized dispatches the plugin action bound to a recognized
// gesture, if any.
func (a *App) handleGestureRecognized(g gesture.Gesture) {
	if a.config.Store == nil {
		return
	}

	records, err := a.config.Store.Gestures().List()
	if err != nil {
		log.Printf("app: failed to look up recognized gesture %q: %v", g.Name, err)
		return
	}

	var gestureID string
	for _, rec := range records {
		if rec.Name == g.Name {
			gestureID = rec.ID
			break
		}
	}
	if gestureID == "" {
		return
	}

	action, err := a.config.Store.Actions().GetByGestureID(gestureID)
	if err != nil {
		log.Printf("app: failed to look up action for gesture %q: %v", g.Name, err)
		return
	}
	if action == nil || !action.Enabled {
		return
	}

	p, err := a.pluginMgr.Get(action.PluginName)
	if err != nil {
		log.Printf("app: plugin %q not found for gesture %q: %v", action.PluginName, g.Name, err)
		return
	}

	req := &plugin.Request{Action: action.ActionName, Gesture: g.Name, Config: action.Config}
	if _, err := a.pluginExec.Execute(p, req); err != nil {
		log.Printf("app: plugin %q execution failed: %v", action.PluginName, err)
	}
}

// handleGestureRecorded persists a newly recorded gesture to the store.
func (a *App) handleGestureRecorded(g gesture.Gesture) {
	if a.config.Store == nil {
		return
	}
	if _, err := a.config.Store.Gestures().Create(g.Name, g.Frames); err != nil {
		log.Printf("app: failed to persist recorded gesture %q: %v", g.Name, err)
	}
}
