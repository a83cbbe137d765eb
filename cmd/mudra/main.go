package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arjunv/mudra/internal/app"
	"github.com/arjunv/mudra/internal/config"
	"github.com/arjunv/mudra/internal/depth"
	"github.com/arjunv/mudra/internal/gesture"
	"github.com/arjunv/mudra/internal/gesturestore"
	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/mask"
	"github.com/arjunv/mudra/internal/server"
	"github.com/arjunv/mudra/internal/tray"
)

func main() {
	fmt.Println("mudra - Hand Gesture Recognition")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dataDir, "config.toml"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbPath := filepath.Join(dataDir, "mudra.db")
	store, err := gesturestore.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize gesture store: %v", err)
	}
	defer store.Close()

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	source := depth.NewGocvSource(cfg.Depth.DeviceID)

	events := server.NewEventHub()

	pluginDir := filepath.Join(dataDir, "plugins")
	application := app.New(app.Config{
		Store:     store,
		PluginDir: pluginDir,
		Source:    source,
		Pipeline:  cfg,
		OnContourReady: func(pixels []mask.Pixel) {
			events.Broadcast("contour_data_ready", pixels)
		},
		OnFingertipsReady: func(tips []hand.Fingertip) {
			events.Broadcast("fingertip_locations_ready", tips)
		},
	})

	if err := application.LoadGestures(); err != nil {
		log.Printf("Warning: failed to load gestures: %v", err)
	}
	if err := application.DiscoverPlugins(); err != nil {
		log.Printf("Warning: failed to discover plugins: %v", err)
	}

	t := tray.New()

	application.Facade().OnGestureRecognized = func(g gesture.Gesture) {
		events.Broadcast("gesture_recognized", g.Name)
		t.SetLastGesture(g.Name)
	}
	application.Facade().OnGestureRecorded = func(g gesture.Gesture) {
		events.Broadcast("gesture_recorded", g.Name)
	}

	t.OnToggle(func(enabled bool) {
		if enabled {
			application.Facade().StartRecognizer()
		} else {
			application.Facade().StopRecognizer()
		}
	})
	t.OnQuit(func() {
		application.Stop()
		os.Exit(0)
	})
	if t.IsEnabled() {
		application.Facade().StartRecognizer()
	}
	go t.Run()

	if cfg.Depth.AutoCalibrate {
		log.Println("auto_calibrate is set but not applied; using the configured min/max distance window")
	}

	if err := application.Start(); err != nil {
		log.Printf("Warning: failed to start depth pipeline: %v", err)
	}
	defer application.Stop()

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     store,
		Source:    source,
		Events:    events,
	})

	addr := cfg.Server.Address
	fmt.Printf("Starting server on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")

	go func() {
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nShutting down...")
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
