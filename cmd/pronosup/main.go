package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/pronosup/internal/app"
	"github.com/ayusman/pronosup/internal/detector"
	"github.com/ayusman/pronosup/internal/server"
	"github.com/ayusman/pronosup/internal/store"
	"github.com/ayusman/pronosup/internal/tracking"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "", "database path (default ~/.pronosup/pronosup.db)")
	demo := flag.Bool("demo", false, "run the simulated detector pipeline")
	flag.Parse()

	fmt.Println("Pronosup - Arm Rotation Tracker")

	// Initialize the store
	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".pronosup")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dbDir, "pronosup.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	track := server.NewTrackHandler()

	// Video capture is external to this service. Without -demo the server
	// runs alone; frames arrive through an embedding application that wires
	// its own app.FrameSource.
	if *demo {
		a := app.New(app.Config{
			Detector:   detector.NewSimulatedDetector(),
			Store:      st,
			Sink:       track,
			Tracker:    tracking.DefaultConfig(),
			SourceName: "simulation",
		})
		if err := a.Start(); err != nil {
			log.Fatalf("Failed to start tracking pipeline: %v", err)
		}
		defer a.Stop()
		fmt.Println("Running simulated tracking pipeline")
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Track:     track,
	})

	fmt.Printf("Starting server on %s\n", *addr)
	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.pronosup/web.
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

	homeWebDir := filepath.Join(homeDir, ".pronosup", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
