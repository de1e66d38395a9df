// Package app wires the frame source, landmark detector, arm tracker and
// storage into the real-time tracking pipeline.
package app

import (
	"log"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/pronosup/internal/detector"
	"github.com/ayusman/pronosup/internal/store"
	"github.com/ayusman/pronosup/internal/tracking"
)

// DefaultFPS is the frame rate of the tracking pipeline. The tracker's
// internal clock assumes this rate.
const DefaultFPS = 30

// FrameSource provides video frames to the pipeline. A nil source is
// allowed for detectors that synthesize their own observations.
type FrameSource interface {
	// ReadFrame returns the next frame. The caller closes it.
	ReadFrame() (*gocv.Mat, error)

	// Close releases the source.
	Close() error
}

// ResultSink receives tracking results as they are produced, typically to
// push them to WebSocket clients.
type ResultSink interface {
	Publish(result tracking.TrackingResult)
}

// Config holds configuration options for the application.
type Config struct {
	Source   FrameSource
	Detector detector.Detector
	Store    *store.Store
	Sink     ResultSink
	Tracker  tracking.Config

	// SourceName labels the session in storage ("camera", "simulation").
	SourceName string

	// FPS overrides the pipeline frame rate. Zero means DefaultFPS.
	FPS int
}

// App is the main application that orchestrates landmark detection, arm
// tracking and event recording.
type App struct {
	config  Config
	tracker *tracking.ArmTracker

	mu        sync.Mutex
	stopCh    chan struct{}
	done      chan struct{}
	session   *store.Session
	lastSaved [2]tracking.GestureState
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}
	if config.SourceName == "" {
		config.SourceName = "camera"
	}

	return &App{
		config:  config,
		tracker: tracking.NewArmTracker(config.Tracker),
	}
}

// Start begins the tracking pipeline. If a store is configured a new
// session is created to record gesture events into.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if a.config.Store != nil {
		sess := &store.Session{Source: a.config.SourceName}
		if err := a.config.Store.Sessions().Create(sess); err != nil {
			return err
		}
		a.session = sess
		log.Printf("Started session %s", sess.ID)
	}

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the tracking pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		<-a.done
		a.stopCh = nil
		a.done = nil
	}

	if a.config.Source != nil {
		if err := a.config.Source.Close(); err != nil {
			log.Printf("Error closing frame source: %v", err)
		}
	}

	if a.config.Detector != nil {
		if err := a.config.Detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	if a.config.Store != nil && a.session != nil {
		if err := a.config.Store.Sessions().End(a.session.ID); err != nil {
			log.Printf("Error ending session: %v", err)
		}
		a.session = nil
	}

	log.Println("Tracking pipeline stopped")
}

// Session returns the active session, or nil when not recording.
func (a *App) Session() *store.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Tracker returns the arm tracker.
func (a *App) Tracker() *tracking.ArmTracker {
	return a.tracker
}
