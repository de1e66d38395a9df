package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/pronosup/internal/detector"
	"github.com/ayusman/pronosup/internal/store"
	"github.com/ayusman/pronosup/internal/tracking"
)

// captureSink collects published tracking results.
type captureSink struct {
	results []tracking.TrackingResult
}

func (s *captureSink) Publish(result tracking.TrackingResult) {
	s.results = append(s.results, result)
}

// failingSource always errors, standing in for a camera that went away.
type failingSource struct{}

func (failingSource) ReadFrame() (*gocv.Mat, error) { return nil, errors.New("no camera") }
func (failingSource) Close() error                  { return nil }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "pronosup-app-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestApp_SimulatedPipelineRecordsGestures(t *testing.T) {
	s := newTestStore(t)
	sink := &captureSink{}

	a := New(Config{
		Detector:   detector.NewSimulatedDetector(),
		Store:      s,
		Sink:       sink,
		Tracker:    tracking.DefaultConfig(),
		SourceName: "simulation",
	})

	// Open a session directly and drive frames without the ticker.
	sess := &store.Session{Source: "simulation"}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	a.session = sess

	for i := 0; i < 30; i++ {
		a.step()
	}

	if len(sink.results) != 30 {
		t.Fatalf("published results = %d, want 30", len(sink.results))
	}

	last := sink.results[len(sink.results)-1]
	if last.TrackingLost {
		t.Error("simulated frames should not lose tracking")
	}
	if len(last.Joints) != 6 {
		t.Errorf("joints = %d, want 6", len(last.Joints))
	}
	if _, ok := last.Hands[tracking.Right]; !ok {
		t.Error("simulated hand should be assigned to the right side")
	}

	// The simulated palm rotates every frame, so events must have been
	// recorded for the right arm.
	events, err := s.Events().ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected gesture events from the simulated sweep")
	}
	for _, e := range events {
		if e.Side != "right" {
			t.Errorf("event side = %q, want %q", e.Side, "right")
		}
		if e.Gesture != "pronation" && e.Gesture != "supination" {
			t.Errorf("unexpected gesture %q", e.Gesture)
		}
		if e.Confidence <= 0 || e.Confidence > 1 {
			t.Errorf("confidence = %g, want in (0, 1]", e.Confidence)
		}
	}

	// Consecutive identical gesture states collapse into a single event.
	if len(events) >= len(sink.results) {
		t.Errorf("events = %d, should be fewer than frames %d", len(events), len(sink.results))
	}
}

func TestApp_SourceErrorPublishesLostFrame(t *testing.T) {
	sink := &captureSink{}

	a := New(Config{
		Source:   failingSource{},
		Detector: detector.NewMockDetector(),
		Sink:     sink,
		Tracker:  tracking.DefaultConfig(),
	})

	a.step()

	if len(sink.results) != 1 {
		t.Fatalf("published results = %d, want 1", len(sink.results))
	}
	if !sink.results[0].TrackingLost {
		t.Error("source failure should publish a lost frame")
	}
}

func TestApp_DetectorErrorPublishesLostFrame(t *testing.T) {
	sink := &captureSink{}
	d := detector.NewMockDetector()
	d.SetError(errors.New("service crashed"))

	a := New(Config{
		Detector: d,
		Sink:     sink,
		Tracker:  tracking.DefaultConfig(),
	})

	a.step()
	a.step()

	if len(sink.results) != 2 {
		t.Fatalf("published results = %d, want 2", len(sink.results))
	}
	for i, r := range sink.results {
		if !r.TrackingLost {
			t.Errorf("result %d should be lost", i)
		}
	}

	// The clock keeps advancing through lost frames.
	if sink.results[1].Timestamp <= sink.results[0].Timestamp {
		t.Error("timestamps should advance across lost frames")
	}
}

func TestApp_StartStopManagesSession(t *testing.T) {
	s := newTestStore(t)

	a := New(Config{
		Detector:   detector.NewSimulatedDetector(),
		Store:      s,
		Tracker:    tracking.DefaultConfig(),
		SourceName: "simulation",
	})

	if err := a.Start(); err != nil {
		t.Fatalf("failed to start app: %v", err)
	}

	sess := a.Session()
	if sess == nil {
		t.Fatal("start should open a session")
	}

	// Starting twice is a no-op.
	if err := a.Start(); err != nil {
		t.Fatalf("second start should be a no-op: %v", err)
	}

	a.Stop()

	got, err := s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if got.EndedAt == nil {
		t.Error("stop should end the session")
	}
	if a.Session() != nil {
		t.Error("session should be cleared after stop")
	}

	// Stopping twice is safe.
	a.Stop()
}
