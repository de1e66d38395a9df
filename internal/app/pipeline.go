package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/pronosup/internal/detector"
	"github.com/ayusman/pronosup/internal/store"
	"github.com/ayusman/pronosup/internal/tracking"
)

// runPipeline is the main tracking loop. Each tick it reads one frame from
// the source, runs landmark detection, feeds the landmarks through the arm
// tracker and publishes the result. Detection failures become lost frames
// so the tracker's clock keeps advancing at the frame rate.
func (a *App) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(a.config.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			a.step()
		}
	}
}

// step processes exactly one frame. Split out from the loop so tests can
// drive the pipeline without a ticker.
func (a *App) step() {
	var frame *gocv.Mat
	if a.config.Source != nil {
		f, err := a.config.Source.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			a.publish(a.tracker.LostFrame())
			return
		}
		frame = f
		defer frame.Close()
	}

	obs, err := a.config.Detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting landmarks: %v", err)
		a.publish(a.tracker.LostFrame())
		return
	}

	result := a.tracker.ProcessFrame(observationToFrame(obs, frame))

	a.recordGestures(result)
	a.publish(result)
}

// publish forwards a result to the configured sink, if any.
func (a *App) publish(result tracking.TrackingResult) {
	if a.config.Sink != nil {
		a.config.Sink.Publish(result)
	}
}

// recordGestures writes newly detected gestures to the store. The tracker
// repeats the last valid gesture on quiet frames, so only a change in the
// reported state produces an event row.
func (a *App) recordGestures(result tracking.TrackingResult) {
	if a.config.Store == nil || a.session == nil {
		return
	}

	for side := tracking.Left; side <= tracking.Right; side++ {
		g := result.Gesture(side)
		if g == nil || g.Type == tracking.GestureNone {
			continue
		}
		if *g == a.lastSaved[side] {
			continue
		}
		a.lastSaved[side] = *g

		event := &store.GestureEvent{
			SessionID:  a.session.ID,
			Side:       side.String(),
			Gesture:    g.Type.String(),
			Angle:      g.Angle,
			Confidence: g.Confidence,
			Timestamp:  result.Timestamp,
		}
		if err := a.config.Store.Events().Record(event); err != nil {
			log.Printf("Error recording gesture event: %v", err)
		}
	}
}

// observationToFrame converts detector output into the tracker's frame
// format, taking the frame dimensions from the source image when available.
func observationToFrame(obs *detector.Observation, frame *gocv.Mat) tracking.Frame {
	f := tracking.Frame{
		Pose:  make([]r3.Vec, len(obs.Pose)),
		Hands: make([][]r3.Vec, len(obs.Hands)),
	}
	if frame != nil {
		f.Width = frame.Cols()
		f.Height = frame.Rows()
	}

	for i, p := range obs.Pose {
		f.Pose[i] = r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
	}
	for i, hand := range obs.Hands {
		points := make([]r3.Vec, len(hand.Points))
		for j, p := range hand.Points {
			points[j] = r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
		}
		f.Hands[i] = points
	}

	return f
}
