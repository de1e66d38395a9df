package tracking

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RotationAccumulator tracks one side's palm orientation over time and
// derives a smoothed rotation magnitude and axis. Both history buffers are
// bounded FIFOs ordered newest first.
type RotationAccumulator struct {
	cfg             Config
	palmHistory     []r3.Vec
	rotationHistory []float64
}

// NewRotationAccumulator returns an accumulator with empty histories.
func NewRotationAccumulator(cfg Config) *RotationAccumulator {
	return &RotationAccumulator{
		cfg:             cfg,
		palmHistory:     make([]r3.Vec, 0, cfg.HistorySize),
		rotationHistory: make([]float64, 0, cfg.HistorySize),
	}
}

// Add records this frame's palm normal and returns the smoothed rotation
// magnitude and the normalized accumulated rotation axis. ok is false while
// fewer than MinStableFrames normals are buffered, when too few
// consecutive-frame rotations exceed MinRotationThreshold, or when the
// smoothed rotation stays at or below GestureAngleThreshold.
func (a *RotationAccumulator) Add(normal r3.Vec) (rotation float64, axis r3.Vec, ok bool) {
	a.palmHistory = pushFront(a.palmHistory, normal, a.cfg.HistorySize)

	if len(a.palmHistory) < a.cfg.MinStableFrames {
		return 0, r3.Vec{}, false
	}

	var cumulativeAngle float64
	var cumulativeAxis r3.Vec
	validSamples := 0

	for i := 1; i < len(a.palmHistory); i++ {
		curr := a.palmHistory[i-1]
		prev := a.palmHistory[i]

		angle := math.Acos(clamp(r3.Dot(curr, prev), -1, 1))

		// Count only rotations above the micro-jitter floor.
		if angle > a.cfg.MinRotationThreshold {
			cumulativeAngle += angle
			cumulativeAxis = r3.Add(cumulativeAxis, r3.Cross(curr, prev))
			validSamples++
		}
	}

	if validSamples < a.cfg.MinStableFrames-1 {
		return 0, r3.Vec{}, false
	}

	avgAngle := cumulativeAngle / float64(validSamples)
	a.rotationHistory = pushFront(a.rotationHistory, avgAngle, a.cfg.HistorySize)

	// Exponentially weighted average over the rotation history, most
	// recent entry weighted highest.
	var smoothed, weightSum float64
	weight := 1.0
	for _, rot := range a.rotationHistory {
		smoothed += rot * weight
		weightSum += weight
		weight *= a.cfg.RotationSmoothingFactor
	}
	smoothed /= weightSum

	if smoothed <= a.cfg.GestureAngleThreshold {
		return 0, r3.Vec{}, false
	}

	axis, ok = unit(cumulativeAxis)
	if !ok {
		return 0, r3.Vec{}, false
	}
	return smoothed, axis, true
}

// pushFront prepends v, evicting the oldest entry when the buffer exceeds
// size.
func pushFront[T any](history []T, v T, size int) []T {
	history = append(history, v)
	copy(history[1:], history)
	history[0] = v
	if len(history) > size {
		history = history[:size]
	}
	return history
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
