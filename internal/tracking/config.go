package tracking

// Config holds the tunable thresholds for the tracking pipeline.
// A Config is fixed for the lifetime of an ArmTracker.
type Config struct {
	// HistorySize bounds the palm-normal and rotation history buffers.
	HistorySize int

	// ConfidenceThreshold is the minimum joint confidence consumers should
	// trust. It is carried for the surrounding application; the pipeline
	// itself does not gate on it.
	ConfidenceThreshold float64

	// GestureAngleThreshold is the smoothed rotation (radians) above which
	// a gesture is reported.
	GestureAngleThreshold float64

	// MinRotationThreshold filters out per-frame micro-jitter (radians).
	MinRotationThreshold float64

	// RotationSmoothingFactor is the per-step decay of the exponentially
	// weighted rotation average, in (0, 1).
	RotationSmoothingFactor float64

	// MinStableFrames is the number of palm observations required before
	// rotation is estimated.
	MinStableFrames int
}

// DefaultConfig returns the tuning used for 30 FPS camera input.
func DefaultConfig() Config {
	return Config{
		HistorySize:             10,
		ConfidenceThreshold:     0.6,
		GestureAngleThreshold:   0.05,
		MinRotationThreshold:    0.03,
		RotationSmoothingFactor: 0.5,
		MinStableFrames:         2,
	}
}
