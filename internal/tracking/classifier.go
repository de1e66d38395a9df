package tracking

import "gonum.org/v1/gonum/spatial/r3"

// GestureClassifier turns a smoothed rotation magnitude and axis into a
// pronation/supination judgment.
type GestureClassifier struct {
	cfg Config
}

// NewGestureClassifier returns a classifier using cfg's thresholds.
func NewGestureClassifier(cfg Config) *GestureClassifier {
	return &GestureClassifier{cfg: cfg}
}

// Classify maps a rotation to a gesture. The axis sign decides the
// direction: a downward-pointing rotation axis means supination.
//
// The same sign test is applied to both sides, matching the behavior the
// reference recordings were produced with.
// TODO: confirm the anatomical sign convention for the left arm with a
// domain expert; left and right supination rotate in opposite senses about
// the forearm axis.
func (c *GestureClassifier) Classify(side Side, rotation float64, axis r3.Vec) GestureState {
	gestureType := Pronation
	if r3.Dot(axis, r3.Vec{Y: 1}) < 0 {
		gestureType = Supination
	}

	return GestureState{
		Type:       gestureType,
		Confidence: clamp(rotation/(2*c.cfg.GestureAngleThreshold), 0, 1),
		Angle:      rotation,
	}
}
