package tracking

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// timeStep is the fixed per-frame timestamp increment.
	timeStep = 1.0 / 30.0

	// maxHandWristDistance is the farthest (normalized) a hand's wrist may
	// sit from an arm's smoothed wrist and still be matched to it by
	// distance.
	maxHandWristDistance = 0.3

	defaultFrameWidth  = 640
	defaultFrameHeight = 480
)

// ArmTracker owns the full per-frame pipeline: joint and hand smoothing,
// hand-to-arm assignment, rotation accumulation, gesture classification and
// the sticky last-valid-gesture cache. It is not safe for concurrent use;
// callers invoking it from multiple goroutines must serialize the whole
// per-frame call.
type ArmTracker struct {
	cfg        Config
	joints     *JointSmoother
	hands      [numSides]*HandSmoother
	rotations  [numSides]*RotationAccumulator
	classifier *GestureClassifier
	lastValid  [numSides]GestureState
	clock      float64
}

// NewArmTracker builds a tracker with empty filter banks and histories for
// both sides.
func NewArmTracker(cfg Config) *ArmTracker {
	t := &ArmTracker{
		cfg:        cfg,
		joints:     NewJointSmoother(),
		classifier: NewGestureClassifier(cfg),
	}
	for side := Left; side < numSides; side++ {
		t.hands[side] = NewHandSmoother()
		t.rotations[side] = NewRotationAccumulator(cfg)
	}
	return t
}

// Config returns the tracker's immutable configuration.
func (t *ArmTracker) Config() Config {
	return t.cfg
}

// LostFrame records a frame on which the detector failed. The result
// carries no joints, hands or gestures; the last-valid-gesture cache is
// kept so tracking recovers cleanly on the next good frame.
func (t *ArmTracker) LostFrame() TrackingResult {
	return TrackingResult{
		TrackingLost: true,
		Joints:       map[JointName]JointState{},
		Hands:        map[Side]HandState{},
		Timestamp:    t.tick(),
	}
}

// ProcessFrame runs one frame of raw landmarks through the pipeline.
// Frames must be fed in capture order: filters and histories are stateful
// and order dependent.
func (t *ArmTracker) ProcessFrame(frame Frame) TrackingResult {
	result := TrackingResult{
		Joints:    map[JointName]JointState{},
		Hands:     map[Side]HandState{},
		Timestamp: t.tick(),
	}

	// Too few body points to cover both arms: return the empty result,
	// leaving all persistent state untouched. TrackingLost stays false;
	// it is reserved for detector failures (LostFrame).
	if len(frame.Pose) < MinPoseLandmarks {
		return result
	}

	width, height := frame.Width, frame.Height
	if width <= 0 {
		width = defaultFrameWidth
	}
	if height <= 0 {
		height = defaultFrameHeight
	}

	result.Joints = t.joints.Smooth(frame.Pose, width, height)

	for _, hand := range frame.Hands {
		t.processHand(hand, &result)
	}

	// Keep last valid gestures on sides that produced nothing this frame,
	// so a single dropped frame never flickers the display back to none.
	for side := Left; side < numSides; side++ {
		slot := result.gesture(side)
		if *slot == nil {
			if cached := t.lastValid[side]; cached.Type != GestureNone {
				g := cached
				*slot = &g
			}
			continue
		}
		t.lastValid[side] = **slot
	}

	return result
}

// processHand assigns one unlabeled 21-point hand observation to a side,
// smooths it and, when the side's full arm is visible, classifies its
// rotation. Hands with fewer than 21 points are ignored. If two hands
// resolve to the same side the later one wins.
func (t *ArmTracker) processHand(landmarks []r3.Vec, result *TrackingResult) {
	if len(landmarks) < NumHandLandmarks {
		return
	}

	side := t.assignSide(landmarks[wristLandmark], result.Joints)

	hand := t.hands[side].Smooth(landmarks)
	result.Hands[side] = hand

	if !armVisible(result.Joints, side) {
		return
	}

	normal, ok := PalmNormal(hand.Landmarks)
	if !ok {
		// Degenerate palm geometry: no orientation this frame.
		return
	}

	rotation, axis, ok := t.rotations[side].Add(normal)
	if !ok {
		return
	}

	g := t.classifier.Classify(side, rotation, axis)
	*result.gesture(side) = &g
}

// assignSide matches a hand's wrist to the nearest smoothed arm wrist. When
// both arm wrists are tracked and the nearest is within
// maxHandWristDistance, the closer side wins. Otherwise the horizontal
// position decides: the camera view is mirrored, so a hand on the left half
// of the image belongs to the right arm.
func (t *ArmTracker) assignSide(wrist r3.Vec, joints map[JointName]JointState) Side {
	leftWrist, leftOK := joints[LeftWrist]
	rightWrist, rightOK := joints[RightWrist]

	if leftOK && rightOK {
		distLeft := r3.Norm(r3.Sub(wrist, leftWrist.Position))
		distRight := r3.Norm(r3.Sub(wrist, rightWrist.Position))

		if math.Min(distLeft, distRight) <= maxHandWristDistance {
			if distLeft < distRight {
				return Left
			}
			return Right
		}
	}

	if wrist.X < 0.5 {
		return Right
	}
	return Left
}

// armVisible reports whether all three of the side's joints were smoothed
// this frame.
func armVisible(joints map[JointName]JointState, side Side) bool {
	names := [3]JointName{LeftShoulder, LeftElbow, LeftWrist}
	if side == Right {
		names = [3]JointName{RightShoulder, RightElbow, RightWrist}
	}
	for _, name := range names {
		if _, ok := joints[name]; !ok {
			return false
		}
	}
	return true
}

// tick returns the current frame timestamp and advances the clock by the
// fixed per-frame delta.
func (t *ArmTracker) tick() float64 {
	ts := t.clock
	t.clock += timeStep
	return ts
}
