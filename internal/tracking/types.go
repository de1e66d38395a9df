// Package tracking implements the arm rotation tracking pipeline: Kalman
// smoothing of body and hand landmarks, hand-to-arm assignment, palm
// orientation estimation, temporal rotation accumulation and
// pronation/supination classification.
package tracking

import "gonum.org/v1/gonum/spatial/r3"

// Side identifies one arm.
type Side int

const (
	// Left is the subject's left arm.
	Left Side = iota
	// Right is the subject's right arm.
	Right

	numSides
)

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler so sides serialize as
// "left"/"right", including as JSON map keys.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// JointName identifies one of the six tracked arm joints.
type JointName int

const (
	LeftShoulder JointName = iota
	LeftElbow
	LeftWrist
	RightShoulder
	RightElbow
	RightWrist

	numJoints
)

var jointNames = [numJoints]string{
	"left_shoulder", "left_elbow", "left_wrist",
	"right_shoulder", "right_elbow", "right_wrist",
}

// String returns the snake_case joint name.
func (j JointName) String() string {
	if j < 0 || j >= numJoints {
		return "unknown"
	}
	return jointNames[j]
}

// MarshalText implements encoding.TextMarshaler.
func (j JointName) MarshalText() ([]byte, error) {
	return []byte(j.String()), nil
}

// Side returns which arm the joint belongs to.
func (j JointName) Side() Side {
	if j >= RightShoulder {
		return Right
	}
	return Left
}

// GestureType classifies the direction of forearm rotation.
type GestureType int

const (
	// GestureNone means no significant rotation was detected.
	GestureNone GestureType = iota
	// Pronation is forearm rotation turning the palm downward.
	Pronation
	// Supination is forearm rotation turning the palm upward.
	Supination
)

// String returns the lowercase gesture name.
func (g GestureType) String() string {
	switch g {
	case Pronation:
		return "pronation"
	case Supination:
		return "supination"
	}
	return "none"
}

// MarshalText implements encoding.TextMarshaler.
func (g GestureType) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// GestureState is one classified rotation judgment.
type GestureState struct {
	Type       GestureType `json:"type"`
	Confidence float64     `json:"confidence"` // in [0, 1]
	Angle      float64     `json:"angle"`      // smoothed rotation in radians
}

// JointState is the smoothed state of one body joint for one frame.
type JointState struct {
	Position   r3.Vec  `json:"position"`
	Velocity   r3.Vec  `json:"velocity"`
	Confidence float64 `json:"confidence"`
	PixelX     int     `json:"pixel_x"`
	PixelY     int     `json:"pixel_y"`
}

// HandState is the smoothed state of one hand for one frame.
type HandState struct {
	Landmarks   []r3.Vec  `json:"landmarks"`
	Confidences []float64 `json:"confidences"`
	IsTracked   bool      `json:"is_tracked"`
}

// TrackingResult is the per-frame output aggregate.
type TrackingResult struct {
	TrackingLost bool                     `json:"tracking_lost"`
	Joints       map[JointName]JointState `json:"joints"`
	Hands        map[Side]HandState       `json:"hands"`
	LeftGesture  *GestureState            `json:"left_gesture,omitempty"`
	RightGesture *GestureState            `json:"right_gesture,omitempty"`
	Timestamp    float64                  `json:"timestamp"`
}

// gesture returns the slot holding the given side's gesture.
func (r *TrackingResult) gesture(side Side) **GestureState {
	if side == Left {
		return &r.LeftGesture
	}
	return &r.RightGesture
}

// Gesture returns the side's gesture for this frame, or nil.
func (r *TrackingResult) Gesture(side Side) *GestureState {
	return *r.gesture(side)
}

// Frame is one frame of raw landmark input from the detector boundary.
// Pose coordinates are normalized to [0, 1] in x and y; z is in
// detector-defined depth units. Each hand set holds exactly 21 points in
// MediaPipe order with no side label attached.
type Frame struct {
	Pose   []r3.Vec
	Hands  [][]r3.Vec
	Width  int // frame width in pixels; defaults to 640 when zero
	Height int // frame height in pixels; defaults to 480 when zero
}
