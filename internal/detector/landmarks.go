// Package detector provides the pose and hand landmark boundary for the
// arm rotation tracker: landmark index tables, the detector interface and
// the MediaPipe bridge implementation.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Pose landmark indices following the MediaPipe Pose convention (33-point
// model). Only the arm joints are consumed downstream.
const (
	PoseLeftShoulder  = 11
	PoseRightShoulder = 12
	PoseLeftElbow     = 13
	PoseRightElbow    = 14
	PoseLeftWrist     = 15
	PoseRightWrist    = 16

	// MinPoseLandmarks is the minimum pose length that covers both arms.
	MinPoseLandmarks = 17

	// NumPoseLandmarks is the full MediaPipe Pose output length.
	NumPoseLandmarks = 33
)

// Point3D represents a 3D point with x, y normalized to [0, 1] and z in
// detector-defined depth units.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
// No side label is attached; assignment to an arm happens downstream.
type HandLandmarks struct {
	Points [NumLandmarks]Point3D `json:"points"`
	Score  float64               `json:"score"`
}

// Observation is one frame's worth of detector output: body landmarks plus
// zero or more unlabeled hands.
type Observation struct {
	Pose  []Point3D       `json:"pose_landmarks"`
	Hands []HandLandmarks `json:"hand_landmarks"`
}
