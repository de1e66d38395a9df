package detector

import "gocv.io/x/gocv"

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	obs *Observation
	err error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetObservation sets the observation that will be returned by Detect.
func (m *MockDetector) SetObservation(obs *Observation) {
	m.obs = obs
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured observation or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Observation, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.obs == nil {
		return &Observation{}, nil
	}
	return m.obs, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// ArmsPose returns a preset 33-point pose with both arms visible, as seen
// by a mirrored camera (the subject's right arm on the left of the image).
func ArmsPose() []Point3D {
	pose := make([]Point3D, NumPoseLandmarks)
	pose[PoseLeftShoulder] = Point3D{X: 0.65, Y: 0.35}
	pose[PoseLeftElbow] = Point3D{X: 0.70, Y: 0.50}
	pose[PoseLeftWrist] = Point3D{X: 0.70, Y: 0.62}
	pose[PoseRightShoulder] = Point3D{X: 0.35, Y: 0.35}
	pose[PoseRightElbow] = Point3D{X: 0.30, Y: 0.50}
	pose[PoseRightWrist] = Point3D{X: 0.30, Y: 0.62}
	return pose
}

// OpenPalmHand returns a preset HandLandmarks of an open palm facing the
// camera, wrist at the given position.
func OpenPalmHand(wristX, wristY float64) HandLandmarks {
	h := HandLandmarks{Score: 0.95}

	dx := wristX - 0.50
	dy := wristY - 0.80

	place := func(idx int, x, y, z float64) {
		h.Points[idx] = Point3D{X: x + dx, Y: y + dy, Z: z}
	}

	place(Wrist, 0.50, 0.80, 0)
	place(ThumbCMC, 0.44, 0.74, 0)
	place(ThumbMCP, 0.41, 0.70, 0)
	place(ThumbIP, 0.39, 0.66, 0)
	place(ThumbTip, 0.37, 0.62, 0)

	place(IndexMCP, 0.46, 0.62, 0)
	place(IndexPIP, 0.45, 0.55, 0)
	place(IndexDIP, 0.45, 0.49, 0)
	place(IndexTip, 0.45, 0.44, 0)

	place(MiddleMCP, 0.50, 0.60, 0)
	place(MiddlePIP, 0.50, 0.52, 0)
	place(MiddleDIP, 0.50, 0.46, 0)
	place(MiddleTip, 0.50, 0.40, 0)

	place(RingMCP, 0.54, 0.62, 0)
	place(RingPIP, 0.55, 0.55, 0)
	place(RingDIP, 0.55, 0.49, 0)
	place(RingTip, 0.55, 0.44, 0)

	place(PinkyMCP, 0.57, 0.64, 0)
	place(PinkyPIP, 0.58, 0.58, 0)
	place(PinkyDIP, 0.59, 0.53, 0)
	place(PinkyTip, 0.59, 0.49, 0)

	return h
}
