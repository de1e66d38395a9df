package tracking

import (
	"log"

	"gonum.org/v1/gonum/spatial/r3"
)

// MediaPipe pose landmark indices for the six tracked joints. The pose
// model emits 33 points; the arms are fully covered by the first 17.
var poseIndex = [numJoints]int{
	LeftShoulder:  11,
	LeftElbow:     13,
	LeftWrist:     15,
	RightShoulder: 12,
	RightElbow:    14,
	RightWrist:    16,
}

// MinPoseLandmarks is the minimum number of body landmarks a frame must
// carry before joint smoothing proceeds.
const MinPoseLandmarks = 17

// NumHandLandmarks is the number of points in one hand observation.
const NumHandLandmarks = 21

// Fixed per-joint detector reliability. Shoulders are detected most
// reliably, wrists least.
var jointConfidence = [numJoints]float64{
	LeftShoulder:  0.95,
	LeftElbow:     0.90,
	LeftWrist:     0.85,
	RightShoulder: 0.95,
	RightElbow:    0.90,
	RightWrist:    0.85,
}

// JointSmoother holds one Kalman filter per tracked body joint. Filter
// state persists across frames; per-frame JointStates are derived views.
type JointSmoother struct {
	filters [numJoints]*PointFilter
}

// NewJointSmoother creates filters for all six joints up front.
func NewJointSmoother() *JointSmoother {
	s := &JointSmoother{}
	for j := range s.filters {
		s.filters[j] = NewPointFilter()
	}
	return s
}

// Smooth runs predict/update for every joint present in the raw pose and
// returns the frame's joint states. Joints whose landmark is missing are
// omitted and their filters left untouched. Pixel positions are projected
// onto a width x height frame.
func (s *JointSmoother) Smooth(pose []r3.Vec, width, height int) map[JointName]JointState {
	joints := make(map[JointName]JointState, numJoints)

	for j := JointName(0); j < numJoints; j++ {
		idx := poseIndex[j]
		if idx >= len(pose) {
			continue
		}

		f := s.filters[j]
		f.Predict()
		if err := f.Update(pose[idx]); err != nil {
			// Covariance has been reset; the predicted state is still the
			// best estimate available for this frame.
			log.Printf("joint %s filter recovered: %v", j, err)
		}

		pos := f.Position()
		joints[j] = JointState{
			Position:   pos,
			Velocity:   f.Velocity(),
			Confidence: jointConfidence[j],
			PixelX:     int(pos.X * float64(width)),
			PixelY:     int(pos.Y * float64(height)),
		}
	}

	return joints
}

// HandSmoother holds one Kalman filter per hand landmark for one side.
type HandSmoother struct {
	filters [NumHandLandmarks]*PointFilter
}

// NewHandSmoother creates filters for all 21 landmarks up front.
func NewHandSmoother() *HandSmoother {
	s := &HandSmoother{}
	for i := range s.filters {
		s.filters[i] = NewPointFilter()
	}
	return s
}

// Smooth runs predict/update over the raw hand landmarks and returns the
// smoothed hand state. Landmarks beyond the filter bank are ignored.
func (s *HandSmoother) Smooth(landmarks []r3.Vec) HandState {
	n := len(landmarks)
	if n > NumHandLandmarks {
		n = NumHandLandmarks
	}

	smoothed := make([]r3.Vec, 0, n)
	for i := 0; i < n; i++ {
		f := s.filters[i]
		f.Predict()
		if err := f.Update(landmarks[i]); err != nil {
			log.Printf("hand landmark %d filter recovered: %v", i, err)
		}
		smoothed = append(smoothed, f.Position())
	}

	confidences := make([]float64, len(smoothed))
	for i := range confidences {
		confidences[i] = 1.0
	}

	return HandState{
		Landmarks:   smoothed,
		Confidences: confidences,
		IsTracked:   true,
	}
}
