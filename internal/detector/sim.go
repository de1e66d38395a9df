package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// SimulatedDetector synthesizes observations of a subject slowly rotating
// an open palm, for demo runs and tests without a camera or the Python
// MediaPipe service. It ignores the frame contents.
type SimulatedDetector struct {
	frame int

	// step is the yaw applied to the palm per frame, in radians.
	step float64

	// sweep is the half-amplitude of the rotation sweep. The palm yaws
	// back and forth between -sweep and +sweep.
	sweep float64
}

// NewSimulatedDetector creates a detector that produces a pronation and
// supination sweep at a rate strong enough to trigger gesture detection.
func NewSimulatedDetector() *SimulatedDetector {
	return &SimulatedDetector{
		step:  0.08,
		sweep: 1.2,
	}
}

// Detect returns the next synthesized observation. The frame is ignored
// and may be nil.
func (d *SimulatedDetector) Detect(frame *gocv.Mat) (*Observation, error) {
	// Triangle wave: yaw ramps up to +sweep, back down to -sweep, repeat.
	period := 4 * d.sweep / d.step
	phase := math.Mod(float64(d.frame), period) / period
	var yaw float64
	switch {
	case phase < 0.25:
		yaw = 4 * d.sweep * phase
	case phase < 0.75:
		yaw = d.sweep - 4*d.sweep*(phase-0.25)
	default:
		yaw = -d.sweep + 4*d.sweep*(phase-0.75)
	}
	d.frame++

	pose := ArmsPose()
	wrist := pose[PoseRightWrist]

	hand := OpenPalmHand(wrist.X, wrist.Y)
	for i := range hand.Points {
		hand.Points[i] = rotateAboutVertical(hand.Points[i], yaw, Point3D{X: wrist.X, Y: wrist.Y})
	}

	return &Observation{
		Pose:  pose,
		Hands: []HandLandmarks{hand},
	}, nil
}

// Close is a no-op for the simulated detector.
func (d *SimulatedDetector) Close() error {
	return nil
}

// rotateAboutVertical rotates p about the vertical axis through pivot.
func rotateAboutVertical(p Point3D, angle float64, pivot Point3D) Point3D {
	sin, cos := math.Sincos(angle)
	x := p.X - pivot.X
	z := p.Z - pivot.Z
	return Point3D{
		X: pivot.X + x*cos + z*sin,
		Y: p.Y,
		Z: pivot.Z - x*sin + z*cos,
	}
}
