package tracking

import "gonum.org/v1/gonum/spatial/r3"

// Hand landmark indices used for palm orientation (MediaPipe numbering).
const (
	wristLandmark     = 0
	thumbCMCLandmark  = 1
	indexMCPLandmark  = 5
	middleMCPLandmark = 9
	middleTipLandmark = 12
	ringMCPLandmark   = 13
	pinkyMCPLandmark  = 17
)

// minVectorNorm is the magnitude below which a direction is considered
// degenerate.
const minVectorNorm = 1e-9

// PalmNormal estimates the unit normal of the palm plane from 21 smoothed
// hand landmarks. Two normals are derived independently, one from the
// overall wrist-to-knuckles alignment and one from the extended middle
// finger, and averaged so that noise in any single landmark triple is
// damped. ok is false when the landmarks are too few or near-collinear and
// no orientation is available for this frame.
func PalmNormal(landmarks []r3.Vec) (normal r3.Vec, ok bool) {
	if len(landmarks) < NumHandLandmarks {
		return r3.Vec{}, false
	}

	wrist := landmarks[wristLandmark]
	thumbCMC := landmarks[thumbCMCLandmark]
	indexMCP := landmarks[indexMCPLandmark]
	middleMCP := landmarks[middleMCPLandmark]
	middleTip := landmarks[middleTipLandmark]
	ringMCP := landmarks[ringMCPLandmark]
	pinkyMCP := landmarks[pinkyMCPLandmark]

	palmCenter := r3.Scale(0.25, r3.Add(r3.Add(indexMCP, middleMCP), r3.Add(ringMCP, pinkyMCP)))

	palmDirection, ok := unit(r3.Sub(palmCenter, wrist))
	if !ok {
		return r3.Vec{}, false
	}
	thumbPinky, ok := unit(r3.Sub(pinkyMCP, thumbCMC))
	if !ok {
		return r3.Vec{}, false
	}
	fingerDirection, ok := unit(r3.Sub(middleTip, middleMCP))
	if !ok {
		return r3.Vec{}, false
	}

	normal1 := r3.Cross(thumbPinky, palmDirection)
	normal2 := r3.Cross(thumbPinky, fingerDirection)

	return unit(r3.Add(normal1, normal2))
}

// unit normalizes v. ok is false for near-zero vectors, which must never be
// propagated as NaN directions.
func unit(v r3.Vec) (r3.Vec, bool) {
	n := r3.Norm(v)
	if n < minVectorNorm {
		return r3.Vec{}, false
	}
	return r3.Scale(1/n, v), true
}
