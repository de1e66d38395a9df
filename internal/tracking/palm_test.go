package tracking

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// flatPalmLandmarks returns 21 landmarks of an open hand lying in the XY
// plane, fingers pointing up the image (toward smaller y). Its palm normal
// points along the Z axis.
func flatPalmLandmarks() []r3.Vec {
	lm := make([]r3.Vec, NumHandLandmarks)

	lm[wristLandmark] = r3.Vec{X: 0.50, Y: 0.80}
	lm[thumbCMCLandmark] = r3.Vec{X: 0.44, Y: 0.74}

	// Knuckles spread across the palm.
	lm[indexMCPLandmark] = r3.Vec{X: 0.46, Y: 0.62}
	lm[middleMCPLandmark] = r3.Vec{X: 0.50, Y: 0.60}
	lm[ringMCPLandmark] = r3.Vec{X: 0.54, Y: 0.62}
	lm[pinkyMCPLandmark] = r3.Vec{X: 0.57, Y: 0.64}

	// Extended middle finger.
	lm[10] = r3.Vec{X: 0.50, Y: 0.52}
	lm[11] = r3.Vec{X: 0.50, Y: 0.46}
	lm[middleTipLandmark] = r3.Vec{X: 0.50, Y: 0.40}

	return lm
}

// rotateAboutY rotates every landmark by angle around a vertical axis
// through pivot.
func rotateAboutY(landmarks []r3.Vec, angle float64, pivot r3.Vec) []r3.Vec {
	sin, cos := math.Sincos(angle)
	out := make([]r3.Vec, len(landmarks))
	for i, lm := range landmarks {
		p := r3.Sub(lm, pivot)
		out[i] = r3.Add(pivot, r3.Vec{
			X: p.X*cos + p.Z*sin,
			Y: p.Y,
			Z: -p.X*sin + p.Z*cos,
		})
	}
	return out
}

func TestPalmNormal_UnitLength(t *testing.T) {
	normal, ok := PalmNormal(flatPalmLandmarks())
	if !ok {
		t.Fatal("expected a palm normal for a non-degenerate hand")
	}

	if n := r3.Norm(normal); math.Abs(n-1) > 1e-9 {
		t.Errorf("palm normal length = %g, want 1", n)
	}
}

func TestPalmNormal_FlatPalmPointsAlongZ(t *testing.T) {
	normal, ok := PalmNormal(flatPalmLandmarks())
	if !ok {
		t.Fatal("expected a palm normal for a non-degenerate hand")
	}

	// All landmarks lie in the XY plane, so the normal must be ±Z.
	if math.Abs(math.Abs(normal.Z)-1) > 1e-9 {
		t.Errorf("flat palm normal = %+v, want ±Z", normal)
	}
}

func TestPalmNormal_RotationFollowsHand(t *testing.T) {
	base := flatPalmLandmarks()
	n0, ok := PalmNormal(base)
	if !ok {
		t.Fatal("expected a palm normal")
	}

	angle := 0.25
	rotated := rotateAboutY(base, angle, base[wristLandmark])
	n1, ok := PalmNormal(rotated)
	if !ok {
		t.Fatal("expected a palm normal for the rotated hand")
	}

	got := math.Acos(clamp(r3.Dot(n0, n1), -1, 1))
	if math.Abs(got-angle) > 1e-6 {
		t.Errorf("normal rotated by %g, want %g", got, angle)
	}
}

func TestPalmNormal_DegenerateGeometry(t *testing.T) {
	// All landmarks on a single line: every cross product vanishes.
	collinear := make([]r3.Vec, NumHandLandmarks)
	for i := range collinear {
		collinear[i] = r3.Vec{X: 0.1 * float64(i), Y: 0.2 * float64(i)}
	}

	normal, ok := PalmNormal(collinear)
	if ok {
		t.Fatalf("expected no orientation for collinear landmarks, got %+v", normal)
	}
	if math.IsNaN(normal.X) || math.IsNaN(normal.Y) || math.IsNaN(normal.Z) {
		t.Errorf("degenerate palm normal must not be NaN: %+v", normal)
	}
}

func TestPalmNormal_CoincidentLandmarks(t *testing.T) {
	same := make([]r3.Vec, NumHandLandmarks)
	for i := range same {
		same[i] = r3.Vec{X: 0.5, Y: 0.5}
	}

	if _, ok := PalmNormal(same); ok {
		t.Error("expected no orientation when all landmarks coincide")
	}
}

func TestPalmNormal_TooFewLandmarks(t *testing.T) {
	if _, ok := PalmNormal(flatPalmLandmarks()[:20]); ok {
		t.Error("expected no orientation for fewer than 21 landmarks")
	}
}
