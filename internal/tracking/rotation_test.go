package tracking

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// yawNormal returns a unit vector rotated by angle about the Y axis,
// starting from +Z.
func yawNormal(angle float64) r3.Vec {
	sin, cos := math.Sincos(angle)
	return r3.Vec{X: sin, Z: cos}
}

func TestRotationAccumulator_RequiresStableFrames(t *testing.T) {
	acc := NewRotationAccumulator(DefaultConfig())

	if _, _, ok := acc.Add(yawNormal(0)); ok {
		t.Error("one sample should not produce a rotation")
	}
}

func TestRotationAccumulator_IgnoresMicroJitter(t *testing.T) {
	cfg := DefaultConfig()
	acc := NewRotationAccumulator(cfg)

	// Rotation steps below MinRotationThreshold are jitter, not gestures.
	step := cfg.MinRotationThreshold / 2
	for i := 0; i < 20; i++ {
		if _, _, ok := acc.Add(yawNormal(float64(i) * step)); ok {
			t.Fatalf("jitter below threshold classified as rotation at frame %d", i)
		}
	}
}

func TestRotationAccumulator_SteadyRotation(t *testing.T) {
	cfg := DefaultConfig()
	acc := NewRotationAccumulator(cfg)

	const step = 0.08

	var rotation float64
	var axis r3.Vec
	var ok bool
	for i := 0; i < 10; i++ {
		rotation, axis, ok = acc.Add(yawNormal(float64(i) * step))
		if i >= cfg.MinStableFrames-1 && !ok {
			t.Fatalf("no rotation detected at frame %d", i)
		}
	}

	// Every adjacent pair is exactly one step apart, so the exponentially
	// weighted average collapses to the step itself.
	if math.Abs(rotation-step) > 1e-9 {
		t.Errorf("smoothed rotation = %g, want %g", rotation, step)
	}

	// cross(newer, older) for increasing yaw points down the Y axis.
	if axis.Y >= 0 {
		t.Errorf("rotation axis = %+v, want negative Y component", axis)
	}
	if n := r3.Norm(axis); math.Abs(n-1) > 1e-9 {
		t.Errorf("rotation axis length = %g, want 1", n)
	}
	if !ok {
		t.Error("expected a rotation on the final frame")
	}
}

func TestRotationAccumulator_ReversedRotationFlipsAxis(t *testing.T) {
	cfg := DefaultConfig()
	acc := NewRotationAccumulator(cfg)

	const step = 0.08

	var axis r3.Vec
	var ok bool
	for i := 0; i < 10; i++ {
		_, axis, ok = acc.Add(yawNormal(-float64(i) * step))
	}
	if !ok {
		t.Fatal("expected a rotation")
	}
	if axis.Y <= 0 {
		t.Errorf("rotation axis = %+v, want positive Y component", axis)
	}
}

func TestRotationAccumulator_HistoryBounded(t *testing.T) {
	cfg := DefaultConfig()
	acc := NewRotationAccumulator(cfg)

	const step = 0.08
	for i := 0; i < 3*cfg.HistorySize; i++ {
		acc.Add(yawNormal(float64(i) * step))
	}

	if got := len(acc.palmHistory); got != cfg.HistorySize {
		t.Errorf("palm history length = %d, want %d", got, cfg.HistorySize)
	}
	if got := len(acc.rotationHistory); got != cfg.HistorySize {
		t.Errorf("rotation history length = %d, want %d", got, cfg.HistorySize)
	}

	// Newest entry sits at the front.
	newest := yawNormal(float64(3*cfg.HistorySize-1) * step)
	if d := r3.Norm(r3.Sub(acc.palmHistory[0], newest)); d > 1e-12 {
		t.Errorf("front of palm history is not the newest normal (dist %g)", d)
	}
}

func TestRotationAccumulator_BelowGestureThreshold(t *testing.T) {
	cfg := DefaultConfig()
	// Steps above the jitter floor but whose smoothed average stays below
	// the gesture threshold.
	cfg.GestureAngleThreshold = 0.2
	acc := NewRotationAccumulator(cfg)

	for i := 0; i < 10; i++ {
		if _, _, ok := acc.Add(yawNormal(float64(i) * 0.08)); ok {
			t.Fatalf("rotation below gesture threshold reported at frame %d", i)
		}
	}
}

func TestPushFront_Ordering(t *testing.T) {
	var buf []float64
	for i := 0; i < 5; i++ {
		buf = pushFront(buf, float64(i), 3)
	}

	want := []float64{4, 3, 2}
	if len(buf) != len(want) {
		t.Fatalf("buffer length = %d, want %d", len(buf), len(want))
	}
	for i, w := range want {
		if buf[i] != w {
			t.Errorf("buf[%d] = %g, want %g", i, buf[i], w)
		}
	}
}
