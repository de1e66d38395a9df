package tracking

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Filter tuning. Velocity is less certain than position, so the velocity
// block of the process noise is inflated.
const (
	stateDim = 6 // [x y z vx vy vz]
	measDim  = 3 // position only

	filterDT      = 1.0 / 30.0
	positionNoise = 0.1
	velocityNoise = 0.2
	measureNoise  = 0.1
)

// ErrSingularInnovation is returned by PointFilter.Update when the
// innovation covariance cannot be inverted. The filter's covariance is
// reset to its initial value before returning.
var ErrSingularInnovation = errors.New("tracking: innovation covariance is singular")

// PointFilter is a constant-velocity Kalman filter over a single 3D point.
// Only position is observed; velocity is inferred.
type PointFilter struct {
	state       *mat.VecDense // 6x1
	covariance  *mat.Dense    // 6x6
	procNoise   *mat.Dense    // 6x6, fixed
	measNoise   *mat.Dense    // 3x3, fixed
	transition  *mat.Dense    // 6x6 constant-velocity model, fixed
	observation *mat.Dense    // 3x6 position observation, fixed
}

// NewPointFilter returns a filter at the origin with identity covariance.
func NewPointFilter() *PointFilter {
	proc := identity(stateDim, positionNoise)
	for i := measDim; i < stateDim; i++ {
		proc.Set(i, i, velocityNoise)
	}

	transition := identity(stateDim, 1)
	for i := 0; i < measDim; i++ {
		transition.Set(i, i+measDim, filterDT)
	}

	observation := mat.NewDense(measDim, stateDim, nil)
	for i := 0; i < measDim; i++ {
		observation.Set(i, i, 1)
	}

	return &PointFilter{
		state:       mat.NewVecDense(stateDim, nil),
		covariance:  identity(stateDim, 1),
		procNoise:   proc,
		measNoise:   identity(measDim, measureNoise),
		transition:  transition,
		observation: observation,
	}
}

// Predict advances the state one time step under the constant-velocity
// model and inflates the covariance by the process noise.
func (f *PointFilter) Predict() {
	var next mat.VecDense
	next.MulVec(f.transition, f.state)
	f.state.CopyVec(&next)

	var fp, fpft mat.Dense
	fp.Mul(f.transition, f.covariance)
	fpft.Mul(&fp, f.transition.T())
	fpft.Add(&fpft, f.procNoise)
	f.covariance.Copy(&fpft)
}

// Update corrects the state against a position measurement. A singular
// innovation covariance resets the filter covariance and returns
// ErrSingularInnovation; the state keeps its predicted value.
func (f *PointFilter) Update(measurement r3.Vec) error {
	z := mat.NewVecDense(measDim, []float64{measurement.X, measurement.Y, measurement.Z})

	// Innovation y = z - H*x.
	var hx, innov mat.VecDense
	hx.MulVec(f.observation, f.state)
	innov.SubVec(z, &hx)

	// Innovation covariance S = H*P*H' + R.
	var pht, s mat.Dense
	pht.Mul(f.covariance, f.observation.T())
	s.Mul(f.observation, &pht)
	s.Add(&s, f.measNoise)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		f.ResetCovariance()
		return ErrSingularInnovation
	}

	// Kalman gain K = P*H'*S^-1.
	var gain mat.Dense
	gain.Mul(&pht, &sInv)

	// x = x + K*y.
	var corr mat.VecDense
	corr.MulVec(&gain, &innov)
	f.state.AddVec(f.state, &corr)

	// P = (I - K*H)*P.
	var kh mat.Dense
	kh.Mul(&gain, f.observation)
	kh.Sub(identity(stateDim, 1), &kh)
	var p mat.Dense
	p.Mul(&kh, f.covariance)
	f.covariance.Copy(&p)

	return nil
}

// Position returns the smoothed 3D position estimate.
func (f *PointFilter) Position() r3.Vec {
	return r3.Vec{X: f.state.AtVec(0), Y: f.state.AtVec(1), Z: f.state.AtVec(2)}
}

// Velocity returns the current velocity estimate.
func (f *PointFilter) Velocity() r3.Vec {
	return r3.Vec{X: f.state.AtVec(3), Y: f.state.AtVec(4), Z: f.state.AtVec(5)}
}

// ResetCovariance restores the covariance to its initial value. The state
// estimate is kept.
func (f *PointFilter) ResetCovariance() {
	f.covariance.Copy(identity(stateDim, 1))
}

// identity returns an n x n matrix with v on the diagonal.
func identity(n int, v float64) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, v)
	}
	return m
}
