package motion

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Fleyderer/boxmot/internal/geometry"
)

// Params configures ConstantVelocityFilter. Naming mirrors the
// teacher's own Kalman constructors
// (_examples/LdDl-mot-go/mot/blob_bbox.go: dt, stdDevA, stdDevMCx,
// stdDevMCy, stdDevMW, stdDevMH) even though the matrix mechanics
// underneath are a from-scratch gonum port (see DESIGN.md for why the
// teacher's own kalman-filter dependency couldn't be reused directly).
type Params struct {
	DT float64

	// StdDevA is the process-noise standard deviation (acceleration).
	StdDevA float64

	// Per-axis measurement standard deviations.
	StdDevMCx float64
	StdDevMCy float64
	StdDevMW  float64
	StdDevMH  float64

	// InitialVelocityStdDev inflates the initial covariance's velocity
	// block, since a fresh track has no velocity measurement yet.
	InitialVelocityStdDev float64
}

// DefaultParams returns parameters in the same ballpark as the
// teacher's own blob_bbox.go construction.
func DefaultParams() Params {
	return Params{
		DT:                    1.0,
		StdDevA:               2.0,
		StdDevMCx:             0.1,
		StdDevMCy:             0.1,
		StdDevMW:              0.1,
		StdDevMH:              0.1,
		InitialVelocityStdDev: 1.0,
	}
}

// ConstantVelocityFilter is a constant-velocity Kalman filter over
// (cx, cy, w, h, vx, vy, vw, vh), built directly on
// gonum.org/v1/gonum/mat the way
// _examples/nmichlo-norfair-go/internal/filterpy/kalman.go ports
// filterpy's KalmanFilter — full matrix Predict/Update rather than the
// teacher's opaque per-blob filter object, because internal/storage
// needs the raw mean/covariance to address and mutate per slot
// (spec.md §4.4, zeroing mean[7] before predicting non-Tracked
// tracks).
type ConstantVelocityFilter struct {
	params Params
}

// NewConstantVelocityFilter builds the default motion.Filter implementation.
func NewConstantVelocityFilter(params Params) *ConstantVelocityFilter {
	return &ConstantVelocityFilter{params: params}
}

func (f *ConstantVelocityFilter) transitionMatrix() *mat.Dense {
	F := mat.NewDense(8, 8, nil)
	for i := 0; i < 8; i++ {
		F.Set(i, i, 1.0)
	}
	for i := 0; i < 4; i++ {
		F.Set(i, i+4, f.params.DT)
	}
	return F
}

func (f *ConstantVelocityFilter) measurementMatrix() *mat.Dense {
	H := mat.NewDense(4, 8, nil)
	for i := 0; i < 4; i++ {
		H.Set(i, i, 1.0)
	}
	return H
}

func (f *ConstantVelocityFilter) measurementNoise() *mat.Dense {
	R := mat.NewDense(4, 4, nil)
	R.Set(0, 0, f.params.StdDevMCx*f.params.StdDevMCx)
	R.Set(1, 1, f.params.StdDevMCy*f.params.StdDevMCy)
	R.Set(2, 2, f.params.StdDevMW*f.params.StdDevMW)
	R.Set(3, 3, f.params.StdDevMH*f.params.StdDevMH)
	return R
}

// processNoise builds a discretized white-noise-acceleration Q for a
// single axis pair (position, velocity) and folds it into the full
// 8x8 matrix, one axis block at a time.
func (f *ConstantVelocityFilter) processNoise() *mat.Dense {
	dt := f.params.DT
	q := f.params.StdDevA * f.params.StdDevA
	Q := mat.NewDense(8, 8, nil)
	block := [2][2]float64{
		{dt * dt * dt * dt / 4, dt * dt * dt / 2},
		{dt * dt * dt / 2, dt * dt},
	}
	for axis := 0; axis < 4; axis++ {
		posIdx, velIdx := axis, axis+4
		Q.Set(posIdx, posIdx, block[0][0]*q)
		Q.Set(posIdx, velIdx, block[0][1]*q)
		Q.Set(velIdx, posIdx, block[1][0]*q)
		Q.Set(velIdx, velIdx, block[1][1]*q)
	}
	return Q
}

// Initiate implements Filter.
func (f *ConstantVelocityFilter) Initiate(box geometry.Rect) (State, *mat.Dense) {
	mean := State{box.X, box.Y, box.W, box.H, 0, 0, 0, 0}

	cov := mat.NewDense(8, 8, nil)
	posVar := f.params.StdDevMCx * f.params.StdDevMCx
	velVar := f.params.InitialVelocityStdDev * f.params.InitialVelocityStdDev
	for i := 0; i < 4; i++ {
		cov.Set(i, i, posVar)
		cov.Set(i+4, i+4, velVar)
	}
	return mean, cov
}

// MultiPredict implements Filter.
func (f *ConstantVelocityFilter) MultiPredict(means []State, covs []*mat.Dense) ([]State, []*mat.Dense) {
	if len(means) == 0 {
		return means, covs
	}
	F := f.transitionMatrix()
	Q := f.processNoise()
	Ft := F.T()

	outMeans := make([]State, len(means))
	outCovs := make([]*mat.Dense, len(covs))
	for i := range means {
		x := mat.NewDense(8, 1, means[i][:])
		var xPred mat.Dense
		xPred.Mul(F, x)

		var fp mat.Dense
		fp.Mul(F, covs[i])
		var pPred mat.Dense
		pPred.Mul(&fp, Ft)
		pPred.Add(&pPred, Q)

		var newMean State
		for k := 0; k < 8; k++ {
			newMean[k] = xPred.At(k, 0)
		}
		outMeans[i] = newMean
		outCovs[i] = mat.DenseCopyOf(&pPred)
	}
	return outMeans, outCovs
}

// MultiUpdate implements Filter.
func (f *ConstantVelocityFilter) MultiUpdate(means []State, covs []*mat.Dense, measurements []geometry.Rect) ([]State, []*mat.Dense) {
	if len(means) == 0 {
		return means, covs
	}
	H := f.measurementMatrix()
	Ht := H.T()
	R := f.measurementNoise()

	outMeans := make([]State, len(means))
	outCovs := make([]*mat.Dense, len(covs))
	for i := range means {
		x := mat.NewDense(8, 1, means[i][:])
		z := mat.NewDense(4, 1, []float64{
			measurements[i].X, measurements[i].Y, measurements[i].W, measurements[i].H,
		})

		var hx mat.Dense
		hx.Mul(H, x)
		var y mat.Dense
		y.Sub(z, &hx)

		var hp mat.Dense
		hp.Mul(H, covs[i])
		var s mat.Dense
		s.Mul(&hp, Ht)
		s.Add(&s, R)

		var sInv mat.Dense
		if err := sInv.Inverse(&s); err != nil {
			// Singular innovation covariance: leave the state unchanged
			// rather than propagate NaNs. The unchanged state stays
			// finite, so the tracker's KalmanNumerical check does not
			// flag it.
			outMeans[i] = means[i]
			outCovs[i] = covs[i]
			continue
		}

		var ph mat.Dense
		ph.Mul(covs[i], Ht)
		var k mat.Dense
		k.Mul(&ph, &sInv)

		var ky mat.Dense
		ky.Mul(&k, &y)
		var newX mat.Dense
		newX.Add(x, &ky)

		identity := mat.NewDense(8, 8, nil)
		for d := 0; d < 8; d++ {
			identity.Set(d, d, 1.0)
		}
		var kh mat.Dense
		kh.Mul(&k, H)
		var iMinusKH mat.Dense
		iMinusKH.Sub(identity, &kh)
		var newP mat.Dense
		newP.Mul(&iMinusKH, covs[i])

		var newMean State
		for d := 0; d < 8; d++ {
			newMean[d] = newX.At(d, 0)
		}
		outMeans[i] = newMean
		outCovs[i] = mat.DenseCopyOf(&newP)
	}
	return outMeans, outCovs
}

// GatingDistance implements the optional Gater interface: the squared
// Mahalanobis distance between a track's predicted measurement and an
// observed box, mirroring the teacher's own
// KalmanBBox.MahalanobisDistance.
func (f *ConstantVelocityFilter) GatingDistance(mean State, cov *mat.Dense, measurement geometry.Rect) (float64, error) {
	H := f.measurementMatrix()
	R := f.measurementNoise()

	x := mat.NewDense(8, 1, mean[:])
	z := mat.NewDense(4, 1, []float64{measurement.X, measurement.Y, measurement.W, measurement.H})

	var hx mat.Dense
	hx.Mul(H, x)
	var y mat.Dense
	y.Sub(z, &hx)

	var hp mat.Dense
	hp.Mul(H, cov)
	var s mat.Dense
	s.Mul(&hp, H.T())
	s.Add(&s, R)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return 0, errNonInvertibleInnovation
	}

	var temp mat.Dense
	temp.Mul(y.T(), &sInv)
	var dist mat.Dense
	dist.Mul(&temp, &y)
	return dist.At(0, 0), nil
}

// IsFinite reports whether a mean/covariance pair is free of NaN/Inf,
// the condition spec.md §7 (KalmanNumerical) checks after every
// filter step.
func IsFinite(mean State, cov *mat.Dense) bool {
	for _, v := range mean {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if cov == nil {
		return true
	}
	r, c := cov.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := cov.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
