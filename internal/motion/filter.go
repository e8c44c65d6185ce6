// Package motion defines the Kalman motion-model contract the tracker
// core is built against (spec.md §4.3) and ships one concrete,
// gonum-backed implementation of it. The contract is intentionally
// narrow: initiate a state from a measurement, and batch-predict /
// batch-update states, returning new slices that internal/storage
// writes back into its plain per-slot mean and covariance columns.
package motion

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Fleyderer/boxmot/internal/geometry"
)

// State is the 8-vector (cx, cy, w, h, vx, vy, vw, vh).
type State [8]float64

// Filter is the injected Kalman contract. Implementations are free to
// choose any process/measurement noise model; the tracker core only
// relies on the shapes and the zero-in-place convention on Predict's
// caller side (internal/storage zeroes State[7] for non-Tracked
// tracks before calling MultiPredict, per spec.md §4.4).
type Filter interface {
	// Initiate builds the initial state and covariance for a brand
	// new track from its first measurement.
	Initiate(box geometry.Rect) (mean State, cov *mat.Dense)

	// MultiPredict advances every (mean, cov) pair one time step.
	MultiPredict(means []State, covs []*mat.Dense) ([]State, []*mat.Dense)

	// MultiUpdate folds a measurement into each (mean, cov) pair.
	// len(means) == len(covs) == len(measurements).
	MultiUpdate(means []State, covs []*mat.Dense, measurements []geometry.Rect) ([]State, []*mat.Dense)
}

// Gater is an optional capability a Filter may additionally implement
// to support Mahalanobis gating (spec.md SPEC_FULL §10, a supplemented
// feature borrowed from the teacher's own
// KalmanBBox.MahalanobisDistance). The tracker only uses it when
// Config.UseMahalanobisGate is set and the injected Filter implements
// this interface; it is not part of the core contract.
type Gater interface {
	GatingDistance(mean State, cov *mat.Dense, measurement geometry.Rect) (float64, error)
}

// Box returns the xywh box described by a state's first four components.
func (s State) Box() geometry.Rect {
	return geometry.Rect{X: s[0], Y: s[1], W: s[2], H: s[3]}
}
