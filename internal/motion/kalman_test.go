package motion

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/Fleyderer/boxmot/internal/geometry"
)

func TestInitiateZeroVelocity(t *testing.T) {
	f := NewConstantVelocityFilter(DefaultParams())
	mean, cov := f.Initiate(geometry.Rect{X: 10, Y: 20, W: 30, H: 40})
	want := State{10, 20, 30, 40, 0, 0, 0, 0}
	if mean != want {
		t.Errorf("expected mean %+v, got %+v", want, mean)
	}
	if !IsFinite(mean, cov) {
		t.Errorf("expected finite initial state")
	}
}

func TestMultiPredictAdvancesPosition(t *testing.T) {
	f := NewConstantVelocityFilter(DefaultParams())
	mean, cov := f.Initiate(geometry.Rect{X: 0, Y: 0, W: 10, H: 10})
	mean[4] = 2.0 // vx
	mean[5] = 1.0 // vy

	means, covs := f.MultiPredict([]State{mean}, []*mat.Dense{cov})
	if math.Abs(means[0][0]-2.0) > 1e-9 {
		t.Errorf("expected cx to advance by vx*dt, got %v", means[0][0])
	}
	if math.Abs(means[0][1]-1.0) > 1e-9 {
		t.Errorf("expected cy to advance by vy*dt, got %v", means[0][1])
	}
	if !IsFinite(means[0], covs[0]) {
		t.Errorf("expected finite predicted state")
	}
}

func TestMultiUpdatePullsTowardMeasurement(t *testing.T) {
	f := NewConstantVelocityFilter(DefaultParams())
	mean, cov := f.Initiate(geometry.Rect{X: 0, Y: 0, W: 10, H: 10})

	predMeans, predCovs := f.MultiPredict([]State{mean}, []*mat.Dense{cov})

	measured := geometry.Rect{X: 5, Y: 5, W: 10, H: 10}
	updated, _ := f.MultiUpdate(predMeans, predCovs, []geometry.Rect{measured})

	if updated[0][0] <= predMeans[0][0] || updated[0][0] > measured.X {
		t.Errorf("expected updated cx between predicted and measured, got %v (pred=%v meas=%v)",
			updated[0][0], predMeans[0][0], measured.X)
	}
}

func TestMultiPredictEmpty(t *testing.T) {
	f := NewConstantVelocityFilter(DefaultParams())
	means, covs := f.MultiPredict(nil, nil)
	if means != nil || covs != nil {
		t.Errorf("expected nil results for empty input")
	}
}

func TestGatingDistanceZeroAtPrediction(t *testing.T) {
	f := NewConstantVelocityFilter(DefaultParams())
	mean, cov := f.Initiate(geometry.Rect{X: 0, Y: 0, W: 10, H: 10})
	dist, err := f.GatingDistance(mean, cov, geometry.Rect{X: 0, Y: 0, W: 10, H: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dist < 0 {
		t.Errorf("expected non-negative gating distance, got %v", dist)
	}
	if dist > 1e-6 {
		t.Errorf("expected near-zero distance for exact measurement match, got %v", dist)
	}
}

func TestIsFiniteDetectsNaN(t *testing.T) {
	mean := State{0, 0, 0, 0, 0, 0, 0, math.NaN()}
	if IsFinite(mean, nil) {
		t.Errorf("expected NaN state to be non-finite")
	}
}
