package geometry

import (
	"math"
	"testing"
)

func TestCosineDistanceIdentical(t *testing.T) {
	a := []float64{1, 0, 0}
	got := CosineDistanceMatrix([][]float64{a}, [][]float64{a})
	if math.Abs(got[0][0]) > 1e-9 {
		t.Errorf("cosine distance of identical vectors = %v, want 0", got[0][0])
	}
}

func TestCosineDistanceOrthogonal(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	got := CosineDistanceMatrix([][]float64{a}, [][]float64{b})
	if math.Abs(got[0][0]-1.0) > 1e-9 {
		t.Errorf("cosine distance of orthogonal vectors = %v, want 1", got[0][0])
	}
}

func TestCosineDistanceEmpty(t *testing.T) {
	got := CosineDistanceMatrix(nil, [][]float64{{1, 2}})
	if len(got) != 0 {
		t.Errorf("expected no rows for empty tracks, got %d", len(got))
	}
}

func TestFuseScore(t *testing.T) {
	cost := [][]float64{{0.2, 0.5}}
	confs := []float64{1.0, 0.5}
	fused := FuseScore(cost, confs)
	// row 0, col 0: sim = (1-0.2)*1.0 = 0.8, fused = 0.2
	if math.Abs(fused[0][0]-0.2) > eps {
		t.Errorf("fused[0][0] = %v, want 0.2", fused[0][0])
	}
	// row 0, col 1: sim = (1-0.5)*0.5 = 0.25, fused = 0.75
	if math.Abs(fused[0][1]-0.75) > eps {
		t.Errorf("fused[0][1] = %v, want 0.75", fused[0][1])
	}
}
