package embedding

import (
	"math"
	"testing"
)

func vecAlmostEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNormalizeRowsUnitNorm(t *testing.T) {
	out := NormalizeRows([][]float64{{3, 4}})
	vecAlmostEqual(t, out[0], []float64{0.6, 0.8}, 1e-9)
}

func TestNormalizeRowsZeroVector(t *testing.T) {
	out := NormalizeRows([][]float64{{0, 0}})
	vecAlmostEqual(t, out[0], []float64{0, 0}, 1e-9)
}

func TestUpdateLastMode(t *testing.T) {
	a := New(ModeLast, 0.9)
	out := a.Update([][]float64{{1, 0}}, [][]float64{{0, 5}})
	vecAlmostEqual(t, out[0], []float64{0, 1}, 1e-9)
}

func TestUpdateEMAModeBlendsNormalized(t *testing.T) {
	a := New(ModeEMA, 0.5)
	prev := [][]float64{{1, 0}}
	newEmbs := [][]float64{{0, 3}}
	out := a.Update(prev, newEmbs)
	// normalized new = {0, 1}; blend = 0.5*{1,0} + 0.5*{0,1} = {0.5, 0.5}
	vecAlmostEqual(t, out[0], []float64{0.5, 0.5}, 1e-9)
}

func TestUpdateEMANoHistoryUsesNormalizedNew(t *testing.T) {
	a := New(ModeEMA, 0.5)
	out := a.Update([][]float64{{}}, [][]float64{{0, 2}})
	vecAlmostEqual(t, out[0], []float64{0, 1}, 1e-9)
}
