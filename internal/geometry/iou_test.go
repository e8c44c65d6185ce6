package geometry

import (
	"math"
	"testing"
)

func TestIoUIdentical(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	got := IoU([]Rect{r}, []Rect{r})
	if math.Abs(got[0][0]-1.0) > eps {
		t.Errorf("IoU of identical boxes = %v, want 1.0", got[0][0])
	}
}

func TestIoUDisjoint(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 1000, Y: 1000, W: 10, H: 10}
	got := IoU([]Rect{a}, []Rect{b})
	if got[0][0] != 0 {
		t.Errorf("IoU of disjoint boxes = %v, want 0", got[0][0])
	}
}

func TestIoUZeroArea(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 0, H: 10}
	b := Rect{X: 0, Y: 0, W: 10, H: 10}
	got := IoU([]Rect{a}, []Rect{b})
	if got[0][0] != 0 {
		t.Errorf("IoU with zero-area box = %v, want 0", got[0][0])
	}
}

func TestIoUSymmetry(t *testing.T) {
	a := Rect{X: 5, Y: 5, W: 20, H: 10}
	b := Rect{X: 12, Y: 8, W: 15, H: 15}
	ab := IoU([]Rect{a}, []Rect{b})
	ba := IoU([]Rect{b}, []Rect{a})
	if math.Abs(ab[0][0]-ba[0][0]) > eps {
		t.Errorf("IoU not symmetric: IoU(a,b)=%v IoU(b,a)=%v", ab[0][0], ba[0][0])
	}
}

func TestIoUWithVR(t *testing.T) {
	track := Rect{X: 10, Y: 10, W: 20, H: 20}
	det := Rect{X: 10, Y: 10, W: 10, H: 10}
	iou, vr := IoUWithVR([]Rect{track}, []Rect{det})
	if iou[0][0] <= 0 {
		t.Fatalf("expected positive overlap")
	}
	// det is fully inside track, so vr should be 0 (fully occluded).
	if math.Abs(vr[0][0]) > 1e-6 {
		t.Errorf("vr = %v, want ~0 for fully covered detection", vr[0][0])
	}
}

func TestSecondSmallest(t *testing.T) {
	matrix := [][]float64{
		{0.9, 0.1},
		{0.2, 0.8},
		{0.5, 0.3},
	}
	got := SecondSmallest(matrix, 0)
	if math.Abs(got-0.5) > eps {
		t.Errorf("second smallest of col 0 = %v, want 0.5", got)
	}
}

func TestSecondSmallestSingleRow(t *testing.T) {
	matrix := [][]float64{{0.5}}
	got := SecondSmallest(matrix, 0)
	if !math.IsInf(got, 1) {
		t.Errorf("second smallest with a single row should be +Inf, got %v", got)
	}
}
