package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestXYXYRoundTrip(t *testing.T) {
	r := Rect{X: 30, Y: 35, W: 40, H: 50}
	box := r.ToXYXY()
	back := box.ToXYWH()
	if math.Abs(back.X-r.X) > eps || math.Abs(back.Y-r.Y) > eps ||
		math.Abs(back.W-r.W) > eps || math.Abs(back.H-r.H) > eps {
		t.Errorf("round trip mismatch: got %+v, want %+v", back, r)
	}
}

func TestClipToXYXY(t *testing.T) {
	r := Rect{X: 5, Y: 5, W: 40, H: 40}
	clipped := r.ClipToXYXY(20, 20)
	if clipped.X1 != 0 || clipped.Y1 != 0 || clipped.X2 != 20 || clipped.Y2 != 20 {
		t.Errorf("expected fully clipped box, got %+v", clipped)
	}
}

func TestAreaDegenerate(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 0, H: 10}
	if r.Area() != 0 {
		t.Errorf("expected zero area for zero-width box, got %v", r.Area())
	}
}
