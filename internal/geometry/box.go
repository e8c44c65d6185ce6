// Package geometry implements the pure box and embedding math the
// tracker core runs every frame: format conversions, pairwise IoU and
// visibility ratio, cosine distance, score fusion and camera-motion
// warping. Nothing here touches track state or frame numbers.
package geometry

// Rect is a box in xywh form: center x, center y, width, height.
type Rect struct {
	X, Y, W, H float64
}

// Box is a box in xyxy form: top-left and bottom-right corners.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// ToXYXY converts a center-size box to a corner-corner box.
func (r Rect) ToXYXY() Box {
	halfW, halfH := r.W/2.0, r.H/2.0
	return Box{
		X1: r.X - halfW,
		Y1: r.Y - halfH,
		X2: r.X + halfW,
		Y2: r.Y + halfH,
	}
}

// ToXYWH converts a corner-corner box to a center-size box.
func (b Box) ToXYWH() Rect {
	return Rect{
		X: (b.X1 + b.X2) / 2.0,
		Y: (b.Y1 + b.Y2) / 2.0,
		W: b.X2 - b.X1,
		H: b.Y2 - b.Y1,
	}
}

// ClipToXYXY converts to xyxy and clamps corners into [0, imgW] x [0, imgH].
func (r Rect) ClipToXYXY(imgW, imgH float64) Box {
	b := r.ToXYXY()
	b.X1 = clamp(b.X1, 0, imgW)
	b.Y1 = clamp(b.Y1, 0, imgH)
	b.X2 = clamp(b.X2, 0, imgW)
	b.Y2 = clamp(b.Y2, 0, imgH)
	return b
}

// Area returns the box's area; degenerate (non-positive) boxes have area 0.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
