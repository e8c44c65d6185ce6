package geometry

import "math"

// CameraUpdate warps a set of xywh boxes by a 3x3 homography mapping
// previous-frame coordinates into the current frame, returning the
// axis-aligned bounding box of each warped quad. Ported from
// camera_update in the Python original (utils.py), vectorized there
// over numpy; here a straightforward per-box loop since the tracks
// pool rarely exceeds a few hundred entries per frame.
func CameraUpdate(boxes []Rect, h [3][3]float64) []Rect {
	out := make([]Rect, len(boxes))
	for i, b := range boxes {
		out[i] = warpBox(b, h)
	}
	return out
}

func warpBox(b Rect, h [3][3]float64) Rect {
	box := b.ToXYXY()
	corners := [4][2]float64{
		{box.X1, box.Y1}, // top-left
		{box.X2, box.Y1}, // top-right
		{box.X2, box.Y2}, // bottom-right
		{box.X1, box.Y2}, // bottom-left
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		// Matches corners_trans_flat = corners_flat @ transform.T in the
		// Python original: columns 0/1 are used directly, with no
		// perspective divide by column 2.
		x := h[0][0]*c[0] + h[0][1]*c[1] + h[0][2]
		y := h[1][0]*c[0] + h[1][1]*c[1] + h[1][2]
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	newW := maxX - minX
	newH := maxY - minY
	return Rect{
		X: minX + newW/2.0,
		Y: minY + newH/2.0,
		W: newW,
		H: newH,
	}
}
