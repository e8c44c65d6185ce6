package geometry

import "math"

// IoU computes the pairwise intersection-over-union between tracks
// (rows) and dets (columns), both in xywh. Undefined pairs (either box
// has zero area) return 0, matching the teacher's scalar IoU in
// mot/utils.go generalized to a full matrix.
func IoU(tracks, dets []Rect) [][]float64 {
	out := make([][]float64, len(tracks))
	for i, t := range tracks {
		row := make([]float64, len(dets))
		for j, d := range dets {
			row[j] = iouPair(t, d)
		}
		out[i] = row
	}
	return out
}

// IoUWithVR computes IoU and, in the same pass, the visibility ratio
// vr[i][j] = (area(dets[j]) - inter(tracks[i], dets[j])) / area(dets[j]):
// the fraction of detection j's area not covered by track i.
func IoUWithVR(tracks, dets []Rect) (iou, vr [][]float64) {
	iou = make([][]float64, len(tracks))
	vr = make([][]float64, len(tracks))
	for i, t := range tracks {
		iouRow := make([]float64, len(dets))
		vrRow := make([]float64, len(dets))
		for j, d := range dets {
			inter := interArea(t, d)
			iouRow[j] = iouFromInter(t, d, inter)
			dArea := d.Area()
			if dArea == 0 {
				vrRow[j] = 0
			} else {
				vrRow[j] = (dArea - inter) / dArea
			}
		}
		iou[i] = iouRow
		vr[i] = vrRow
	}
	return iou, vr
}

// AIoU augments IoU with an aspect-ratio agreement factor alpha in (0, 1],
// reserved for experimental gating (spec.md §4.1).
func AIoU(tracks, dets []Rect) (iou, alpha [][]float64) {
	iou = IoU(tracks, dets)
	alpha = make([][]float64, len(tracks))
	for i, t := range tracks {
		row := make([]float64, len(dets))
		tAR := math.Atan(t.W / t.H)
		for j, d := range dets {
			dAR := math.Atan(d.W / d.H)
			diff := tAR - dAR
			v := 1 - (4/(math.Pi*math.Pi))*diff*diff
			denom := 1 - iou[i][j] + v
			if denom == 0 {
				row[j] = 0
			} else {
				row[j] = v / denom
			}
		}
		alpha[i] = row
	}
	return iou, alpha
}

// SecondSmallest returns the second-smallest value of col across rows,
// used to judge a detection "pure" (non-occluded) against every
// current track: partition(vr[:, j], 1)[1] in the Python original.
func SecondSmallest(matrix [][]float64, col int) float64 {
	n := len(matrix)
	if n < 2 {
		return math.Inf(1)
	}
	vals := make([]float64, n)
	for i := range matrix {
		vals[i] = matrix[i][col]
	}
	smallest, second := math.Inf(1), math.Inf(1)
	for _, v := range vals {
		if v < smallest {
			smallest, second = v, smallest
		} else if v < second {
			second = v
		}
	}
	return second
}

func interArea(a, b Rect) float64 {
	aBox, bBox := a.ToXYXY(), b.ToXYXY()
	xA := maxFloat64(aBox.X1, bBox.X1)
	yA := maxFloat64(aBox.Y1, bBox.Y1)
	xB := minFloat64(aBox.X2, bBox.X2)
	yB := minFloat64(aBox.Y2, bBox.Y2)
	w := maxFloat64(0, xB-xA)
	h := maxFloat64(0, yB-yA)
	return w * h
}

func iouFromInter(a, b Rect, inter float64) float64 {
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func iouPair(a, b Rect) float64 {
	if a.Area() == 0 || b.Area() == 0 {
		return 0
	}
	return iouFromInter(a, b, interArea(a, b))
}
