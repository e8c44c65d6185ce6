package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CosineDistanceMatrix returns the pairwise cosine distance between
// L2-normalized embeddings in tracks (rows) and dets (columns),
// clamped to [0, 1]. Ported from scipy.spatial.distance.cdist(...,
// "cosine") the way
// _examples/nmichlo-norfair-go/internal/scipy/distance.go does, using
// gonum.org/v1/gonum/mat for the row views.
func CosineDistanceMatrix(tracks, dets [][]float64) [][]float64 {
	out := make([][]float64, len(tracks))
	if len(tracks) == 0 || len(dets) == 0 {
		return out
	}
	dim := len(tracks[0])
	trackM := mat.NewDense(len(tracks), dim, flatten(tracks))
	detM := mat.NewDense(len(dets), dim, flatten(dets))

	for i := 0; i < len(tracks); i++ {
		row := make([]float64, len(dets))
		a := trackM.RawRowView(i)
		for j := 0; j < len(dets); j++ {
			b := detM.RawRowView(j)
			row[j] = cosineDistance(a, b)
		}
		out[i] = row
	}
	return out
}

func cosineDistance(a, b []float64) float64 {
	var dot, normA, normB float64
	for k := range a {
		dot += a[k] * b[k]
		normA += a[k] * a[k]
		normB += b[k] * b[k]
	}
	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		return 1
	}
	d := 1.0 - dot/(normA*normB)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

func flatten(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	dim := len(rows[0])
	out := make([]float64, 0, len(rows)*dim)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

// FuseScore biases an IoU-based cost matrix by detection confidence:
// fused[i][j] = 1 - (1 - cost[i][j]) * confs[j].
func FuseScore(cost [][]float64, confs []float64) [][]float64 {
	out := make([][]float64, len(cost))
	for i, row := range cost {
		fused := make([]float64, len(row))
		for j, c := range row {
			sim := (1 - c) * confs[j]
			fused[j] = 1 - sim
		}
		out[i] = fused
	}
	return out
}
