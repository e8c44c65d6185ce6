// Package embedding implements the embedding aggregation policies used
// to keep a track's appearance vector up to date across frames
// (spec.md §4.5), grounded on
// _examples/original_source/boxmot/trackers/puretracker/storage.py's
// EmbeddingHandler.update and
// _examples/original_source/boxmot/trackers/puretrack/basetrack.py's
// EmbeddingStorage.
package embedding

import "math"

// Mode selects how a track's embedding is blended with a new observation.
type Mode int

const (
	// ModeEMA exponentially blends the previous and new embedding.
	ModeEMA Mode = iota
	// ModeLast replaces the previous embedding outright.
	ModeLast
)

// Aggregator blends batches of previous/new embeddings row-wise.
type Aggregator struct {
	mode  Mode
	alpha float64
}

// New builds an Aggregator. alpha is only meaningful for ModeEMA: the
// weight given to the previous embedding (e' = alpha*prev + (1-alpha)*new).
func New(mode Mode, alpha float64) *Aggregator {
	return &Aggregator{mode: mode, alpha: alpha}
}

// Update blends prev[i] and new[i] for every row, after L2-normalizing
// a copy of new row-wise (newEmbs itself is not modified). len(prev)
// must equal len(newEmbs); a
// zero-length prev row (a track with no embedding yet) is treated as
// having no history and the normalized new value is used directly.
func (a *Aggregator) Update(prev, newEmbs [][]float64) [][]float64 {
	normalized := NormalizeRows(newEmbs)
	out := make([][]float64, len(normalized))
	for i := range normalized {
		if i >= len(prev) || len(prev[i]) == 0 || a.mode == ModeLast {
			out[i] = normalized[i]
			continue
		}
		out[i] = blend(prev[i], normalized[i], a.alpha)
	}
	return out
}

func blend(prev, cur []float64, alpha float64) []float64 {
	out := make([]float64, len(cur))
	for i := range cur {
		p := 0.0
		if i < len(prev) {
			p = prev[i]
		}
		out[i] = alpha*p + (1-alpha)*cur[i]
	}
	return out
}

// NormalizeRows returns a copy of m with every row L2-normalized. A
// zero-norm row is left as all zeros rather than divided by zero.
func NormalizeRows(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = normalizeRow(row)
	}
	return out
}

func normalizeRow(row []float64) []float64 {
	sumSq := 0.0
	for _, v := range row {
		sumSq += v * v
	}
	norm := math.Sqrt(sumSq)
	out := make([]float64, len(row))
	if norm == 0 {
		return out
	}
	for i, v := range row {
		out[i] = v / norm
	}
	return out
}
