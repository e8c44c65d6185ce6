// Package assignment solves the rectangular linear assignment problem
// the tracker core needs at every cascade stage: given a cost matrix
// and a cost cap, find the minimum-cost one-to-one matching and report
// which rows/columns were left unmatched.
package assignment

import (
	hungarian "github.com/arthurkushman/go-hungarian"
)

// Match is one accepted (row, col) pair from Solve.
type Match struct {
	Row, Col int
}

// maxProfit is the cost-to-profit conversion constant: go-hungarian's
// SolveMax only maximizes, so costs are mapped to profit = maxProfit -
// cost and converted back after solving, the same trick
// _examples/nmichlo-norfair-go/internal/scipy/optimize.go uses around
// the same library.
const maxProfit = 1 << 20

// Solve finds a minimum-cost matching in cost (rows = tracks, columns
// = detections) rejecting any edge whose cost exceeds cap. Degenerate
// inputs return no matches: a matrix with rows but no columns reports
// every row as unmatched, and a matrix with no rows reports no
// unmatched rows or columns, since its column count is unknown.
func Solve(cost [][]float64, cap float64) (matches []Match, unmatchedRows, unmatchedCols []int) {
	numRows := len(cost)
	if numRows == 0 {
		return nil, nil, nil
	}
	numCols := len(cost[0])
	if numCols == 0 {
		unmatchedRows = make([]int, numRows)
		for i := range unmatchedRows {
			unmatchedRows[i] = i
		}
		return nil, unmatchedRows, nil
	}

	size := numRows
	if numCols > size {
		size = numCols
	}
	profit := make([][]float64, size)
	for i := range profit {
		profit[i] = make([]float64, size)
		for j := range profit[i] {
			if i < numRows && j < numCols {
				profit[i][j] = maxProfit - cost[i][j]
			}
		}
	}

	result := hungarian.SolveMax(profit)

	matchedRow := make(map[int]bool, numRows)
	matchedCol := make(map[int]bool, numCols)
	for row, cols := range result {
		for col, p := range cols {
			if row >= numRows || col >= numCols {
				continue
			}
			edgeCost := maxProfit - p
			if edgeCost > cap {
				continue
			}
			matches = append(matches, Match{Row: row, Col: col})
			matchedRow[row] = true
			matchedCol[col] = true
		}
	}

	for i := 0; i < numRows; i++ {
		if !matchedRow[i] {
			unmatchedRows = append(unmatchedRows, i)
		}
	}
	for j := 0; j < numCols; j++ {
		if !matchedCol[j] {
			unmatchedCols = append(unmatchedCols, j)
		}
	}
	return matches, unmatchedRows, unmatchedCols
}
