package assignment

import "testing"

func TestSolveEmptyMatrix(t *testing.T) {
	matches, rows, cols := Solve(nil, 0.5)
	if len(matches) != 0 || len(rows) != 0 || len(cols) != 0 {
		t.Errorf("expected no matches/rows/cols for empty input")
	}
}

func TestSolveEmptyColumns(t *testing.T) {
	cost := [][]float64{{}, {}}
	matches, rows, cols := Solve(cost, 0.5)
	if len(matches) != 0 {
		t.Errorf("expected no matches when no columns, got %d", len(matches))
	}
	if len(rows) != 2 {
		t.Errorf("expected both rows unmatched, got %d", len(rows))
	}
	if len(cols) != 0 {
		t.Errorf("expected no unmatched cols, got %d", len(cols))
	}
}

func TestSolveSquareMatrix(t *testing.T) {
	cost := [][]float64{
		{0.1, 0.9},
		{0.9, 0.1},
	}
	matches, rows, cols := Solve(cost, 1.0)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(matches), matches)
	}
	if len(rows) != 0 || len(cols) != 0 {
		t.Errorf("expected all rows/cols matched, got rows=%v cols=%v", rows, cols)
	}
	seen := map[[2]int]bool{}
	for _, m := range matches {
		seen[[2]int{m.Row, m.Col}] = true
	}
	if !seen[[2]int{0, 0}] || !seen[[2]int{1, 1}] {
		t.Errorf("expected diagonal matching, got %+v", matches)
	}
}

func TestSolveRespectsCap(t *testing.T) {
	cost := [][]float64{
		{0.95},
	}
	matches, rows, cols := Solve(cost, 0.5)
	if len(matches) != 0 {
		t.Errorf("expected no match above cap, got %+v", matches)
	}
	if len(rows) != 1 || len(cols) != 1 {
		t.Errorf("expected row and col unmatched, got rows=%v cols=%v", rows, cols)
	}
}

func TestSolveNeverExceedsCap(t *testing.T) {
	cost := [][]float64{
		{0.1, 0.4, 0.9},
		{0.6, 0.2, 0.3},
		{0.8, 0.7, 0.05},
	}
	cap := 0.5
	matches, _, _ := Solve(cost, cap)
	for _, m := range matches {
		if cost[m.Row][m.Col] > cap {
			t.Errorf("match (%d,%d) has cost %v exceeding cap %v", m.Row, m.Col, cost[m.Row][m.Col], cap)
		}
	}
}

func TestSolveRectangular(t *testing.T) {
	cost := [][]float64{
		{0.1, 0.9, 0.9},
	}
	matches, rows, cols := Solve(cost, 1.0)
	if len(matches) != 1 {
		t.Fatalf("expected exactly 1 match, got %d", len(matches))
	}
	if matches[0].Col != 0 {
		t.Errorf("expected match to column 0 (lowest cost), got col %d", matches[0].Col)
	}
	if len(rows) != 0 {
		t.Errorf("expected row matched, got unmatched rows %v", rows)
	}
	if len(cols) != 2 {
		t.Errorf("expected 2 unmatched cols, got %v", cols)
	}
}
