package storage

import "testing"

func TestClassEstimatorLastMode(t *testing.T) {
	e := NewClassEstimator(ClassModeLast, 10, 1, 0.9)
	e.Update(2, 0.1)
	if e.Get() != 2 {
		t.Errorf("expected last class 2, got %d", e.Get())
	}
}

func TestClassEstimatorVoteModePicksHighestConfidence(t *testing.T) {
	e := NewClassEstimator(ClassModeVote, 10, 1, 0.9)
	e.Update(2, 0.1)
	e.Update(2, 0.1)
	// class 1 total = 0.9, class 2 total = 0.2
	if e.Get() != 1 {
		t.Errorf("expected class 1 to win vote, got %d", e.Get())
	}
}

func TestClassEstimatorVoteModeEvictsOldest(t *testing.T) {
	e := NewClassEstimator(ClassModeVote, 2, 1, 0.9)
	e.Update(2, 0.5)
	// history now [(1,0.9),(2,0.5)], maxLen=2, no eviction yet
	if e.Get() != 1 {
		t.Errorf("expected class 1 still winning, got %d", e.Get())
	}
	e.Update(2, 0.5)
	// history overflows to 3; oldest (1,0.9) evicted, leaving (2,0.5)+(2,0.5)=1.0
	if e.Get() != 2 {
		t.Errorf("expected class 2 to win after eviction, got %d", e.Get())
	}
}
