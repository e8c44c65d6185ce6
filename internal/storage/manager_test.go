package storage

import "testing"

func TestManagerAddAssignsLowestFreeSlot(t *testing.T) {
	m := NewManager(3)
	slot, err := m.Add(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot != 0 {
		t.Errorf("expected slot 0, got %d", slot)
	}
	if m.MaxID() != 10 {
		t.Errorf("expected max id 10, got %d", m.MaxID())
	}
}

func TestManagerAddDuplicateFails(t *testing.T) {
	m := NewManager(2)
	if _, err := m.Add(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Add(1); err == nil {
		t.Errorf("expected error adding duplicate id")
	}
}

func TestManagerFullFails(t *testing.T) {
	m := NewManager(1)
	if _, err := m.Add(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Add(2); err == nil {
		t.Errorf("expected error: storage full")
	}
}

func TestManagerRemoveFreesSlot(t *testing.T) {
	m := NewManager(1)
	if _, err := m.Add(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Remove(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SpaceLeft() != 1 {
		t.Errorf("expected 1 free slot after remove, got %d", m.SpaceLeft())
	}
	slot, err := m.Add(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot != 0 {
		t.Errorf("expected recycled slot 0, got %d", slot)
	}
}

func TestManagerIncreaseSize(t *testing.T) {
	m := NewManager(1)
	if _, err := m.Add(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.IncreaseSize(3)
	if m.SpaceLeft() != 2 {
		t.Errorf("expected 2 free slots after growth, got %d", m.SpaceLeft())
	}
}

func TestManagerCleanupRemovesUnsaved(t *testing.T) {
	m := NewManager(3)
	for _, id := range []int{1, 2, 3} {
		if _, err := m.Add(id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	m.Cleanup(map[int]struct{}{2: {}})
	if m.SpaceLeft() != 2 {
		t.Errorf("expected 2 free slots after cleanup, got %d", m.SpaceLeft())
	}
	live := m.LiveIDs()
	if len(live) != 1 || live[0] != 2 {
		t.Errorf("expected only id 2 to survive cleanup, got %v", live)
	}
}

func TestManagerSlotsForCreateNew(t *testing.T) {
	m := NewManager(2)
	slots, err := m.SlotsFor([]int{5, 6}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if m.MaxID() != 6 {
		t.Errorf("expected max id 6, got %d", m.MaxID())
	}
}

func TestManagerSlotsForMissingWithoutCreateFails(t *testing.T) {
	m := NewManager(2)
	if _, err := m.SlotsFor([]int{99}, false); err == nil {
		t.Errorf("expected error for unknown id without createNew")
	}
}
