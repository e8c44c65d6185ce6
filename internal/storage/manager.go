package storage

import (
	"sort"

	"github.com/pkg/errors"
)

// Manager maps track ids to storage slots and back, grounded on
// _examples/original_source/boxmot/trackers/puretracker/storage.py's
// TrackStorageManager. Free slots are kept in ascending order rather
// than the source's arbitrary set.pop(), so that which slot a new
// track lands in is a deterministic function of removal history
// (spec.md §5's determinism requirement).
type Manager struct {
	idToSlot map[int]int
	slotToID map[int]int
	free     []int // ascending, slot 0 valid
	maxID    int
	size     int
}

// NewManager builds a Manager over `size` initially-free slots.
func NewManager(size int) *Manager {
	free := make([]int, size)
	for i := range free {
		free[i] = i
	}
	return &Manager{
		idToSlot: make(map[int]int, size),
		slotToID: make(map[int]int, size),
		free:     free,
		size:     size,
	}
}

// IsFull reports whether every slot is occupied.
func (m *Manager) IsFull() bool {
	return len(m.free) == 0
}

// SpaceLeft returns the number of unoccupied slots.
func (m *Manager) SpaceLeft() int {
	return len(m.free)
}

// Size returns the total slot capacity.
func (m *Manager) Size() int {
	return m.size
}

// MaxID returns the highest track id ever assigned.
func (m *Manager) MaxID() int {
	return m.maxID
}

// SeedMaxID raises the manager's high-water mark without occupying a
// slot, so a freshly created Manager can be told "ids below N are
// already spoken for". Used by tracker.PerClassTracker to share one
// monotonic id counter across its per-class Trackers.
func (m *Manager) SeedMaxID(id int) {
	if id > m.maxID {
		m.maxID = id
	}
}

// IncreaseSize grows capacity to newSize, adding the new slots to the
// free pool. newSize must be >= the current size.
func (m *Manager) IncreaseSize(newSize int) {
	for i := m.size; i < newSize; i++ {
		m.free = append(m.free, i)
	}
	m.size = newSize
}

// Add claims a free slot for track id, which must not already exist.
func (m *Manager) Add(id int) (int, error) {
	if _, exists := m.idToSlot[id]; exists {
		return 0, errors.Wrapf(ErrTrackExists, "id=%d", id)
	}
	if m.IsFull() {
		return 0, ErrStorageFull
	}
	if id > m.maxID {
		m.maxID = id
	}
	slot := m.free[0]
	m.free = m.free[1:]
	m.idToSlot[id] = slot
	m.slotToID[slot] = id
	return slot, nil
}

// Remove frees the slot occupied by track id.
func (m *Manager) Remove(id int) error {
	slot, exists := m.idToSlot[id]
	if !exists {
		return errors.Wrapf(ErrTrackNotFound, "id=%d", id)
	}
	delete(m.idToSlot, id)
	delete(m.slotToID, slot)
	m.insertFree(slot)
	return nil
}

func (m *Manager) insertFree(slot int) {
	i := sort.SearchInts(m.free, slot)
	m.free = append(m.free, 0)
	copy(m.free[i+1:], m.free[i:])
	m.free[i] = slot
}

// Cleanup removes every tracked id not present in saveIDs.
func (m *Manager) Cleanup(saveIDs map[int]struct{}) {
	for id := range m.idToSlot {
		if _, keep := saveIDs[id]; !keep {
			_ = m.Remove(id)
		}
	}
}

// SlotsFor resolves ids to slots; if createNew, unknown ids are
// assigned a fresh slot via Add instead of erroring.
func (m *Manager) SlotsFor(ids []int, createNew bool) ([]int, error) {
	slots := make([]int, len(ids))
	for i, id := range ids {
		slot, exists := m.idToSlot[id]
		if !exists {
			if !createNew {
				return nil, errors.Wrapf(ErrTrackNotFound, "id=%d", id)
			}
			var err error
			slot, err = m.Add(id)
			if err != nil {
				return nil, err
			}
		}
		slots[i] = slot
	}
	return slots, nil
}

// IDsFor returns the track id occupying each slot; a slot with no
// live track maps to 0.
func (m *Manager) IDsFor(slots []int) []int {
	ids := make([]int, len(slots))
	for i, s := range slots {
		ids[i] = m.slotToID[s]
	}
	return ids
}

// LiveIDs returns every currently tracked id, in ascending slot order.
func (m *Manager) LiveIDs() []int {
	slots := make([]int, 0, len(m.slotToID))
	for s := range m.slotToID {
		slots = append(slots, s)
	}
	sort.Ints(slots)
	ids := make([]int, len(slots))
	for i, s := range slots {
		ids[i] = m.slotToID[s]
	}
	return ids
}
