package storage

import "github.com/pkg/errors"

var (
	// ErrTrackExists is returned by Manager.Add for an id already tracked.
	ErrTrackExists = errors.New("storage: track id already exists")
	// ErrTrackNotFound is returned when an id has no known slot.
	ErrTrackNotFound = errors.New("storage: track id does not exist")
	// ErrStorageFull is returned by Manager.Add when no free slot
	// remains, and by Storage.Activate when growth is capped by
	// maxCapacity and the cap leaves too few slots.
	ErrStorageFull = errors.New("storage: no free storage slots available")
)
