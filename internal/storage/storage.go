package storage

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Fleyderer/boxmot/internal/embedding"
	"github.com/Fleyderer/boxmot/internal/geometry"
	"github.com/Fleyderer/boxmot/internal/motion"
)

// Detection is one row of a frame's detections, already converted to
// xywh and carrying its original index into the caller's input.
type Detection struct {
	Box   geometry.Rect
	Conf  float64
	Class int
	DetID int
}

// Storage is the append-only, slot-indexed track store (spec.md
// §4.4): every field lives in its own pre-declared column array,
// addressed by slot, grown by capacity doubling on overflow. Grounded
// on
// _examples/original_source/boxmot/trackers/puretracker/storage.py's
// TrackStorage, with the dynamic attribute-dict replaced by explicit
// fields per spec.md §9.
type Storage struct {
	manager *Manager
	filter  motion.Filter
	embAgg  *embedding.Aggregator

	classMode   ClassMode
	classMaxLen int

	// maxCapacity caps how far grow() may double the slot arrays. Zero
	// means unbounded growth (the historical default). A positive value
	// makes grow() return ErrStorageFull instead of growing past it,
	// per spec.md §7's "StorageFull with growth disabled: fail fast".
	maxCapacity int

	means       []motion.State
	covs        []*mat.Dense
	boxes       []geometry.Rect
	confs       []float64
	classes     []int
	detIDs      []int
	embs        [][]float64
	pureEmbs    [][]float64
	states      []State
	isActivated []bool
	frameIDs    []int
	startFrames []int
	classEst    []*ClassEstimator
}

// New builds a Storage with an initial capacity. maxCapacity caps how
// far the store may grow beyond initialSize; 0 means unbounded.
func New(initialSize int, maxCapacity int, filter motion.Filter, embAgg *embedding.Aggregator, classMode ClassMode, classMaxLen int) *Storage {
	return &Storage{
		manager:     NewManager(initialSize),
		filter:      filter,
		embAgg:      embAgg,
		classMode:   classMode,
		classMaxLen: classMaxLen,
		maxCapacity: maxCapacity,

		means:       make([]motion.State, initialSize),
		covs:        make([]*mat.Dense, initialSize),
		boxes:       make([]geometry.Rect, initialSize),
		confs:       make([]float64, initialSize),
		classes:     make([]int, initialSize),
		detIDs:      make([]int, initialSize),
		embs:        make([][]float64, initialSize),
		pureEmbs:    make([][]float64, initialSize),
		states:      make([]State, initialSize),
		isActivated: make([]bool, initialSize),
		frameIDs:    make([]int, initialSize),
		startFrames: make([]int, initialSize),
		classEst:    make([]*ClassEstimator, initialSize),
	}
}

// Manager exposes the id<->slot map for callers building pools of live ids.
func (s *Storage) Manager() *Manager {
	return s.manager
}

// grow doubles capacity until there is room for `need` more live tracks.
// When maxCapacity is set and doubling would need to exceed it, grow
// caps newSize at maxCapacity; if that still isn't enough room it
// returns ErrStorageFull without mutating any state.
func (s *Storage) grow(need int) error {
	if s.manager.SpaceLeft() >= need {
		return nil
	}
	newSize := s.manager.Size()
	if newSize == 0 {
		newSize = 1
	}
	for newSize-s.manager.Size()+s.manager.SpaceLeft() < need {
		if s.maxCapacity > 0 && newSize >= s.maxCapacity {
			newSize = s.maxCapacity
			break
		}
		newSize *= 2
	}
	if s.maxCapacity > 0 && newSize > s.maxCapacity {
		newSize = s.maxCapacity
	}
	if newSize-s.manager.Size()+s.manager.SpaceLeft() < need {
		return ErrStorageFull
	}
	s.manager.IncreaseSize(newSize)

	s.means = append(s.means, make([]motion.State, newSize-len(s.means))...)
	s.covs = append(s.covs, make([]*mat.Dense, newSize-len(s.covs))...)
	s.boxes = append(s.boxes, make([]geometry.Rect, newSize-len(s.boxes))...)
	s.confs = append(s.confs, make([]float64, newSize-len(s.confs))...)
	s.classes = append(s.classes, make([]int, newSize-len(s.classes))...)
	s.detIDs = append(s.detIDs, make([]int, newSize-len(s.detIDs))...)
	s.embs = append(s.embs, make([][]float64, newSize-len(s.embs))...)
	s.pureEmbs = append(s.pureEmbs, make([][]float64, newSize-len(s.pureEmbs))...)
	s.states = append(s.states, make([]State, newSize-len(s.states))...)
	s.isActivated = append(s.isActivated, make([]bool, newSize-len(s.isActivated))...)
	s.frameIDs = append(s.frameIDs, make([]int, newSize-len(s.frameIDs))...)
	s.startFrames = append(s.startFrames, make([]int, newSize-len(s.startFrames))...)
	s.classEst = append(s.classEst, make([]*ClassEstimator, newSize-len(s.classEst))...)
	return nil
}

// --- column accessors, indexed by slot ---

func (s *Storage) Mean(slot int) motion.State   { return s.means[slot] }
func (s *Storage) Cov(slot int) *mat.Dense       { return s.covs[slot] }
func (s *Storage) Box(slot int) geometry.Rect    { return s.boxes[slot] }
func (s *Storage) Conf(slot int) float64         { return s.confs[slot] }
func (s *Storage) Class(slot int) int            { return s.classes[slot] }
func (s *Storage) DetID(slot int) int            { return s.detIDs[slot] }
func (s *Storage) Emb(slot int) []float64        { return s.embs[slot] }
func (s *Storage) PureEmb(slot int) []float64    { return s.pureEmbs[slot] }
func (s *Storage) State(slot int) State          { return s.states[slot] }
func (s *Storage) IsActivated(slot int) bool     { return s.isActivated[slot] }
func (s *Storage) FrameID(slot int) int          { return s.frameIDs[slot] }
func (s *Storage) StartFrame(slot int) int       { return s.startFrames[slot] }
func (s *Storage) Lifetime(slot int, frame int) int {
	return frame - s.startFrames[slot]
}

// EstimatedClass returns the slot's class estimate: the ClassEstimator's
// vote/last verdict when one has been seeded, or the raw last-seen
// class column otherwise.
func (s *Storage) EstimatedClass(slot int) int {
	if s.classEst[slot] != nil {
		return s.classEst[slot].Get()
	}
	return s.classes[slot]
}

// SetState directly sets a slot's lifecycle state; used by the tracker
// core's lifecycle tick (spec.md §4.6 step 7) which reassigns state
// outside the batched update/reactivate/activate operations.
func (s *Storage) SetState(slot int, st State) {
	s.states[slot] = st
}

// SetFrameID overrides a slot's last-seen frame, used when a lost
// track transitions to Reidable (its frame_id resets per spec.md §4.6
// step 7).
func (s *Storage) SetFrameID(slot int, frame int) {
	s.frameIDs[slot] = frame
}

// MultiPredict zeroes row 7 (ḣ) for every non-Tracked slot in the pool
// and advances all of them one Kalman step, in place.
func (s *Storage) MultiPredict(slots []int) {
	if len(slots) == 0 {
		return
	}
	means := make([]motion.State, len(slots))
	covs := make([]*mat.Dense, len(slots))
	for i, slot := range slots {
		m := s.means[slot]
		if s.states[slot] != StateTracked {
			m[7] = 0
		}
		means[i] = m
		covs[i] = s.covs[slot]
	}
	newMeans, newCovs := s.filter.MultiPredict(means, covs)
	for i, slot := range slots {
		s.means[slot] = newMeans[i]
		s.covs[slot] = newCovs[i]
		s.boxes[slot] = newMeans[i].Box()
	}
}

// SetMean overwrites a slot's mean and its derived box (the covariance
// is left as is), used by
// the tracker core to apply camera-motion warping between predict and
// association (spec.md §4.6 step 3.a).
func (s *Storage) SetMean(slot int, mean motion.State, box geometry.Rect) {
	s.means[slot] = mean
	s.boxes[slot] = box
}

// Update folds matched detections into already-live tracks (spec.md
// §4.4's `update`): Kalman multi-update, optional embedding blend
// (gated per-row by pureSlots for pure_embs), conf/class/det_id
// overwrite, is_activated=true.
func (s *Storage) Update(slots []int, dets []Detection, frameID int, embs [][]float64, pureSlots []int, pureEmbs [][]float64) {
	if len(slots) == 0 || len(dets) == 0 {
		return
	}
	means := make([]motion.State, len(slots))
	covs := make([]*mat.Dense, len(slots))
	measurements := make([]geometry.Rect, len(slots))
	for i, slot := range slots {
		means[i] = s.means[slot]
		covs[i] = s.covs[slot]
		measurements[i] = dets[i].Box
	}
	newMeans, newCovs := s.filter.MultiUpdate(means, covs, measurements)

	for i, slot := range slots {
		s.means[slot] = newMeans[i]
		s.covs[slot] = newCovs[i]
		s.boxes[slot] = newMeans[i].Box()
		s.frameIDs[slot] = frameID
		s.confs[slot] = dets[i].Conf
		s.classes[slot] = dets[i].Class
		s.detIDs[slot] = dets[i].DetID
		s.isActivated[slot] = true
		if s.classEst[slot] != nil {
			s.classEst[slot].Update(dets[i].Class, dets[i].Conf)
		}
	}

	if embs != nil {
		prev := make([][]float64, len(slots))
		for i, slot := range slots {
			prev[i] = s.embs[slot]
		}
		blended := s.embAgg.Update(prev, embs)
		for i, slot := range slots {
			s.embs[slot] = blended[i]
		}
	}

	if pureSlots != nil && pureEmbs != nil {
		prev := make([][]float64, len(pureSlots))
		for i, slot := range pureSlots {
			prev[i] = s.pureEmbs[slot]
		}
		blended := s.embAgg.Update(prev, pureEmbs)
		for i, slot := range pureSlots {
			s.pureEmbs[slot] = blended[i]
		}
	}
}

// Activate starts fresh tracklets for dets, minting ids from
// manager.MaxID()+1 upward, and returns the newly assigned slots in
// det order. It returns ErrStorageFull, without minting any ids or
// mutating any state, when growth is capped and exhausted.
func (s *Storage) Activate(dets []Detection, frameID int, embs [][]float64) ([]int, error) {
	if len(dets) == 0 {
		return nil, nil
	}
	if err := s.grow(len(dets)); err != nil {
		return nil, err
	}

	startID := s.manager.MaxID() + 1
	ids := make([]int, len(dets))
	for i := range dets {
		ids[i] = startID + i
	}
	slots := make([]int, len(dets))
	for i, id := range ids {
		slot, err := s.manager.Add(id)
		if err != nil {
			// grow() sized for exactly this batch; Add failing here
			// would mean a slot-accounting bug, not a runtime condition.
			panic(err)
		}
		slots[i] = slot
	}

	normalizedEmbs := embs
	if embs != nil {
		// Fresh embeddings for a brand-new track have no prior value to
		// blend against; normalize-only via an EMA aggregator update
		// against an empty history row.
		prev := make([][]float64, len(embs))
		normalizedEmbs = s.embAgg.Update(prev, embs)
	}

	for i, slot := range slots {
		mean, cov := s.filter.Initiate(dets[i].Box)
		s.means[slot] = mean
		s.covs[slot] = cov
		s.boxes[slot] = dets[i].Box
		s.confs[slot] = dets[i].Conf
		s.classes[slot] = dets[i].Class
		s.detIDs[slot] = dets[i].DetID
		s.frameIDs[slot] = frameID
		s.startFrames[slot] = frameID
		s.states[slot] = StateTracked
		s.isActivated[slot] = frameID == 1
		s.classEst[slot] = NewClassEstimator(s.classMode, s.classMaxLen, dets[i].Class, dets[i].Conf)
		if normalizedEmbs != nil {
			s.embs[slot] = normalizedEmbs[i]
			// A freshly born track has no occluding sibling yet, so its
			// birth observation is trivially "pure"; seeding pure_emb
			// here is what lets a track that goes straight from birth
			// to Lost still be ReID-reactivated later.
			if len(normalizedEmbs[i]) > 0 {
				s.pureEmbs[slot] = normalizedEmbs[i]
			}
		}
	}
	return slots, nil
}

// Reactivate revives previously lost/reidable tracks matched to new
// detections: Kalman update, state back to Tracked, is_activated=true,
// conf/class/det_id overwritten. Embeddings are refreshed only when
// refreshEmbs is set by the caller (spec.md §9's open-question policy:
// not refreshed on the ordinary cascade path, refreshed on the
// explicit ReID path).
func (s *Storage) Reactivate(slots []int, dets []Detection, frameID int, embs [][]float64, refreshEmbs bool) {
	if len(slots) == 0 || len(dets) == 0 {
		return
	}
	means := make([]motion.State, len(slots))
	covs := make([]*mat.Dense, len(slots))
	measurements := make([]geometry.Rect, len(slots))
	for i, slot := range slots {
		means[i] = s.means[slot]
		covs[i] = s.covs[slot]
		measurements[i] = dets[i].Box
	}
	newMeans, newCovs := s.filter.MultiUpdate(means, covs, measurements)

	for i, slot := range slots {
		s.means[slot] = newMeans[i]
		s.covs[slot] = newCovs[i]
		s.boxes[slot] = newMeans[i].Box()
		s.frameIDs[slot] = frameID
		s.states[slot] = StateTracked
		s.isActivated[slot] = true
		s.confs[slot] = dets[i].Conf
		s.classes[slot] = dets[i].Class
		s.detIDs[slot] = dets[i].DetID
		if s.classEst[slot] != nil {
			s.classEst[slot].Update(dets[i].Class, dets[i].Conf)
		}
	}

	if refreshEmbs && embs != nil {
		prev := make([][]float64, len(slots))
		for i, slot := range slots {
			prev[i] = s.embs[slot]
		}
		blended := s.embAgg.Update(prev, embs)
		for i, slot := range slots {
			s.embs[slot] = blended[i]
		}
	}
}

// Cleanup removes every live track whose id is absent from saveIDs.
func (s *Storage) Cleanup(saveIDs map[int]struct{}) {
	s.manager.Cleanup(saveIDs)
}

// Reset discards all live tracks and resets the id counter, for an
// explicit new-video boundary (spec.md §9's "global counter reset").
func (s *Storage) Reset() {
	size := s.manager.Size()
	s.manager = NewManager(size)
	for i := range s.states {
		s.states[i] = StateNew
		s.isActivated[i] = false
		s.classEst[i] = nil
	}
}
