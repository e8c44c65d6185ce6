package tracker

import (
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Fleyderer/boxmot/internal/assignment"
	"github.com/Fleyderer/boxmot/internal/embedding"
	"github.com/Fleyderer/boxmot/internal/geometry"
	"github.com/Fleyderer/boxmot/internal/motion"
	"github.com/Fleyderer/boxmot/internal/storage"
)

const duplicateIoUDistThresh = 0.15

// chiSquare95Dof4 is the 95% chi-square quantile for 4 degrees of
// freedom (the xywh measurement), the standard DeepSORT gating
// threshold.
const chiSquare95Dof4 = 9.4877

// Tracker runs the per-frame association cascade over one
// internal/storage.Storage instance. It owns all of its mutable state
// (the store and the four lifecycle pools) so that running several
// Trackers concurrently — one per camera or, via PerClassTracker, one
// per class — never shares memory (spec.md §5).
type Tracker struct {
	cfg       Config
	filter    motion.Filter
	extractor Extractor
	ecc       CameraMotionEstimator
	store     *storage.Storage

	// instanceID distinguishes this tracker's log lines when several
	// run side by side (e.g. one per class under PerClassTracker).
	instanceID string

	frameID int
	embDim  int // 0 until the first embedding batch fixes the dimension

	active   idSet
	lost     idSet
	reidable idSet
	removed  idSet
}

// New builds a Tracker. extractor may be nil only if cfg.WithReID is
// false; ecc may be nil only if cfg.WithECC is false.
func New(cfg Config, filter motion.Filter, extractor Extractor, ecc CameraMotionEstimator) (*Tracker, error) {
	if cfg.WithReID && extractor == nil {
		return nil, errors.New("tracker: WithReID requires a non-nil Extractor")
	}
	if cfg.WithECC && ecc == nil {
		return nil, errors.New("tracker: WithECC requires a non-nil CameraMotionEstimator")
	}
	cfg.Logger = cfg.logger()

	agg := embedding.New(cfg.EmbMode, cfg.EmbEMAAlpha)
	store := storage.New(cfg.StorageInitialCapacity, cfg.StorageMaxCapacity, filter, agg, cfg.ClassMode, cfg.ClassMaxLen)

	return &Tracker{
		cfg:        cfg,
		filter:     filter,
		extractor:  extractor,
		ecc:        ecc,
		store:      store,
		instanceID: uuid.NewString(),
		active:     idSet{},
		lost:       idSet{},
		reidable:   idSet{},
		removed:    idSet{},
	}, nil
}

// Reset discards all live tracks and zeros the id counter and frame
// count, for an explicit new-video boundary (spec.md §9).
func (t *Tracker) Reset() {
	t.store.Reset()
	t.frameID = 0
	t.embDim = 0
	t.active = idSet{}
	t.lost = idSet{}
	t.reidable = idSet{}
	t.removed = idSet{}
}

type frameDet struct {
	rect  geometry.Rect
	conf  float64
	class int
	idx   int
}

// Update runs one frame through the cascade and returns the current
// output rows (spec.md §4.6).
func (t *Tracker) Update(dets []Detection, image []byte, embs [][]float64) ([]Output, error) {
	if err := t.validate(dets, embs); err != nil {
		return nil, err
	}

	frame := t.frameID + 1

	var high, low []frameDet
	for i, d := range dets {
		fd := frameDet{rect: d.Box.ToXYWH(), conf: d.Conf, class: d.Class, idx: i}
		switch {
		case d.Conf > t.cfg.TrackHighThresh:
			high = append(high, fd)
		case d.Conf > t.cfg.TrackLowThresh && d.Conf <= t.cfg.TrackHighThresh:
			low = append(low, fd)
		}
	}

	var embHigh [][]float64
	if t.cfg.WithReID {
		if embs != nil {
			embHigh = make([][]float64, len(high))
			for i, fd := range high {
				embHigh[i] = embs[fd.idx]
			}
		} else {
			boxes := make([]geometry.Box, len(high))
			for i, fd := range high {
				boxes[i] = fd.rect.ToXYXY()
			}
			extracted, err := t.extractor.Extract(boxes, image)
			if err != nil {
				return nil, errors.Wrap(ErrExtractorFailure, err.Error())
			}
			embHigh = extracted
		}
	}

	// Snapshot pools before any mutation this frame; the lifecycle
	// recompute at the end reasons about old-vs-new membership.
	oldActive := t.active.clone()
	oldLost := t.lost.clone()
	oldReidable := t.reidable.clone()
	oldRemoved := t.removed.clone()

	// Step 1: partition active_pool into unconfirmed / confirmed.
	var unconfirmed, confirmed idSet = idSet{}, idSet{}
	for _, id := range sortedIDs(oldActive) {
		slot, err := t.store.Manager().SlotsFor([]int{id}, false)
		if err != nil {
			continue
		}
		if t.store.IsActivated(slot[0]) {
			confirmed.add(id)
		} else {
			unconfirmed.add(id)
		}
	}

	reactivatedThisFrame := idSet{}
	activatedThisFrame := idSet{}
	newlyLost := idSet{}
	newlyReidable := idSet{}
	removedThisFrame := idSet{}

	// Step 2: ReID reactivation.
	if t.cfg.WithReID && t.cfg.WithEmbReactivation && len(oldReidable) > 0 && len(high) > 0 {
		reidableIDs := sortedIDs(oldReidable)
		reidableSlots, _ := t.store.Manager().SlotsFor(reidableIDs, false)
		pureEmbs := make([][]float64, len(reidableSlots))
		for i, slot := range reidableSlots {
			pureEmbs[i] = t.store.PureEmb(slot)
		}
		cost := geometry.CosineDistanceMatrix(pureEmbs, embHigh)
		for i := range cost {
			for j := range cost[i] {
				cost[i][j] /= 2
			}
		}
		matches, _, _ := assignment.Solve(cost, t.cfg.EmbReIDThresh)

		matchedHighIdx := newIDSet()
		for _, m := range matches {
			id := reidableIDs[m.Row]
			slot := reidableSlots[m.Row]
			det := high[m.Col]
			storageDet := storage.Detection{Box: det.rect, Conf: det.conf, Class: det.class, DetID: det.idx}
			t.store.Reactivate([]int{slot}, []storage.Detection{storageDet}, frame, [][]float64{embHigh[m.Col]}, true)
			reactivatedThisFrame.add(id)
			matchedHighIdx.add(m.Col)
		}
		high = removeFrameDetsAt(high, matchedHighIdx)
		if t.cfg.WithReID {
			embHigh = removeEmbsAt(embHigh, matchedHighIdx)
		}
	}

	// Step 3: first association (high confidence).
	tracksPoolIDs := sortedIDs(union(confirmed, difference(oldLost, reactivatedThisFrame)))
	tracksSlots, _ := t.store.Manager().SlotsFor(tracksPoolIDs, false)
	t.store.MultiPredict(tracksSlots)

	// Kalman numerical degradation: a track whose predicted mean/cov
	// went non-finite is removed on the spot and excluded from this
	// frame's association, rather than failing the frame (spec.md §7).
	tracksPoolIDs, tracksSlots = t.dropNonFinite(tracksPoolIDs, tracksSlots, frame, removedThisFrame)

	if t.cfg.WithECC && len(tracksSlots) > 0 {
		homography, err := t.ecc.Estimate(image, frame)
		if err != nil {
			return nil, errors.Wrap(ErrECCFailure, err.Error())
		}
		rects := make([]geometry.Rect, len(tracksSlots))
		for i, slot := range tracksSlots {
			rects[i] = t.store.Box(slot)
		}
		warped := geometry.CameraUpdate(rects, homography)
		for i, slot := range tracksSlots {
			mean := t.store.Mean(slot)
			mean[0], mean[1], mean[2], mean[3] = warped[i].X, warped[i].Y, warped[i].W, warped[i].H
			t.store.SetMean(slot, mean, warped[i])
		}
	}

	highRects := make([]geometry.Rect, len(high))
	highConfs := make([]float64, len(high))
	for i, fd := range high {
		highRects[i] = fd.rect
		highConfs[i] = fd.conf
	}
	trackRects := make([]geometry.Rect, len(tracksSlots))
	for i, slot := range tracksSlots {
		trackRects[i] = t.store.Box(slot)
	}

	iouDist, vr := geometry.IoUWithVR(trackRects, highRects)
	for i := range iouDist {
		for j := range iouDist[i] {
			iouDist[i][j] = 1 - iouDist[i][j]
		}
	}
	if len(highConfs) > 0 {
		iouDist = geometry.FuseScore(iouDist, highConfs)
	}

	var cost [][]float64
	var embDist [][]float64
	if t.cfg.WithReID {
		trackEmbs := make([][]float64, len(tracksSlots))
		for i, slot := range tracksSlots {
			trackEmbs[i] = t.store.Emb(slot)
		}
		embDist = geometry.CosineDistanceMatrix(trackEmbs, embHigh)
		for i := range embDist {
			for j := range embDist[i] {
				embDist[i][j] /= 2
			}
		}
		for i := range iouDist {
			for j := range iouDist[i] {
				if embDist[i][j] > t.cfg.IoUEmbThresh {
					iouDist[i][j] = 1
				}
			}
		}
		for i := range embDist {
			for j := range embDist[i] {
				if embDist[i][j] > t.cfg.EmbThresh {
					embDist[i][j] = 1
				}
			}
		}
		for i := range embDist {
			for j := range embDist[i] {
				if iouDist[i][j] > t.cfg.EmbIoUThresh {
					embDist[i][j] = 1
				}
			}
		}
		cost = make([][]float64, len(tracksSlots))
		for i := range cost {
			cost[i] = make([]float64, len(high))
			for j := range cost[i] {
				cost[i][j] = math.Min(iouDist[i][j], embDist[i][j])
			}
		}
	} else {
		cost = iouDist
	}

	if t.cfg.UseMahalanobisGate {
		if gater, ok := t.filter.(motion.Gater); ok {
			for i, slot := range tracksSlots {
				mean := t.store.Mean(slot)
				cov := t.store.Cov(slot)
				for j, rect := range highRects {
					d, err := gater.GatingDistance(mean, cov, rect)
					if err != nil || d > chiSquare95Dof4 {
						cost[i][j] = 1
					}
				}
			}
		}
	}

	var matches []assignment.Match
	var unmatchedTrackIdx, unmatchedHighIdx []int
	if len(tracksSlots) == 0 {
		// assignment.Solve can't recover the column count from a
		// zero-row cost matrix, so every detection is left unmatched
		// explicitly rather than through Solve's degenerate path.
		unmatchedHighIdx = make([]int, len(high))
		for i := range high {
			unmatchedHighIdx[i] = i
		}
	} else {
		matches, unmatchedTrackIdx, unmatchedHighIdx = assignment.Solve(cost, t.cfg.MatchThresh)
	}

	for _, m := range matches {
		id := tracksPoolIDs[m.Row]
		slot := tracksSlots[m.Row]
		det := high[m.Col]
		storageDet := storage.Detection{Box: det.rect, Conf: det.conf, Class: det.class, DetID: det.idx}

		pure := geometry.SecondSmallest(vr, m.Col) > t.cfg.VRThresh

		if t.store.State(slot) == storage.StateTracked {
			var embRow [][]float64
			var pureSlots []int
			var pureEmbRow [][]float64
			if t.cfg.WithReID {
				embRow = [][]float64{embHigh[m.Col]}
				if pure {
					pureSlots = []int{slot}
					pureEmbRow = [][]float64{embHigh[m.Col]}
				}
			}
			t.store.Update([]int{slot}, []storage.Detection{storageDet}, frame, embRow, pureSlots, pureEmbRow)
		} else {
			t.store.Reactivate([]int{slot}, []storage.Detection{storageDet}, frame, nil, false)
			reactivatedThisFrame.add(id)
		}
	}

	unmatchedTrackIDs := make([]int, len(unmatchedTrackIdx))
	for i, rowIdx := range unmatchedTrackIdx {
		unmatchedTrackIDs[i] = tracksPoolIDs[rowIdx]
	}
	remainingHigh := make([]frameDet, len(unmatchedHighIdx))
	for i, colIdx := range unmatchedHighIdx {
		remainingHigh[i] = high[colIdx]
	}

	// Step 4: second association (low confidence), Tracked-only.
	var stage4Candidates []int
	for _, id := range unmatchedTrackIDs {
		slot, err := t.store.Manager().SlotsFor([]int{id}, false)
		if err != nil {
			continue
		}
		if t.store.State(slot[0]) == storage.StateTracked {
			stage4Candidates = append(stage4Candidates, id)
		}
	}
	if len(stage4Candidates) > 0 && len(low) > 0 {
		slots, _ := t.store.Manager().SlotsFor(stage4Candidates, false)
		rects := make([]geometry.Rect, len(slots))
		for i, slot := range slots {
			rects[i] = t.store.Box(slot)
		}
		lowRects := make([]geometry.Rect, len(low))
		for i, fd := range low {
			lowRects[i] = fd.rect
		}
		iou := geometry.IoU(rects, lowRects)
		dist := make([][]float64, len(iou))
		for i := range iou {
			dist[i] = make([]float64, len(iou[i]))
			for j := range iou[i] {
				dist[i][j] = 1 - iou[i][j]
			}
		}
		matches, unmatchedRows, _ := assignment.Solve(dist, 0.5)
		for _, m := range matches {
			slot := slots[m.Row]
			fd := low[m.Col]
			storageDet := storage.Detection{Box: fd.rect, Conf: fd.conf, Class: fd.class, DetID: fd.idx}
			t.store.Update([]int{slot}, []storage.Detection{storageDet}, frame, nil, nil, nil)
		}
		for _, rowIdx := range unmatchedRows {
			id := stage4Candidates[rowIdx]
			slot := slots[rowIdx]
			if t.store.State(slot) != storage.StateLost {
				t.store.SetState(slot, storage.StateLost)
				newlyLost.add(id)
			}
		}
	} else {
		for _, id := range stage4Candidates {
			slot, _ := t.store.Manager().SlotsFor([]int{id}, false)
			if t.store.State(slot[0]) != storage.StateLost {
				t.store.SetState(slot[0], storage.StateLost)
				newlyLost.add(id)
			}
		}
	}

	// Step 5: unconfirmed resolution, against step 3's leftovers.
	unconfirmedIDs := sortedIDs(unconfirmed)
	if len(unconfirmedIDs) > 0 && len(remainingHigh) > 0 {
		slots, _ := t.store.Manager().SlotsFor(unconfirmedIDs, false)
		rects := make([]geometry.Rect, len(slots))
		for i, slot := range slots {
			rects[i] = t.store.Box(slot)
		}
		remRects := make([]geometry.Rect, len(remainingHigh))
		remConfs := make([]float64, len(remainingHigh))
		for i, fd := range remainingHigh {
			remRects[i] = fd.rect
			remConfs[i] = fd.conf
		}
		iou := geometry.IoU(rects, remRects)
		dist := make([][]float64, len(iou))
		for i := range iou {
			dist[i] = make([]float64, len(iou[i]))
			for j := range iou[i] {
				dist[i][j] = 1 - iou[i][j]
			}
		}
		dist = geometry.FuseScore(dist, remConfs)
		matches, unmatchedRows, unmatchedCols := assignment.Solve(dist, 0.7)

		for _, m := range matches {
			id := unconfirmedIDs[m.Row]
			slot := slots[m.Row]
			fd := remainingHigh[m.Col]
			storageDet := storage.Detection{Box: fd.rect, Conf: fd.conf, Class: fd.class, DetID: fd.idx}
			t.store.Update([]int{slot}, []storage.Detection{storageDet}, frame, nil, nil, nil)
			activatedThisFrame.add(id)
		}
		for _, rowIdx := range unmatchedRows {
			id := unconfirmedIDs[rowIdx]
			slot := slots[rowIdx]
			t.store.SetState(slot, storage.StateRemoved)
			removedThisFrame.add(id)
		}
		filtered := make([]frameDet, 0, len(unmatchedCols))
		for _, colIdx := range unmatchedCols {
			filtered = append(filtered, remainingHigh[colIdx])
		}
		remainingHigh = filtered
	} else {
		for _, id := range unconfirmedIDs {
			slot, _ := t.store.Manager().SlotsFor([]int{id}, false)
			t.store.SetState(slot[0], storage.StateRemoved)
			removedThisFrame.add(id)
		}
	}

	// Step 6: birth.
	var birthDets []storage.Detection
	var birthEmbs [][]float64
	for _, fd := range remainingHigh {
		if fd.conf >= t.cfg.TrackNewThresh {
			birthDets = append(birthDets, storage.Detection{Box: fd.rect, Conf: fd.conf, Class: fd.class, DetID: fd.idx})
		}
	}
	if len(birthDets) > 0 {
		if t.cfg.WithReID {
			for _, fd := range remainingHigh {
				if fd.conf >= t.cfg.TrackNewThresh {
					idx := indexOfFrameDet(high, fd)
					if idx >= 0 {
						birthEmbs = append(birthEmbs, embHigh[idx])
					} else {
						birthEmbs = append(birthEmbs, nil)
					}
				}
			}
		}
		newSlots, err := t.store.Activate(birthDets, frame, birthEmbs)
		if err != nil {
			return nil, errors.Wrap(ErrStorageFull, err.Error())
		}
		for _, id := range t.store.Manager().IDsFor(newSlots) {
			activatedThisFrame.add(id)
		}
	}

	// Step 7: lifecycle tick.
	lostCandidates := sortedIDs(union(oldLost, newlyLost))
	if t.cfg.WithEmbReactivation {
		for _, id := range lostCandidates {
			slot, err := t.store.Manager().SlotsFor([]int{id}, false)
			if err != nil || t.store.State(slot[0]) != storage.StateLost {
				continue
			}
			if frame-t.store.FrameID(slot[0]) > t.cfg.maxFramesLost() {
				t.store.SetState(slot[0], storage.StateReidable)
				t.store.SetFrameID(slot[0], frame)
				newlyReidable.add(id)
			}
		}
		reidableCandidates := sortedIDs(union(oldReidable, newlyReidable))
		for _, id := range reidableCandidates {
			slot, err := t.store.Manager().SlotsFor([]int{id}, false)
			if err != nil || t.store.State(slot[0]) != storage.StateReidable {
				continue
			}
			if frame-t.store.FrameID(slot[0]) > t.cfg.maxFramesReidable() {
				t.store.SetState(slot[0], storage.StateRemoved)
				removedThisFrame.add(id)
			}
		}
	} else {
		for _, id := range lostCandidates {
			slot, err := t.store.Manager().SlotsFor([]int{id}, false)
			if err != nil || t.store.State(slot[0]) != storage.StateLost {
				continue
			}
			if frame-t.store.FrameID(slot[0]) > t.cfg.maxFramesLost() {
				t.store.SetState(slot[0], storage.StateRemoved)
				removedThisFrame.add(id)
			}
		}
	}

	newActive := idSet{}
	for _, id := range sortedIDs(oldActive) {
		slot, err := t.store.Manager().SlotsFor([]int{id}, false)
		if err == nil && t.store.State(slot[0]) == storage.StateTracked {
			newActive.add(id)
		}
	}
	newActive = union(newActive, activatedThisFrame, reactivatedThisFrame)

	// Derive lost/reidable by re-checking current state rather than by
	// pure set algebra on the old pools: a track minted into newlyLost
	// this frame may already have been promoted straight to Reidable (or
	// even Removed) later in this same step 7, and only a state check
	// reflects that correctly.
	newLost := idSet{}
	for _, id := range sortedIDs(union(oldLost, newlyLost)) {
		slot, err := t.store.Manager().SlotsFor([]int{id}, false)
		if err == nil && t.store.State(slot[0]) == storage.StateLost {
			newLost.add(id)
		}
	}
	newReidable := idSet{}
	for _, id := range sortedIDs(union(oldReidable, newlyReidable)) {
		slot, err := t.store.Manager().SlotsFor([]int{id}, false)
		if err == nil && t.store.State(slot[0]) == storage.StateReidable {
			newReidable.add(id)
		}
	}
	newRemoved := union(oldRemoved, removedThisFrame)

	t.removeDuplicates(newActive, newLost, frame)

	if t.cfg.CleanupEvery > 0 && frame%t.cfg.CleanupEvery == 0 {
		save := union(newActive, newLost, newReidable)
		saveMap := make(map[int]struct{}, len(save))
		for id := range save {
			saveMap[id] = struct{}{}
		}
		t.store.Cleanup(saveMap)
		newRemoved = intersection(newRemoved, save)
	}

	t.active, t.lost, t.reidable, t.removed = newActive, newLost, newReidable, newRemoved
	t.frameID = frame

	outputs := t.emit(newActive)
	return outputs, nil
}

func (t *Tracker) emit(active idSet) []Output {
	ids := sortedIDs(active)
	type slotted struct {
		id   int
		slot int
	}
	rows := make([]slotted, 0, len(ids))
	for _, id := range ids {
		slot, err := t.store.Manager().SlotsFor([]int{id}, false)
		if err != nil {
			continue
		}
		if t.store.IsActivated(slot[0]) {
			rows = append(rows, slotted{id: id, slot: slot[0]})
		}
	}
	// Output in storage-slot order: stable within a frame, per spec.md §4.6 step 8.
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j-1].slot > rows[j].slot; j-- {
			rows[j-1], rows[j] = rows[j], rows[j-1]
		}
	}

	outputs := make([]Output, len(rows))
	for i, r := range rows {
		box := t.store.Box(r.slot).ToXYXY()
		outputs[i] = Output{
			Box:   box,
			ID:    r.id,
			Conf:  t.store.Conf(r.slot),
			Class: t.store.EstimatedClass(r.slot),
			DetID: t.store.DetID(r.slot),
		}
	}
	return outputs
}

// removeDuplicates drops the shorter-lived track from every near-
// identical active/lost pair (spec.md §4.6's "Duplicate suppression"),
// mutating the two sets in place.
func (t *Tracker) removeDuplicates(active, lost idSet, frame int) {
	activeIDs := sortedIDs(active)
	lostIDs := sortedIDs(lost)
	dropActive := newIDSet()
	dropLost := newIDSet()
	for _, idA := range activeIDs {
		if dropActive.has(idA) {
			continue
		}
		slotA, errA := t.store.Manager().SlotsFor([]int{idA}, false)
		if errA != nil {
			continue
		}
		for _, idB := range lostIDs {
			if dropLost.has(idB) {
				continue
			}
			slotB, errB := t.store.Manager().SlotsFor([]int{idB}, false)
			if errB != nil {
				continue
			}
			iou := geometry.IoU([]geometry.Rect{t.store.Box(slotA[0])}, []geometry.Rect{t.store.Box(slotB[0])})[0][0]
			if 1-iou >= duplicateIoUDistThresh {
				continue
			}
			lifeA := t.store.Lifetime(slotA[0], frame)
			lifeB := t.store.Lifetime(slotB[0], frame)
			if lifeA > lifeB {
				dropLost.add(idB)
			} else {
				dropActive.add(idA)
				break
			}
		}
	}
	for id := range dropActive {
		active.remove(id)
	}
	for id := range dropLost {
		lost.remove(id)
	}
}

func (t *Tracker) validate(dets []Detection, embs [][]float64) error {
	for _, d := range dets {
		if d.Conf < 0 || d.Conf > 1 {
			return errors.Wrapf(ErrInvalidInput, "conf=%v out of [0,1]", d.Conf)
		}
		if d.Class < 0 {
			return errors.Wrapf(ErrInvalidInput, "negative class=%d", d.Class)
		}
		if isNaNBox(d.Box) {
			return errors.Wrap(ErrInvalidInput, "NaN box coordinate")
		}
	}
	if embs != nil {
		if len(embs) != len(dets) {
			return errors.Wrapf(ErrShapeMismatch, "embs rows=%d dets rows=%d", len(embs), len(dets))
		}
		dim := t.embDim
		for _, row := range embs {
			if len(row) == 0 {
				continue
			}
			if dim == 0 {
				dim = len(row)
			} else if len(row) != dim {
				return errors.Wrapf(ErrShapeMismatch, "embedding dim changed from %d to %d", dim, len(row))
			}
		}
		t.embDim = dim
	}
	return nil
}

// dropNonFinite removes every slot whose Kalman state has drifted to
// NaN/Inf (spec.md §7's KalmanNumerical degradation) from the pool
// about to be used for association, marking the track Removed and
// logging a warning, without interrupting the cascade — a single bad
// track never aborts the frame.
func (t *Tracker) dropNonFinite(ids, slots []int, frame int, removedThisFrame idSet) ([]int, []int) {
	keptIDs := make([]int, 0, len(ids))
	keptSlots := make([]int, 0, len(slots))
	for i, slot := range slots {
		if motion.IsFinite(t.store.Mean(slot), t.store.Cov(slot)) {
			keptIDs = append(keptIDs, ids[i])
			keptSlots = append(keptSlots, slot)
			continue
		}
		t.store.SetState(slot, storage.StateRemoved)
		removedThisFrame.add(ids[i])
		t.cfg.logger().Warn("kalman state is non-finite, removing track",
			zap.String("tracker_id", t.instanceID),
			zap.Int("track_id", ids[i]),
			zap.Int("frame", frame),
			zap.NamedError("kind", ErrKalmanNumerical),
		)
	}
	return keptIDs, keptSlots
}

func isNaNBox(b geometry.Box) bool {
	return math.IsNaN(b.X1) || math.IsNaN(b.Y1) || math.IsNaN(b.X2) || math.IsNaN(b.Y2)
}

func removeFrameDetsAt(dets []frameDet, drop idSet) []frameDet {
	out := make([]frameDet, 0, len(dets))
	for i, d := range dets {
		if !drop.has(i) {
			out = append(out, d)
		}
	}
	return out
}

func removeEmbsAt(embs [][]float64, drop idSet) [][]float64 {
	if embs == nil {
		return nil
	}
	out := make([][]float64, 0, len(embs))
	for i, e := range embs {
		if !drop.has(i) {
			out = append(out, e)
		}
	}
	return out
}

func indexOfFrameDet(dets []frameDet, target frameDet) int {
	for i, d := range dets {
		if d.idx == target.idx {
			return i
		}
	}
	return -1
}
