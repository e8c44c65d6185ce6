package tracker

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Fleyderer/boxmot/internal/motion"
)

// PerClassTracker replicates the cascade once per observed detection
// class (spec.md §6's "per-class mode"), routing each frame's
// detections to the Tracker for their class and concatenating the
// outputs in ascending class order. Every per-class Tracker shares a single
// monotonic id counter, so two tracks in different classes never
// collide on id the way two independent Trackers would.
type PerClassTracker struct {
	cfg           Config
	filterFactory func() motion.Filter
	extractor     Extractor
	ecc           CameraMotionEstimator
	instanceID    string

	trackers map[int]*Tracker
	maxID    int
}

// NewPerClassTracker builds a router. filterFactory must return a
// fresh motion.Filter each call, since every class needs its own
// unshared filter instance.
func NewPerClassTracker(cfg Config, filterFactory func() motion.Filter, extractor Extractor, ecc CameraMotionEstimator) *PerClassTracker {
	return &PerClassTracker{
		cfg:           cfg,
		filterFactory: filterFactory,
		extractor:     extractor,
		ecc:           ecc,
		instanceID:    uuid.NewString(),
		trackers:      make(map[int]*Tracker),
	}
}

// Update splits dets by Class, feeds each subset (in ascending class
// order, for determinism) to its class's Tracker, and concatenates the
// results. Classes with a live tracker but no detections this frame
// still run an empty Update so their lifecycle tick (Lost/Reidable
// aging) advances in step with every other class.
func (p *PerClassTracker) Update(dets []Detection, image []byte, embs [][]float64) ([]Output, error) {
	byClass := make(map[int][]int)
	classSeen := make(map[int]bool)
	var classes []int
	for i, d := range dets {
		if !classSeen[d.Class] {
			classSeen[d.Class] = true
			classes = append(classes, d.Class)
		}
		byClass[d.Class] = append(byClass[d.Class], i)
	}
	for c := range p.trackers {
		if !classSeen[c] {
			classSeen[c] = true
			classes = append(classes, c)
		}
	}
	sort.Ints(classes)

	var outputs []Output
	for _, c := range classes {
		tr, ok := p.trackers[c]
		if !ok {
			var err error
			tr, err = New(p.cfg, p.filterFactory(), p.extractor, p.ecc)
			if err != nil {
				return nil, err
			}
			tr.store.Manager().SeedMaxID(p.maxID)
			p.trackers[c] = tr
		}

		idxs := byClass[c]
		classDets := make([]Detection, len(idxs))
		var classEmbs [][]float64
		if embs != nil {
			classEmbs = make([][]float64, len(idxs))
		}
		for i, idx := range idxs {
			classDets[i] = dets[idx]
			if embs != nil {
				classEmbs[i] = embs[idx]
			}
		}

		outs, err := tr.Update(classDets, image, classEmbs)
		if err != nil {
			return nil, err
		}
		for i := range outs {
			outs[i].DetID = idxs[outs[i].DetID]
		}
		outputs = append(outputs, outs...)

		if m := tr.store.Manager().MaxID(); m > p.maxID {
			p.maxID = m
		}
	}

	return outputs, nil
}

// Reset discards every per-class Tracker and the shared id counter,
// for an explicit new-video boundary.
func (p *PerClassTracker) Reset() {
	p.trackers = make(map[int]*Tracker)
	p.maxID = 0
}
