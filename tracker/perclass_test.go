package tracker

import "testing"

func TestPerClassTrackerSharesIDCounter(t *testing.T) {
	cfg := DefaultConfig()
	pc := NewPerClassTracker(cfg, newFilter, nil, nil)

	outs, err := pc.Update([]Detection{
		{Box: box(0, 0, 10, 10), Conf: 0.9, Class: 0},
		{Box: box(100, 100, 110, 110), Conf: 0.9, Class: 1},
	}, nil, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(outs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(outs))
	}

	seen := map[int]bool{}
	for _, o := range outs {
		if seen[o.ID] {
			t.Fatalf("duplicate id %d across classes", o.ID)
		}
		seen[o.ID] = true
	}
	if !(seen[1] && seen[2]) {
		t.Fatalf("expected ids {1,2} shared across classes, got %v", outs)
	}
}

func TestPerClassTrackerRemapsDetID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrackNewThresh = 0.1
	pc := NewPerClassTracker(cfg, newFilter, nil, nil)

	dets := []Detection{
		{Box: box(0, 0, 10, 10), Conf: 0.9, Class: 5},
		{Box: box(200, 200, 210, 210), Conf: 0.9, Class: 2},
		{Box: box(300, 300, 310, 310), Conf: 0.9, Class: 5},
	}
	outs, err := pc.Update(dets, nil, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(outs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(outs))
	}
	seenDetIDs := map[int]bool{}
	for _, o := range outs {
		if o.DetID < 0 || o.DetID >= len(dets) {
			t.Fatalf("det_id %d out of range", o.DetID)
		}
		if seenDetIDs[o.DetID] {
			t.Fatalf("det_id %d reused across outputs", o.DetID)
		}
		seenDetIDs[o.DetID] = true
		if o.Class != dets[o.DetID].Class {
			t.Errorf("output for det_id %d landed in class %d, want %d", o.DetID, o.Class, dets[o.DetID].Class)
		}
	}
}

func TestPerClassTrackerAdvancesIdleClasses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameRate = 1
	cfg.MaxTimeLost = 1.0
	pc := NewPerClassTracker(cfg, newFilter, nil, nil)

	if _, err := pc.Update([]Detection{{Box: box(0, 0, 10, 10), Conf: 0.9, Class: 0}}, nil, nil); err != nil {
		t.Fatalf("frame 1: %v", err)
	}
	// Class 0 sees no detections on frames 2-4; its Tracker must still
	// be ticked so the track ages toward Removed rather than freezing.
	for f := 0; f < 3; f++ {
		if _, err := pc.Update(nil, nil, nil); err != nil {
			t.Fatalf("idle frame %d: %v", f, err)
		}
	}
	tr := pc.trackers[0]
	if tr.active.has(1) {
		t.Errorf("expected the idle track to have left the active pool after 3 empty ticks")
	}
}
