package storage

// ClassMode selects how a track's per-frame class observations are
// folded into a single estimate (spec.md §4.7), grounded on
// _examples/original_source/boxmot/trackers/puretrack/basetrack.py's
// ClassStorage.
type ClassMode int

const (
	// ClassModeLast reports the most recent observed class.
	ClassModeLast ClassMode = iota
	// ClassModeVote reports the class with the highest summed
	// confidence over a bounded history window.
	ClassModeVote
)

// ClassEstimator tracks a single track's class across frames.
type ClassEstimator struct {
	mode    ClassMode
	maxLen  int
	current int

	history []classObservation
	totals  map[int]float64
	// order records each distinct class's first-seen order, so the
	// arg-max scan below is deterministic (Go map iteration order is
	// not) and ties resolve to the earliest class, matching the
	// source's dict-insertion-order argmax.
	order []int
}

type classObservation struct {
	class int
	conf  float64
}

// NewClassEstimator seeds an estimator from a track's first observation.
func NewClassEstimator(mode ClassMode, maxLen int, class int, conf float64) *ClassEstimator {
	e := &ClassEstimator{mode: mode, maxLen: maxLen, current: class}
	if mode == ClassModeVote {
		e.history = []classObservation{{class: class, conf: conf}}
		e.totals = map[int]float64{class: conf}
		e.order = []int{class}
	}
	return e
}

func (e *ClassEstimator) addTotal(class int, conf float64) {
	if _, seen := e.totals[class]; !seen {
		e.order = append(e.order, class)
	}
	e.totals[class] += conf
}

// Update folds in a new observation.
func (e *ClassEstimator) Update(class int, conf float64) {
	if e.mode == ClassModeLast {
		e.current = class
		return
	}

	e.history = append(e.history, classObservation{class: class, conf: conf})
	e.addTotal(class, conf)

	if len(e.history) > e.maxLen {
		oldest := e.history[0]
		e.totals[oldest.class] -= oldest.conf
		e.history = e.history[1:]
	}

	best, bestConf := e.order[0], e.totals[e.order[0]]
	for _, c := range e.order[1:] {
		if total := e.totals[c]; total > bestConf {
			best, bestConf = c, total
		}
	}
	e.current = best
}

// Get returns the current class estimate.
func (e *ClassEstimator) Get() int {
	return e.current
}
