package tracker

import "github.com/Fleyderer/boxmot/internal/geometry"

// Detection is one per-frame input row: an xyxy box with a detector
// confidence and class (spec.md §6).
type Detection struct {
	Box   geometry.Box
	Conf  float64
	Class int
}

// Output is one emitted row: the track's current xyxy box, its
// persistent id, the matched detection's conf, the track's class
// estimate (last or vote, per Config.ClassMode), and the original
// detection index it was matched to this frame (spec.md §6).
type Output struct {
	Box   geometry.Box
	ID    int
	Conf  float64
	Class int
	DetID int
}

// Extractor is the injected appearance-embedding dependency: given
// xyxy boxes and the current frame image, return one embedding row
// per box (spec.md §6).
type Extractor interface {
	Extract(boxes []geometry.Box, image []byte) ([][]float64, error)
}

// CameraMotionEstimator is the injected camera-motion dependency:
// given the current frame image and its frame id, return the 3x3
// homography mapping the previous frame's coordinates into the
// current frame (spec.md §6).
type CameraMotionEstimator interface {
	Estimate(image []byte, frameID int) ([3][3]float64, error)
}
