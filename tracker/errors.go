package tracker

import "github.com/pkg/errors"

// Error kinds from spec.md §7, wrapped in the teacher's
// github.com/pkg/errors idiom
// (_examples/LdDl-mot-go/mot/blob_bbox.go's errors.Wrap usage).
var (
	// ErrInvalidInput covers malformed dets: wrong shape, out-of-range
	// confidence, negative class, NaN coordinates.
	ErrInvalidInput = errors.New("tracker: invalid input")

	// ErrShapeMismatch covers embs whose row count doesn't match dets,
	// or an embedding dimension that changes across frames.
	ErrShapeMismatch = errors.New("tracker: embedding shape mismatch")

	// ErrExtractorFailure is returned when the injected Extractor fails.
	// The extractor's error message is attached to it; the extractor's
	// error value itself is not kept in the chain.
	ErrExtractorFailure = errors.New("tracker: embedding extractor failed")

	// ErrECCFailure is returned when the injected CameraMotionEstimator
	// fails. The estimator's error message is attached to it; the
	// estimator's error value itself is not kept in the chain.
	ErrECCFailure = errors.New("tracker: camera motion estimation failed")

	// ErrStorageFull is returned when track storage is full and growth
	// is disabled.
	ErrStorageFull = errors.New("tracker: track storage full")

	// ErrKalmanNumerical marks a non-finite mean/cov after a filter
	// step; the affected track degrades to Removed rather than failing
	// the frame (spec.md §7).
	ErrKalmanNumerical = errors.New("tracker: non-finite kalman state")
)
