// Package tracker implements the per-frame multi-object tracking
// cascade: ReID reactivation, two-stage confidence-gated association,
// unconfirmed-track resolution, birth, and lifecycle management. It
// is the public entry point of the module, orchestrating
// internal/geometry, internal/assignment, internal/motion,
// internal/embedding and internal/storage the way
// _examples/LdDl-mot-go/mot/bytetrack.go's ByteTracker orchestrates
// its own mot package, generalized to the full cascade.
package tracker

import (
	"go.uber.org/zap"

	"github.com/Fleyderer/boxmot/internal/embedding"
	"github.com/Fleyderer/boxmot/internal/storage"
)

// Config is the tracker's full configuration surface, mirroring the
// original's PureTrackNew constructor arguments
// (_examples/original_source/boxmot/trackers/puretracker/puretrack.py).
type Config struct {
	// Confidence gates for the ingest split (spec.md §4.6 step 0).
	TrackHighThresh float64
	TrackLowThresh  float64
	TrackNewThresh  float64

	// MatchThresh caps the first-association cost.
	MatchThresh float64

	// Cross-gating thresholds between IoU and embedding costs in the
	// first association stage (spec.md §4.6 step 3.d).
	IoUEmbThresh float64
	EmbIoUThresh float64
	EmbThresh    float64

	// VRThresh gates whether a matched detection is "pure" (unoccluded
	// enough) to feed pure_emb.
	VRThresh float64

	// EmbReIDThresh caps the cost of appearance-only ReID reactivation.
	EmbReIDThresh float64

	// MaxTimeLost and MaxTimeReidable are TTLs in seconds, converted to
	// frames via FrameRate (spec.md §9's frozen units decision).
	MaxTimeLost     float64
	MaxTimeReidable float64
	FrameRate       int

	// Feature toggles.
	WithReID            bool
	WithECC             bool
	WithEmbReactivation bool
	UseMahalanobisGate  bool

	// Embedding aggregation policy (spec.md §4.5).
	EmbMode     embedding.Mode
	EmbEMAAlpha float64
	EmbMaxLen   int

	// Per-track class estimation policy (spec.md §4.7).
	ClassMode   storage.ClassMode
	ClassMaxLen int

	// CleanupEvery is the periodic compaction interval, in frames.
	CleanupEvery int

	// StorageInitialCapacity seeds the SoA's starting slot count.
	StorageInitialCapacity int

	// StorageMaxCapacity caps how far the store may grow past
	// StorageInitialCapacity. Zero means unbounded growth. A positive
	// value makes Update return ErrStorageFull once births would need
	// to exceed it, instead of growing indefinitely (spec.md §7).
	StorageMaxCapacity int

	// Logger receives structured warnings for per-track numerical
	// degradation (spec.md §7's KalmanNumerical policy). A nil Logger
	// is replaced by zap.NewNop() so callers never need to guard it.
	Logger *zap.Logger
}

// maxFramesLost converts MaxTimeLost (seconds) to a frame count.
func (c Config) maxFramesLost() int {
	return int(c.MaxTimeLost * float64(c.FrameRate))
}

// maxFramesReidable converts MaxTimeReidable (seconds) to a frame count.
func (c Config) maxFramesReidable() int {
	return int(c.MaxTimeReidable * float64(c.FrameRate))
}

// DefaultConfig returns a fully populated Config with the thresholds
// the original project ships by default, mirroring the teacher's
// DefaultByteTracker() constructor pattern.
func DefaultConfig() Config {
	return Config{
		TrackHighThresh: 0.6,
		TrackLowThresh:  0.1,
		TrackNewThresh:  0.7,
		MatchThresh:     0.8,

		IoUEmbThresh: 0.5,
		EmbIoUThresh: 0.5,
		EmbThresh:    0.25,

		VRThresh: 0.5,

		EmbReIDThresh: 0.3,

		MaxTimeLost:     30.0 / 30.0,
		MaxTimeReidable: 60.0 / 30.0,
		FrameRate:       30,

		WithReID:           false,
		WithECC:             false,
		WithEmbReactivation: false,
		UseMahalanobisGate:  false,

		EmbMode:     embedding.ModeEMA,
		EmbEMAAlpha: 0.9,
		EmbMaxLen:   10,

		ClassMode:   storage.ClassModeLast,
		ClassMaxLen: 10,

		CleanupEvery:           30,
		StorageInitialCapacity: 64,
		StorageMaxCapacity:     0,

		Logger: zap.NewNop(),
	}
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
