// Package batch runs a sequence of mix jobs, one external process at a time.
package batch

import (
	"time"

	"github.com/five82/drymix/internal/ffmpeg"
	"github.com/five82/drymix/internal/ordering"
)

// State is a job's position in its lifecycle.
type State int

const (
	StatePending State = iota
	StateShuffled
	StateExpanded
	StateNormalizing
	StateManifestBuilt
	StateFinalizing
	StateDone
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateShuffled:
		return "shuffled"
	case StateExpanded:
		return "expanded"
	case StateNormalizing:
		return "normalizing"
	case StateManifestBuilt:
		return "manifest built"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateCancelled || s == StateFailed
}

// Job is one output file being built.
type Job struct {
	Index      int
	Clips      []string
	OutputPath string
	WorkDir    string
	State      State
}

// Options describes a batch.
type Options struct {
	Clips      []string
	OutputPath string
	Jobs       int

	ShuffleEachJob bool
	ShuffleMode    ordering.Mode
	// BlockSize 0 infers the block size for each job.
	BlockSize int

	TargetSeconds int
	Fixed         bool
	Autofill      bool

	// Normalize re-encodes every clip before joining unless the plan is a stream copy.
	Normalize bool
	Plan      ffmpeg.PlanOptions

	AudioPath    string
	AudioBitrate string
	TrimToAudio  bool

	// KeepWorkDir leaves a failed job's work directory in place.
	KeepWorkDir bool
}

// Summary is the outcome of a batch.
type Summary struct {
	RunID     string
	Outputs   []string
	Completed int
	Total     int
	Cancelled bool
	Elapsed   time.Duration
}
