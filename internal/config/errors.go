package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidDuration indicates a target duration that is not H:MM:SS.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidJobs indicates a job count outside 1-MaxJobs.
	ErrInvalidJobs = errors.New("job count out of range")

	// ErrInvalidCRF indicates a CRF value outside the valid 0-51 range.
	ErrInvalidCRF = errors.New("CRF value out of range")

	// ErrInvalidRepeat indicates a repeat count below 1.
	ErrInvalidRepeat = errors.New("repeat count out of range")

	// ErrInvalidBlockSize indicates a negative block size.
	ErrInvalidBlockSize = errors.New("block size out of range")

	// ErrInvalidOption indicates an unknown preset, mode or encoder name.
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidBitrate indicates an audio bitrate that ffmpeg would reject.
	ErrInvalidBitrate = errors.New("invalid audio bitrate")
)
