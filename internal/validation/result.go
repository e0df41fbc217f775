package validation

import "fmt"

// Result contains the overall validation result.
type Result struct {
	Exists              bool
	HasVideo            bool
	IsDurationCorrect   bool
	IsResolutionCorrect bool
	IsFrameRateCorrect  bool
	IsAudioCorrect      bool

	// Details
	SizeBytes         int64
	CodecName         string
	ActualDuration    *float64
	ExpectedDuration  *float64
	DurationMessage   string
	ActualWidth       int
	ResolutionMessage string
	FrameRateMessage  string
	AudioCodec        string
	AudioMessage      string
}

// ValidationStep represents a single validation check.
type ValidationStep struct {
	Name    string
	Passed  bool
	Details string
}

// IsValid returns true if all validation checks passed.
func (r *Result) IsValid() bool {
	return r.Exists &&
		r.HasVideo &&
		r.IsDurationCorrect &&
		r.IsResolutionCorrect &&
		r.IsFrameRateCorrect &&
		r.IsAudioCorrect
}

// GetValidationSteps returns all validation steps with results.
func (r *Result) GetValidationSteps() []ValidationStep {
	return []ValidationStep{
		{
			Name:    "Output file",
			Passed:  r.Exists,
			Details: formatSizeDetails(r.Exists, r.SizeBytes),
		},
		{
			Name:    "Video stream",
			Passed:  r.HasVideo,
			Details: formatCodecDetails(r.CodecName),
		},
		{
			Name:    "Duration",
			Passed:  r.IsDurationCorrect,
			Details: r.DurationMessage,
		},
		{
			Name:    "Resolution",
			Passed:  r.IsResolutionCorrect,
			Details: r.ResolutionMessage,
		},
		{
			Name:    "Frame rate",
			Passed:  r.IsFrameRateCorrect,
			Details: r.FrameRateMessage,
		},
		{
			Name:    "Audio",
			Passed:  r.IsAudioCorrect,
			Details: r.AudioMessage,
		},
	}
}

// GetFailures returns descriptions of failed validation checks.
func (r *Result) GetFailures() []string {
	var failures []string
	for _, step := range r.GetValidationSteps() {
		if !step.Passed {
			failures = append(failures, step.Name+": "+step.Details)
		}
	}
	return failures
}

func formatSizeDetails(exists bool, size int64) string {
	if !exists {
		return "missing or empty"
	}
	return fmt.Sprintf("%d bytes", size)
}

func formatCodecDetails(codec string) string {
	if codec == "" {
		return "no video stream found"
	}
	return codec
}
