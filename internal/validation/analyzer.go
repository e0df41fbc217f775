// Package validation checks a finished mix against what its job asked for.
package validation

import (
	"context"

	"github.com/five82/drymix/internal/ffprobe"
)

// MediaAnalyzer reads the properties validation compares. ffprobe.Prober
// satisfies it; tests substitute a fake.
type MediaAnalyzer interface {
	// Duration returns the container duration in seconds.
	Duration(ctx context.Context, path string) (float64, error)

	// Signature returns the first video and audio stream properties.
	Signature(ctx context.Context, path string) (ffprobe.Signature, error)
}
