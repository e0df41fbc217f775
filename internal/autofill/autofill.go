// Package autofill expands a clip list until it covers a target duration.
package autofill

import (
	"context"
	"log/slog"
	"slices"
)

const (
	// MinClipSeconds is credited for a clip whose duration is unknown or zero.
	MinClipSeconds = 1.0

	// UnknownPassSeconds is credited per full pass when no clip duration is known.
	UnknownPassSeconds = 60.0
)

// DurationProber reports the duration of a media file in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Expand cycles through list, appending clips until their summed duration reaches
// targetSeconds. Each distinct path is probed once. If no duration can be read the
// whole list is repeated, crediting UnknownPassSeconds per pass.
//
// An empty list yields an empty result and a non-positive target returns a copy of
// list. The only error returned is ctx's.
func Expand(ctx context.Context, list []string, targetSeconds float64, prober DurationProber) ([]string, error) {
	if len(list) == 0 {
		return []string{}, nil
	}
	if targetSeconds <= 0 {
		return slices.Clone(list), nil
	}

	durations := make(map[string]float64, len(list))
	known := false
	for _, clip := range list {
		if _, ok := durations[clip]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := prober.Duration(ctx, clip)
		if err != nil {
			slog.Debug("Duration probe failed", "clip", clip, "error", err)
			d = 0
		}
		if d > 0 {
			known = true
		}
		durations[clip] = d
	}

	var out []string
	total := 0.0
	if !known {
		for total < targetSeconds {
			out = append(out, list...)
			total += UnknownPassSeconds
		}
		return out, nil
	}

	for i := 0; total < targetSeconds; i++ {
		clip := list[i%len(list)]
		out = append(out, clip)
		if d := durations[clip]; d > 0 {
			total += d
		} else {
			total += MinClipSeconds
		}
	}
	return out, nil
}

// TotalSeconds sums the durations of list using prober, treating failures as zero.
func TotalSeconds(ctx context.Context, list []string, prober DurationProber) float64 {
	cache := make(map[string]float64, len(list))
	total := 0.0
	for _, clip := range list {
		d, ok := cache[clip]
		if !ok {
			if ctx.Err() != nil {
				return total
			}
			d, _ = prober.Duration(ctx, clip)
			if d < 0 {
				d = 0
			}
			cache[clip] = d
		}
		total += d
	}
	return total
}
