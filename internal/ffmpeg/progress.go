package ffmpeg

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/five82/drymix/internal/util"
)

// Progress is parsed from an ffmpeg stats line.
type Progress struct {
	Frame       uint64
	ElapsedSecs float64
	Speed       float32
	// Percent is relative to the expected output duration, or 0 when unknown.
	Percent float32
}

var timeRegex = regexp.MustCompile(`time=\s*(\d{2,}:\d{2}:\d{2}\.?\d*)`)

// ParseProgressLine extracts progress from a stats line such as
// "frame=  240 fps= 60 ... time=00:00:08.00 ... speed=2.0x". Lines without
// a time field are not progress lines.
func ParseProgressLine(line string, expectedSecs float64) (Progress, bool) {
	matches := timeRegex.FindStringSubmatch(line)
	if len(matches) < 2 {
		return Progress{}, false
	}
	elapsed, ok := util.ParseFFmpegTime(matches[1])
	if !ok {
		return Progress{}, false
	}

	p := Progress{ElapsedSecs: elapsed}

	if v := fieldValue(line, "frame="); v != "" {
		if f, err := strconv.ParseUint(v, 10, 64); err == nil {
			p.Frame = f
		}
	}
	if v := strings.TrimSuffix(fieldValue(line, "speed="), "x"); v != "" {
		if s, err := strconv.ParseFloat(v, 32); err == nil {
			p.Speed = float32(s)
		}
	}

	if expectedSecs > 0 {
		p.Percent = min(float32(elapsed/expectedSecs*100), 100)
	}
	return p, true
}

// fieldValue returns the token following key, skipping ffmpeg's padding spaces.
func fieldValue(line, key string) string {
	idx := strings.Index(line, key)
	if idx < 0 {
		return ""
	}
	remaining := strings.TrimLeft(line[idx+len(key):], " ")
	if end := strings.IndexAny(remaining, " \t"); end >= 0 {
		remaining = remaining[:end]
	}
	return remaining
}
