package ffprobe

import (
	"fmt"
	"strconv"
	"strings"
)

// FrameRate is a reduced rational frame rate. A zero Den marks a value that
// could not be parsed; Raw keeps the original text for display.
type FrameRate struct {
	Num int64
	Den int64
	Raw string
}

// ParseFrameRate parses "num/den" or a bare integer rate. Unparseable text,
// a zero numerator or a zero denominator yields an invalid FrameRate.
func ParseFrameRate(s string) FrameRate {
	raw := strings.TrimSpace(s)
	invalid := FrameRate{Raw: raw}

	numStr, denStr, found := strings.Cut(raw, "/")
	if !found {
		denStr = "1"
	}
	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return invalid
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 64)
	if err != nil || den <= 0 || num <= 0 {
		return invalid
	}

	g := gcd(num, den)
	return FrameRate{Num: num / g, Den: den / g, Raw: raw}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Valid reports whether the rate parsed to a positive rational.
func (f FrameRate) Valid() bool {
	return f.Den > 0
}

// Float returns the rate in frames per second, or 0 when invalid.
func (f FrameRate) Float() float64 {
	if !f.Valid() {
		return 0
	}
	return float64(f.Num) / float64(f.Den)
}

// Equal compares reduced rationals; two invalid rates are equal when their raw
// text matches.
func (f FrameRate) Equal(o FrameRate) bool {
	if f.Valid() != o.Valid() {
		return false
	}
	if !f.Valid() {
		return f.Raw == o.Raw
	}
	return f.Num == o.Num && f.Den == o.Den
}

func (f FrameRate) String() string {
	if !f.Valid() {
		if f.Raw == "" {
			return "unknown"
		}
		return f.Raw
	}
	if f.Den == 1 {
		return strconv.FormatInt(f.Num, 10)
	}
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}
