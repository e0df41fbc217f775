// Package ordering shuffles clip lists for a mix.
//
// Every function returns a new slice and leaves its input untouched.
package ordering

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// maxPeriod bounds the periodicity search in InferBlockSize.
const maxPeriod = 500

// Mode selects how a clip list is shuffled.
type Mode string

const (
	// ModeFull is a uniform permutation of the whole list.
	ModeFull Mode = "full"
	// ModeBlock shuffles within blocks and keeps equal clips apart.
	ModeBlock Mode = "block"
)

// ParseMode parses a shuffle mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "":
		return ModeFull, nil
	case "block":
		return ModeBlock, nil
	default:
		return "", fmt.Errorf("unknown shuffle mode %q, valid options: full, block", s)
	}
}

func (m Mode) String() string {
	return string(m)
}

// Shuffler produces random orderings. It is not safe for concurrent use.
type Shuffler struct {
	rng *rand.Rand
}

// NewShuffler returns a Shuffler seeded from the runtime's random source.
func NewShuffler() *Shuffler {
	return &Shuffler{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededShuffler returns a Shuffler with a deterministic sequence.
func NewSeededShuffler(seed uint64) *Shuffler {
	return &Shuffler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Full returns a uniformly random permutation of list.
func (s *Shuffler) Full(list []string) []string {
	out := slices.Clone(list)
	s.shuffleInPlace(out)
	return out
}

func (s *Shuffler) shuffleInPlace(list []string) {
	for i := len(list) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		list[i], list[j] = list[j], list[i]
	}
}

// InferBlockSize estimates the length of the playlist that list repeats.
//
// The smallest proper period k (k divides len, k < len, k <= 500) wins. Without
// one, the result is the number of clips before the first repeated clip, or the
// full length when nothing repeats. An empty list yields 0.
func InferBlockSize(list []string) int {
	n := len(list)
	if n == 0 {
		return 0
	}

	limit := min(n-1, maxPeriod)
	for k := 1; k <= limit; k++ {
		if n%k == 0 && hasPeriod(list, k) {
			return k
		}
	}

	seen := make(map[string]struct{}, n)
	for i, clip := range list {
		if _, ok := seen[clip]; ok {
			return i
		}
		seen[clip] = struct{}{}
	}
	return n
}

func hasPeriod(list []string, k int) bool {
	for i := k; i < len(list); i++ {
		if list[i] != list[i%k] {
			return false
		}
	}
	return true
}

// BlockAntiSeam shuffles each contiguous block of blockSize clips independently.
// When a block would start with the clip that ended the previous block, the first
// differing clip of the block is swapped to the front. A block made only of that
// clip keeps the seam duplicate. blockSize <= 0 falls back to Full.
func (s *Shuffler) BlockAntiSeam(list []string, blockSize int) []string {
	if blockSize <= 0 {
		return s.Full(list)
	}

	out := slices.Clone(list)
	for start := 0; start < len(out); start += blockSize {
		end := min(start+blockSize, len(out))
		block := out[start:end]
		s.shuffleInPlace(block)

		if start == 0 || block[0] != out[start-1] {
			continue
		}
		boundary := out[start-1]
		for j := 1; j < len(block); j++ {
			if block[j] != boundary {
				block[0], block[j] = block[j], block[0]
				break
			}
		}
	}
	return out
}

// EnforceNoAdjacentDuplicates makes one greedy pass that swaps a later differing
// clip into any position equal to its predecessor. When no such clip remains the
// duplicate stays, so heavily repetitive lists can still contain adjacent pairs.
func EnforceNoAdjacentDuplicates(list []string) []string {
	out := slices.Clone(list)
	for i := 1; i < len(out); i++ {
		if out[i] != out[i-1] {
			continue
		}
		for j := i + 1; j < len(out); j++ {
			if out[j] != out[i-1] {
				out[i], out[j] = out[j], out[i]
				break
			}
		}
	}
	return out
}

// Shuffle reorders list according to mode. In block mode a blockSize <= 0 is
// inferred from list.
func (s *Shuffler) Shuffle(list []string, mode Mode, blockSize int) []string {
	if mode != ModeBlock {
		return s.Full(list)
	}
	if blockSize <= 0 {
		blockSize = InferBlockSize(list)
	}
	return EnforceNoAdjacentDuplicates(s.BlockAntiSeam(list, blockSize))
}

// Repeat returns list concatenated n times. n < 1 is treated as 1.
func Repeat(list []string, n int) []string {
	n = max(n, 1)
	out := make([]string, 0, len(list)*n)
	for range n {
		out = append(out, list...)
	}
	return out
}

// RepeatSelected appends n-1 extra copies of the clips at indices, in index order.
// Out-of-range indices are ignored.
func RepeatSelected(list []string, indices []int, n int) []string {
	out := slices.Clone(list)
	var picked []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(list) {
			picked = append(picked, list[idx])
		}
	}
	for range max(n-1, 0) {
		out = append(out, picked...)
	}
	return out
}
