package ordering

import (
	"slices"
	"testing"
)

func sorted(list []string) []string {
	out := slices.Clone(list)
	slices.Sort(out)
	return out
}

func isPermutation(a, b []string) bool {
	return slices.Equal(sorted(a), sorted(b))
}

func hasAdjacentDuplicate(list []string) bool {
	for i := 1; i < len(list); i++ {
		if list[i] == list[i-1] {
			return true
		}
	}
	return false
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"full", ModeFull, false},
		{"", ModeFull, false},
		{"Block", ModeBlock, false},
		{" block ", ModeBlock, false},
		{"random", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFullIsPermutation(t *testing.T) {
	s := NewSeededShuffler(1)
	inputs := [][]string{
		nil,
		{"a"},
		{"a", "b", "c", "d", "e"},
		{"a", "a", "b", "b", "c"},
	}

	for _, in := range inputs {
		orig := slices.Clone(in)
		got := s.Full(in)
		if !isPermutation(got, in) {
			t.Errorf("Full(%v) = %v, not a permutation", in, got)
		}
		if !slices.Equal(in, orig) {
			t.Errorf("Full mutated its input: %v", in)
		}
	}
}

func TestFullCoversAllPermutations(t *testing.T) {
	s := NewSeededShuffler(42)
	seen := map[string]int{}
	for range 6000 {
		got := s.Full([]string{"a", "b", "c"})
		seen[got[0]+got[1]+got[2]]++
	}
	if len(seen) != 6 {
		t.Fatalf("saw %d distinct permutations, want 6", len(seen))
	}
	for perm, count := range seen {
		if count < 800 || count > 1200 {
			t.Errorf("permutation %s seen %d times, expected about 1000", perm, count)
		}
	}
}

func TestInferBlockSize(t *testing.T) {
	tests := []struct {
		name string
		list []string
		want int
	}{
		{"empty", nil, 0},
		{"single", []string{"A"}, 1},
		{"periodic two", []string{"A", "B", "A", "B", "A", "B"}, 2},
		{"no repeat", []string{"A", "B", "C", "D"}, 4},
		{"first repeat fallback", []string{"A", "B", "A", "C"}, 2},
		{"all same", []string{"A", "A", "A"}, 1},
		{"periodic three", []string{"A", "B", "C", "A", "B", "C"}, 3},
		{"non periodic tail", []string{"A", "B", "C", "A", "B"}, 3},
		{"repeat later", []string{"A", "B", "C", "B"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferBlockSize(tt.list); got != tt.want {
				t.Errorf("InferBlockSize(%v) = %d, want %d", tt.list, got, tt.want)
			}
		})
	}
}

func TestInferBlockSizeOfRepeat(t *testing.T) {
	base := []string{"a", "b", "c", "d", "e"}
	for n := 2; n <= 5; n++ {
		if got := InferBlockSize(Repeat(base, n)); got != len(base) {
			t.Errorf("InferBlockSize(Repeat(base, %d)) = %d, want %d", n, got, len(base))
		}
	}
}

func TestBlockAntiSeamKeepsBlockContents(t *testing.T) {
	s := NewSeededShuffler(7)
	list := []string{"a", "b", "c", "d", "e", "f", "g"}
	got := s.BlockAntiSeam(list, 3)

	if len(got) != len(list) {
		t.Fatalf("len = %d, want %d", len(got), len(list))
	}
	for start := 0; start < len(list); start += 3 {
		end := min(start+3, len(list))
		if !isPermutation(got[start:end], list[start:end]) {
			t.Errorf("block %d = %v, want permutation of %v", start/3, got[start:end], list[start:end])
		}
	}
}

func TestBlockAntiSeamNonPositiveFallsBackToFull(t *testing.T) {
	s := NewSeededShuffler(3)
	list := []string{"a", "b", "c", "d"}
	got := s.BlockAntiSeam(list, 0)
	if !isPermutation(got, list) {
		t.Errorf("BlockAntiSeam(list, 0) = %v, not a permutation", got)
	}
}

func TestBlockAntiSeamAvoidsSeams(t *testing.T) {
	base := []string{"a", "b", "c", "d"}
	list := Repeat(base, 5)
	for seed := range uint64(200) {
		s := NewSeededShuffler(seed)
		got := s.BlockAntiSeam(list, len(base))
		for start := len(base); start < len(got); start += len(base) {
			if got[start] == got[start-1] {
				t.Fatalf("seed %d: seam duplicate at %d in %v", seed, start, got)
			}
		}
	}
}

func TestBlockAntiSeamHomogeneousBlockKeepsDuplicate(t *testing.T) {
	s := NewSeededShuffler(1)
	got := s.BlockAntiSeam([]string{"a", "a", "a", "a"}, 2)
	if !slices.Equal(got, []string{"a", "a", "a", "a"}) {
		t.Errorf("BlockAntiSeam = %v", got)
	}
}

func TestEnforceNoAdjacentDuplicates(t *testing.T) {
	tests := []struct {
		name string
		list []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"already clean", []string{"a", "b", "a"}, []string{"a", "b", "a"}},
		{"swap forward", []string{"a", "a", "b"}, []string{"a", "b", "a"}},
		{"two pairs", []string{"a", "a", "b", "b", "c"}, []string{"a", "b", "a", "b", "c"}},
		// One greedy pass cannot fix a maximally repetitive tail.
		{"limitation", []string{"a", "a", "a"}, []string{"a", "a", "a"}},
		{"limitation tail", []string{"b", "a", "a", "a"}, []string{"b", "a", "a", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := slices.Clone(tt.list)
			got := EnforceNoAdjacentDuplicates(tt.list)
			if !slices.Equal(got, tt.want) {
				t.Errorf("EnforceNoAdjacentDuplicates(%v) = %v, want %v", tt.list, got, tt.want)
			}
			if !slices.Equal(tt.list, orig) {
				t.Error("input was mutated")
			}
		})
	}
}

func TestBlockShuffleOfRepeatedPlaylist(t *testing.T) {
	bases := [][]string{
		{"a", "b"},
		{"a", "b", "c"},
		{"a", "b", "c", "d", "e", "f"},
	}

	for _, base := range bases {
		for repeats := 2; repeats <= 6; repeats++ {
			list := Repeat(base, repeats)
			for seed := range uint64(50) {
				s := NewSeededShuffler(seed)
				got := s.Shuffle(list, ModeBlock, len(base))
				if !isPermutation(got, list) {
					t.Fatalf("Shuffle(%v) = %v, not a permutation", list, got)
				}
				if hasAdjacentDuplicate(got) {
					t.Fatalf("seed %d: adjacent duplicate in %v", seed, got)
				}
			}
		}
	}
}

func TestShuffleBlockInfersSize(t *testing.T) {
	list := Repeat([]string{"a", "b", "c"}, 4)
	for seed := range uint64(50) {
		got := NewSeededShuffler(seed).Shuffle(list, ModeBlock, 0)
		if hasAdjacentDuplicate(got) {
			t.Fatalf("seed %d: adjacent duplicate in %v", seed, got)
		}
		for start := 0; start < len(got); start += 3 {
			if !isPermutation(got[start:start+3], []string{"a", "b", "c"}) {
				t.Fatalf("seed %d: block %v is not one playlist pass", seed, got[start:start+3])
			}
		}
	}
}

func TestShuffleFullMode(t *testing.T) {
	list := []string{"a", "b", "c", "d"}
	got := NewSeededShuffler(9).Shuffle(list, ModeFull, 2)
	if !isPermutation(got, list) {
		t.Errorf("Shuffle full = %v, not a permutation", got)
	}
}

func TestSeededShufflerIsDeterministic(t *testing.T) {
	list := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	a := NewSeededShuffler(11).Full(list)
	b := NewSeededShuffler(11).Full(list)
	if !slices.Equal(a, b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}
}

func TestRepeat(t *testing.T) {
	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"a", "b"}},
		{1, []string{"a", "b"}},
		{3, []string{"a", "b", "a", "b", "a", "b"}},
	}
	for _, tt := range tests {
		if got := Repeat([]string{"a", "b"}, tt.n); !slices.Equal(got, tt.want) {
			t.Errorf("Repeat(n=%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestRepeatSelected(t *testing.T) {
	list := []string{"a", "b", "c"}
	got := RepeatSelected(list, []int{0, 2, 9, -1}, 3)
	want := []string{"a", "b", "c", "a", "c", "a", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("RepeatSelected = %v, want %v", got, want)
	}

	if got := RepeatSelected(list, []int{1}, 1); !slices.Equal(got, list) {
		t.Errorf("RepeatSelected with n=1 = %v, want %v", got, list)
	}
}
