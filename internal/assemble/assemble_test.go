package assemble

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantLen int
		suffix  bool
	}{
		{"short", "NAT gateway", 11, false},
		{"exactly max", strings.Repeat("a", 200), 200, false},
		{"one over", strings.Repeat("a", 201), 200, true},
		{"multibyte", strings.Repeat("é", 250), 200, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in)
			if n := utf8.RuneCountInString(got); n != tt.wantLen {
				t.Errorf("len = %d, want %d", n, tt.wantLen)
			}
			if strings.HasSuffix(got, "...") != tt.suffix {
				t.Errorf("ellipsis = %v, want %v", !tt.suffix, tt.suffix)
			}
		})
	}
}

func TestAssemble_InvariantsAcrossSeeds(t *testing.T) {
	correct := "Use a NAT gateway in a public subnet"
	distractors := [3]string{"Attach an internet gateway to the subnet", "Create a VPC peering link", "Enable S3 transfer acceleration"}

	positions := make(map[int]int)
	for seed := uint64(0); seed < 500; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*31+7))
		got, err := Assemble(correct, distractors, rng)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		seen := map[string]bool{}
		for _, o := range got.Options {
			seen[o] = true
		}
		if len(seen) != 4 {
			t.Fatalf("seed %d: options not unique: %v", seed, got.Options)
		}
		if got.Options[got.CorrectIndex] != correct {
			t.Fatalf("seed %d: options[%d] = %q, want correct answer", seed, got.CorrectIndex, got.Options[got.CorrectIndex])
		}
		positions[got.CorrectIndex]++
	}

	// A uniform shuffle puts the correct answer everywhere.
	for i := 0; i < 4; i++ {
		if positions[i] == 0 {
			t.Errorf("correct answer never landed at index %d", i)
		}
	}
}

func TestAssemble_TruncatesLongCorrectAnswer(t *testing.T) {
	long := strings.Repeat("x", 250)
	got, err := Assemble(long, [3]string{"a", "b", "c"}, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Options[got.CorrectIndex] != Truncate(long) {
		t.Fatalf("correct index does not point at the truncated answer")
	}
}

func TestAssemble_Duplicates(t *testing.T) {
	tests := []struct {
		name        string
		correct     string
		distractors [3]string
	}{
		{"exact", "A", [3]string{"A", "B", "C"}},
		{"case and space", "NAT Gateway", [3]string{" nat gateway ", "B", "C"}},
		{"among distractors", "A", [3]string{"B", "B", "C"}},
		{"equal after truncation", strings.Repeat("y", 210), [3]string{strings.Repeat("y", 205), "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.correct, tt.distractors, nil)
			if !errors.Is(err, ErrDuplicateOption) {
				t.Fatalf("expected ErrDuplicateOption, got %v", err)
			}
		})
	}
}
