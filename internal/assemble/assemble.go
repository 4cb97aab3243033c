// Package assemble turns a correct answer and its distractors into a
// shuffled four-option set.
package assemble

import (
	"errors"
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

const (
	// MaxOptionLen is the longest option kept verbatim, in characters.
	MaxOptionLen = 200

	ellipsis = "..."
)

// ErrDuplicateOption is returned when the four options are not pairwise
// distinct after truncation.
var ErrDuplicateOption = errors.New("options are not pairwise distinct")

// Options is an assembled answer set.
type Options struct {
	Options      [4]string
	CorrectIndex int
}

// Truncate caps s at MaxOptionLen characters, cutting to 197 and adding
// an ellipsis when longer.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxOptionLen {
		return s
	}
	r := []rune(s)
	return string(r[:MaxOptionLen-len(ellipsis)]) + ellipsis
}

// Normalize is the comparison key for duplicate detection: trimmed and
// case folded.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Assemble truncates every option, shuffles correct and distractors
// uniformly with rng and records where the correct answer landed.
// A nil rng uses the global source.
func Assemble(correct string, distractors [3]string, rng *rand.Rand) (Options, error) {
	var out Options
	out.Options[0] = Truncate(correct)
	for i, d := range distractors {
		out.Options[i+1] = Truncate(d)
	}

	seen := make(map[string]bool, len(out.Options))
	for _, o := range out.Options {
		key := Normalize(o)
		if seen[key] {
			return Options{}, ErrDuplicateOption
		}
		seen[key] = true
	}

	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	correctText := out.Options[0]
	shuffle(len(out.Options), func(i, j int) {
		out.Options[i], out.Options[j] = out.Options[j], out.Options[i]
	})

	for i, o := range out.Options {
		if o == correctText {
			out.CorrectIndex = i
			break
		}
	}
	return out, nil
}
