package ingest

import (
	"errors"
	"strings"
)

// Default chunk window, in whitespace-delimited tokens.
const (
	DefaultWindow  = 400
	DefaultOverlap = 50
)

// Piece is one window of a document.
type Piece struct {
	Sequence int
	Text     string
}

// Chunker slides a fixed window over the tokens of a text.
type Chunker struct {
	Window  int `yaml:"window"`
	Overlap int `yaml:"overlap"`
}

// NewChunker returns a Chunker with the default window and overlap.
func NewChunker() Chunker {
	return Chunker{Window: DefaultWindow, Overlap: DefaultOverlap}
}

// Validate checks the window settings.
func (c Chunker) Validate() error {
	if c.Window <= 0 {
		return errors.New("chunk window must be > 0")
	}
	if c.Overlap < 0 || c.Overlap >= c.Window {
		return errors.New("chunk overlap must be >= 0 and < window")
	}
	return nil
}

// Split cuts text into overlapping windows numbered from zero. The last
// window ends at the final token; empty text yields nothing.
func (c Chunker) Split(text string) ([]Piece, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	step := c.Window - c.Overlap
	var pieces []Piece
	for start := 0; start < len(tokens); start += step {
		end := min(start+c.Window, len(tokens))
		pieces = append(pieces, Piece{
			Sequence: len(pieces),
			Text:     strings.Join(tokens[start:end], " "),
		})
		if end == len(tokens) {
			break
		}
	}
	return pieces, nil
}
