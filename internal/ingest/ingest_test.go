package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/certgen/internal/store"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestChunker_Split(t *testing.T) {
	tests := []struct {
		name    string
		tokens  int
		window  int
		overlap int
		want    []string // first and last token of each piece
	}{
		{"empty", 0, 4, 1, nil},
		{"shorter than window", 3, 4, 1, []string{"w0-w2"}},
		{"exact window", 4, 4, 1, []string{"w0-w3"}},
		{"overlapping", 10, 4, 1, []string{"w0-w3", "w3-w6", "w6-w9"}},
		{"tail", 11, 4, 1, []string{"w0-w3", "w3-w6", "w6-w9", "w9-w10"}},
		{"no overlap", 6, 3, 0, []string{"w0-w2", "w3-w5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Chunker{Window: tt.window, Overlap: tt.overlap}
			pieces, err := c.Split(words(tt.tokens))
			require.NoError(t, err)
			require.Len(t, pieces, len(tt.want))
			for i, p := range pieces {
				f := strings.Fields(p.Text)
				assert.Equal(t, i, p.Sequence)
				assert.Equal(t, tt.want[i], f[0]+"-"+f[len(f)-1])
			}
		})
	}
}

func TestChunker_Defaults(t *testing.T) {
	c := NewChunker()
	pieces, err := c.Split(words(800))
	require.NoError(t, err)
	// Steps of 350: starts at 0, 350, 700.
	require.Len(t, pieces, 3)
	assert.Len(t, strings.Fields(pieces[0].Text), 400)
	assert.Equal(t, "w350", strings.Fields(pieces[1].Text)[0])
	assert.Len(t, strings.Fields(pieces[2].Text), 100)
}

func TestChunker_Invalid(t *testing.T) {
	for _, c := range []Chunker{{Window: 0}, {Window: 5, Overlap: 5}, {Window: 5, Overlap: -1}} {
		_, err := c.Split("a b c")
		assert.Error(t, err, "%+v", c)
	}
}

func TestFileExtractor(t *testing.T) {
	md := writeFile(t, "notes.md", "\ufeff# Title\r\nbody text\r\n")
	text, err := FileExtractor{}.Extract(md)
	require.NoError(t, err)
	assert.Equal(t, "# Title\nbody text\n", text)

	txt := writeFile(t, "NOTES.TXT", "plain")
	_, err = FileExtractor{}.Extract(txt)
	assert.NoError(t, err)
}

func TestFileExtractor_Failures(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		max  int64
	}{
		{"unsupported", writeFile(t, "doc.pdf", "%PDF"), 0},
		{"missing", filepath.Join(dir, "gone.md"), 0},
		{"blank", writeFile(t, "blank.txt", "  \n\t"), 0},
		{"invalid utf8", writeFile(t, "bin.txt", "\xff\xfe\xfd"), 0},
		{"too large", writeFile(t, "big.md", words(50)), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FileExtractor{MaxBytes: tt.max}.Extract(tt.path)
			assert.ErrorIs(t, err, ErrExtractionFailed)
		})
	}
}

func TestParseSummaries(t *testing.T) {
	list := `
- title: VPC guide
  topic: Networking
  summary: NAT gateways give private subnets outbound access.
  key_points: [NAT lives in a public subnet]
  domains: [networking, " Networking ", security, ""]
`
	mapping := `
summaries:
  - title: IAM basics
    summary: Roles grant temporary credentials.
    references: [IAM user guide]
`
	got, err := ParseSummaries([]byte(list))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "VPC guide", got[0].DocumentTitle)
	assert.Equal(t, []string{"networking", "security"}, got[0].DomainTags)
	assert.Equal(t, []string{"NAT lives in a public subnet"}, got[0].KeyPoints)

	got, err = ParseSummaries([]byte(mapping))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"IAM user guide"}, got[0].References)

	got, err = ParseSummaries(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseSummaries_Errors(t *testing.T) {
	for _, doc := range []string{"- title: no text\n", "just a string\n", "- [unclosed\n"} {
		_, err := ParseSummaries([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestImportSummaries_File(t *testing.T) {
	path := writeFile(t, "s.yaml", "- summary: one\n- summary: two\n")
	got, err := ImportSummaries(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = ImportSummaries(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestIngester_IngestFile(t *testing.T) {
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	repo := s.ContentRepo()
	ctx := context.Background()

	in := NewIngester(FileExtractor{}, Chunker{Window: 4, Overlap: 1}, repo, nil)
	path := writeFile(t, "guide.md", words(10))

	n, err := in.IngestFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Re-ingesting replaces the file's chunks.
	require.NoError(t, os.WriteFile(path, []byte(words(4)), 0o644))
	n, err = in.IngestFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	chunks, err := repo.GetChunks(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "guide.md", chunks[0].FileName)
	assert.Equal(t, "w0 w1 w2 w3", chunks[0].Text)
}

func TestIngester_ExtractionError(t *testing.T) {
	in := NewIngester(FileExtractor{}, NewChunker(), nil, nil)
	_, err := in.IngestFile(context.Background(), "slides.pptx")
	assert.True(t, errors.Is(err, ErrExtractionFailed))
}
