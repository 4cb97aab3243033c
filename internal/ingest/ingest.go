package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/abhisek/certgen/internal/store"
)

// ChunkStore persists a file's chunks.
type ChunkStore interface {
	ReplaceChunks(ctx context.Context, fileName string, chunks []store.Chunk) error
}

// Ingester extracts, chunks and stores documents.
type Ingester struct {
	extractor Extractor
	chunker   Chunker
	store     ChunkStore
	log       *zap.Logger
}

// NewIngester creates an Ingester. A nil logger disables logging.
func NewIngester(e Extractor, c Chunker, s ChunkStore, log *zap.Logger) *Ingester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingester{extractor: e, chunker: c, store: s, log: log}
}

// IngestFile replaces the stored chunks of path's base name with a fresh
// split of its text and returns the number of chunks written.
func (in *Ingester) IngestFile(ctx context.Context, path string) (int, error) {
	text, err := in.extractor.Extract(path)
	if err != nil {
		return 0, err
	}
	pieces, err := in.chunker.Split(text)
	if err != nil {
		return 0, fmt.Errorf("chunk %s: %w", path, err)
	}

	name := filepath.Base(path)
	chunks := make([]store.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = store.Chunk{FileName: name, Sequence: p.Sequence, Text: p.Text}
	}
	if err := in.store.ReplaceChunks(ctx, name, chunks); err != nil {
		return 0, fmt.Errorf("store chunks of %s: %w", name, err)
	}

	in.log.Info("document ingested", zap.String("file", name), zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}
