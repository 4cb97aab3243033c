package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/certgen/internal/retrieval"
	"github.com/abhisek/certgen/internal/store"
)

// genContext is the source material behind one question.
type genContext struct {
	Text       string
	Topic      string
	SummaryIDs []int64
	ChunkIDs   []int64
}

// resolveContext picks source material: least-used summaries for a
// domain, otherwise the chunks most relevant to the query. Without stored
// chunks the query is ranked against summaries instead.
func (o *Orchestrator) resolveContext(ctx context.Context, req Request) (*genContext, error) {
	if req.Domain != "" {
		summaries, err := o.balancer.PickLeastUsed(ctx, req.Domain, o.config.SummariesPerQuestion)
		if err != nil {
			return nil, fmt.Errorf("pick summaries: %w", err)
		}
		if len(summaries) == 0 {
			return nil, fmt.Errorf("%w: no summaries tagged %q", ErrNoContext, req.Domain)
		}
		return summaryContext(summaries), nil
	}

	chunks, err := o.store.GetChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) > 0 {
		return o.rankChunks(req.Query, chunks)
	}

	summaries, err := o.store.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}
	return o.rankSummaries(req.Query, summaries)
}

func (o *Orchestrator) rankChunks(query string, chunks []store.Chunk) (*genContext, error) {
	byID := make(map[int64]store.Chunk, len(chunks))
	docs := make([]retrieval.Document, len(chunks))
	for i, c := range chunks {
		byID[c.ID] = c
		docs[i] = retrieval.Document{ID: c.ID, Text: c.Text}
	}

	ranked := o.ranker.Rank(query, docs, o.config.TopK)
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: no chunk matches %q", ErrNoContext, query)
	}

	gc := &genContext{}
	var b strings.Builder
	for i, r := range ranked {
		c := byID[r.ID]
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s #%d]\n%s", c.FileName, c.Sequence, c.Text)
		gc.ChunkIDs = append(gc.ChunkIDs, c.ID)
	}
	gc.Text = b.String()
	return gc, nil
}

func (o *Orchestrator) rankSummaries(query string, summaries []store.Summary) (*genContext, error) {
	byID := make(map[int64]store.Summary, len(summaries))
	docs := make([]retrieval.Document, len(summaries))
	for i, s := range summaries {
		byID[s.ID] = s
		docs[i] = retrieval.Document{ID: s.ID, Text: s.Text + "\n" + strings.Join(s.KeyPoints, "\n")}
	}

	ranked := o.ranker.Rank(query, docs, o.config.SummariesPerQuestion)
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: nothing matches %q", ErrNoContext, query)
	}

	picked := make([]store.Summary, len(ranked))
	for i, r := range ranked {
		picked[i] = byID[r.ID]
	}
	return summaryContext(picked), nil
}

// summaryContext renders summaries into one prompt block.
func summaryContext(summaries []store.Summary) *genContext {
	gc := &genContext{}
	var b strings.Builder
	for i, s := range summaries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if gc.Topic == "" {
			gc.Topic = s.Topic
		}
		gc.SummaryIDs = append(gc.SummaryIDs, s.ID)

		title := s.DocumentTitle
		if s.Topic != "" {
			title = strings.TrimSpace(title + " (" + s.Topic + ")")
		}
		if title != "" {
			fmt.Fprintf(&b, "## %s\n", title)
		}
		b.WriteString(s.Text)
		writeList(&b, "Key points", s.KeyPoints)
		writeList(&b, "Practical examples", s.PracticalExamples)
		writeList(&b, "References", s.References)
	}
	gc.Text = b.String()
	return gc
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", label)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}
