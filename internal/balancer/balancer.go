// Package balancer chooses which summaries feed question generation,
// favoring the least-used ones so coverage spreads across the domain.
package balancer

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/abhisek/certgen/internal/store"
)

// Store is the slice of the content store the balancer needs.
type Store interface {
	GetSummariesByDomain(ctx context.Context, domain string) ([]store.Summary, error)
	GetUsageCounts(ctx context.Context, ids []int64) (map[int64]int, error)
	IncrementUsage(ctx context.Context, summaryID int64) error
}

// Balancer implements least-used summary selection.
type Balancer struct {
	store Store
	log   *zap.Logger
}

// Option configures a Balancer.
type Option func(*Balancer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Balancer) { b.log = l }
}

// New creates a Balancer over s.
func New(s Store, opts ...Option) *Balancer {
	b := &Balancer{store: s, log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PickLeastUsed returns up to limit summaries tagged with domain, ordered
// by ascending usage count and then newest first. The ordering covers the
// whole domain, so a domain smaller than limit is returned in full and
// nothing is left to pad with.
func (b *Balancer) PickLeastUsed(ctx context.Context, domain string, limit int) ([]store.Summary, error) {
	if limit <= 0 {
		return nil, nil
	}

	summaries, err := b.store.GetSummariesByDomain(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("summaries for domain %q: %w", domain, err)
	}
	if len(summaries) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(summaries))
	for i, s := range summaries {
		ids[i] = s.ID
	}
	counts, err := b.store.GetUsageCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("usage counts: %w", err)
	}

	sorted := make([]store.Summary, len(summaries))
	copy(sorted, summaries)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := counts[sorted[i].ID], counts[sorted[j].ID]
		if ci != cj {
			return ci < cj
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	selected := sorted[:min(limit, len(sorted))]

	b.log.Debug("picked least-used summaries",
		zap.String("domain", domain),
		zap.Int("available", len(summaries)),
		zap.Int("selected", len(selected)),
	)
	return selected, nil
}

// MarkUsed increments the usage counter of every summary in ids. Each
// increment is atomic in the store; a failure stops at the first error.
func (b *Balancer) MarkUsed(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if err := b.store.IncrementUsage(ctx, id); err != nil {
			return fmt.Errorf("mark summary %d used: %w", id, err)
		}
	}
	return nil
}
