// Package pipeline drives the per-question generation chain and runs it
// for whole batches.
package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/certgen/internal/assemble"
	"github.com/abhisek/certgen/internal/retrieval"
	"github.com/abhisek/certgen/internal/stage"
	"github.com/abhisek/certgen/internal/store"
)

// ContentStore is the part of the store the orchestrator reads and writes.
type ContentStore interface {
	GetChunks(ctx context.Context) ([]store.Chunk, error)
	ListSummaries(ctx context.Context) ([]store.Summary, error)
	SaveQuestion(ctx context.Context, q *store.GeneratedQuestion) (string, error)
}

// Balancer selects summaries and records their use.
type Balancer interface {
	PickLeastUsed(ctx context.Context, domain string, limit int) ([]store.Summary, error)
	MarkUsed(ctx context.Context, ids []int64) error
}

// Stages makes the raw completion calls.
type Stages interface {
	Call(ctx context.Context, kind stage.Kind, input any) (string, error)
	ModelID() string
}

// Ranker orders documents by relevance to a query.
type Ranker interface {
	Rank(query string, candidates []retrieval.Document, topK int) []retrieval.Scored
}

// Config controls the Orchestrator.
type Config struct {
	Retry Policy `yaml:"retry"`

	// Workers is the default batch concurrency. Default: 1.
	Workers int `yaml:"workers"`

	// SummariesPerQuestion caps summaries combined into one context.
	// Default: 3.
	SummariesPerQuestion int `yaml:"summaries_per_question"`

	// TopK caps chunks combined into one context. Default: 5.
	TopK int `yaml:"top_k"`
}

// DefaultConfig returns the recommended orchestrator settings.
func DefaultConfig() Config {
	return Config{
		Retry:                DefaultPolicy(),
		Workers:              1,
		SummariesPerQuestion: 3,
		TopK:                 5,
	}
}

// Request asks for Count questions. Domain selects summaries by tag;
// otherwise Query selects material by relevance. Topic labels the output
// and steers the question stage.
type Request struct {
	Count   int
	Domain  string
	Topic   string
	Query   string
	Workers int // overrides Config.Workers when > 0
}

// Batch is the outcome of Generate. Questions is the ground truth; it may
// hold fewer than the requested count.
type Batch struct {
	Requested int
	Questions []store.GeneratedQuestion
	Failures  []Failure
}

// Orchestrator runs the question chain.
type Orchestrator struct {
	store    ContentStore
	balancer Balancer
	stages   Stages
	ranker   Ranker
	config   Config
	log      *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithRand sets the source used to shuffle options.
func WithRand(r *rand.Rand) Option {
	return func(o *Orchestrator) { o.rng = r }
}

// New creates an Orchestrator.
func New(s ContentStore, b Balancer, stages Stages, ranker Ranker, cfg Config, opts ...Option) *Orchestrator {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.SummariesPerQuestion <= 0 {
		cfg.SummariesPerQuestion = def.SummariesPerQuestion
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	cfg.Retry = cfg.Retry.withDefaults()

	o := &Orchestrator{store: s, balancer: b, stages: stages, ranker: ranker, config: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

// Generate runs req.Count independent question chains. Failed questions
// are recorded in Batch.Failures and skipped. It returns
// ErrNoQuestionsGenerated when none succeed, or ctx's error when the
// context ends before anything succeeded.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Batch, error) {
	if req.Domain == "" && req.Query == "" {
		return nil, fmt.Errorf("%w: domain or query is required", ErrInvalidRequest)
	}
	batch := &Batch{Requested: req.Count}
	if req.Count <= 0 {
		return batch, nil
	}

	workers := o.config.Workers
	if req.Workers > 0 {
		workers = req.Workers
	}

	log := o.log.With(
		zap.String("domain", req.Domain),
		zap.String("topic", req.Topic),
		zap.Int("count", req.Count),
	)
	start := time.Now()
	log.Info("batch started", zap.Int("workers", workers))

	questions := make([]*store.GeneratedQuestion, req.Count)
	errs := make([]error, req.Count)

	var g errgroup.Group
	g.SetLimit(workers)
	scheduled := 0
	for i := 0; i < req.Count; i++ {
		if ctx.Err() != nil {
			break
		}
		scheduled++
		g.Go(func() error {
			q, err := o.generateOne(ctx, req, i)
			questions[i], errs[i] = q, err
			return nil
		})
	}
	_ = g.Wait()

	for i := 0; i < req.Count; i++ {
		switch {
		case questions[i] != nil:
			batch.Questions = append(batch.Questions, *questions[i])
		case i >= scheduled:
			batch.Failures = append(batch.Failures, Failure{Index: i, Err: context.Cause(ctx)})
		default:
			batch.Failures = append(batch.Failures, Failure{Index: i, Err: errs[i]})
		}
	}

	log.Info("batch finished",
		zap.Int("generated", len(batch.Questions)),
		zap.Int("failed", len(batch.Failures)),
		zap.Duration("took", time.Since(start)),
	)

	if len(batch.Questions) == 0 {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		return batch, fmt.Errorf("%w: all %d attempts failed", ErrNoQuestionsGenerated, req.Count)
	}
	return batch, nil
}

// generateOne runs the full chain for a single question.
func (o *Orchestrator) generateOne(ctx context.Context, req Request, index int) (*store.GeneratedQuestion, error) {
	log := o.log.With(zap.Int("question", index+1))

	gc, err := o.resolveContext(ctx, req)
	if err != nil {
		log.Warn("question skipped", zap.Error(err))
		return nil, err
	}
	topic := req.Topic
	if topic == "" {
		topic = gc.Topic
	}
	policy := o.config.Retry

	question, err := WithRetry(ctx, policy, log, stage.KindQuestion, func(ctx context.Context) (stage.QuestionPayload, string, error) {
		raw, err := o.stages.Call(ctx, stage.KindQuestion, stage.QuestionInput{Context: gc.Text, Topic: topic})
		if err != nil {
			return stage.QuestionPayload{}, raw, err
		}
		v, err := stage.ExtractJSON(raw, stage.ShapeObject)
		if err != nil {
			return stage.QuestionPayload{}, raw, err
		}
		q, verr := stage.ValidateQuestion(v)
		if verr != nil {
			return stage.QuestionPayload{}, raw, verr
		}
		return q, raw, nil
	})
	if err != nil {
		log.Warn("question skipped", zap.Error(err))
		return nil, err
	}

	answer, err := WithRetry(ctx, policy, log, stage.KindAnswer, func(ctx context.Context) (stage.AnswerPayload, string, error) {
		raw, err := o.stages.Call(ctx, stage.KindAnswer, stage.AnswerInput{Context: gc.Text, Question: question})
		if err != nil {
			return stage.AnswerPayload{}, raw, err
		}
		v, err := stage.ExtractJSON(raw, stage.ShapeObject)
		if err != nil {
			return stage.AnswerPayload{}, raw, err
		}
		a, verr := stage.ValidateAnswer(v)
		if verr != nil {
			return stage.AnswerPayload{}, raw, verr
		}
		return a, raw, nil
	})
	if err != nil {
		log.Warn("question skipped", zap.Error(err))
		return nil, err
	}

	distractors, err := WithRetry(ctx, policy, log, stage.KindDistractors, func(ctx context.Context) (stage.DistractorPayload, string, error) {
		raw, err := o.stages.Call(ctx, stage.KindDistractors, stage.DistractorInput{Context: gc.Text, Question: question, Answer: answer})
		if err != nil {
			return stage.DistractorPayload{}, raw, err
		}
		v, err := stage.ExtractJSON(raw, stage.ShapeArray)
		if err != nil {
			return stage.DistractorPayload{}, raw, err
		}
		d, verr := stage.ValidateDistractors(v, answer.CorrectAnswer)
		if verr != nil {
			return stage.DistractorPayload{}, raw, verr
		}
		return d, raw, nil
	})
	if err != nil {
		log.Warn("question skipped", zap.Error(err))
		return nil, err
	}
	for _, w := range distractors.Warnings {
		log.Info("distractor length warning", zap.String("warning", w))
	}

	o.rngMu.Lock()
	opts, err := assemble.Assemble(answer.CorrectAnswer, distractors.Distractors, o.rng)
	o.rngMu.Unlock()
	if err != nil {
		log.Warn("question skipped", zap.Error(err))
		return nil, fmt.Errorf("assemble options: %w", err)
	}

	q := &store.GeneratedQuestion{
		QuestionText: question.Text(),
		Options:      opts.Options,
		CorrectIndex: opts.CorrectIndex,
		Explanation:  answer.Justification,
		Topic:        topic,
		Metadata: store.QuestionMetadata{
			Scenario:   question.Scenario,
			Domain:     req.Domain,
			References: answer.References,
			Examples:   answer.Examples,
			SummaryIDs: gc.SummaryIDs,
			ChunkIDs:   gc.ChunkIDs,
			Warnings:   distractors.Warnings,
			Model:      o.stages.ModelID(),
		},
	}
	if _, err := o.store.SaveQuestion(ctx, q); err != nil {
		log.Warn("question skipped", zap.Error(err))
		return nil, fmt.Errorf("save question: %w", err)
	}

	// The question is stored; a counter failure only skews future picks.
	if len(gc.SummaryIDs) > 0 {
		if err := o.balancer.MarkUsed(ctx, gc.SummaryIDs); err != nil {
			log.Warn("failed to record summary usage", zap.Error(err))
		}
	}

	log.Debug("question generated", zap.String("id", q.ID))
	return q, nil
}
