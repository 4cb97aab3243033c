package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by mutations that target a missing row.
var ErrNotFound = errors.New("not found")

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After (events only)
	Before  int64     // sequence < Before (events only)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match (events only)
	Topic   string    // exact topic match (questions only)
}

// Summary is a curated digest of a source document. It is immutable once
// used as generation context, except for its domain tags.
type Summary struct {
	ID                int64
	DocumentTitle     string
	Topic             string
	Text              string
	KeyPoints         []string
	PracticalExamples []string
	References        []string
	DomainTags        []string
	CreatedAt         time.Time
}

// HasDomain reports whether the summary carries domain as a tag,
// ignoring case.
func (s Summary) HasDomain(domain string) bool {
	for _, t := range s.DomainTags {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(domain)) {
			return true
		}
	}
	return false
}

// Chunk is a contiguous slice of a source document's raw text.
// (FileName, Sequence) is unique.
type Chunk struct {
	ID       int64
	FileName string
	Sequence int
	Text     string
}

// UsageCounter records how often a summary has fed a stored question.
type UsageCounter struct {
	SummaryID  int64
	UsageCount int
	LastUsedAt time.Time
}

// QuestionMetadata carries provenance for a generated question.
type QuestionMetadata struct {
	Scenario   string   `json:"scenario,omitempty"`
	Domain     string   `json:"domain,omitempty"`
	References []string `json:"references,omitempty"`
	Examples   []string `json:"examples,omitempty"`
	SummaryIDs []int64  `json:"summary_ids,omitempty"`
	ChunkIDs   []int64  `json:"chunk_ids,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Model      string   `json:"model,omitempty"`
}

// GeneratedQuestion is a finished multiple-choice item. Options holds
// exactly four pairwise distinct strings.
type GeneratedQuestion struct {
	ID           string           `json:"id"`
	QuestionText string           `json:"question"`
	Options      [4]string        `json:"options"`
	CorrectIndex int              `json:"correct_index"`
	Explanation  string           `json:"explanation"`
	Topic        string           `json:"topic,omitempty"`
	Metadata     QuestionMetadata `json:"metadata"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ContentRepo persists the knowledge base, usage counters and generated
// questions.
type ContentRepo interface {
	SaveSummary(ctx context.Context, s *Summary) (int64, error)
	ListSummaries(ctx context.Context) ([]Summary, error)
	GetSummariesByDomain(ctx context.Context, domain string) ([]Summary, error)
	UpdateDomainTags(ctx context.Context, id int64, tags []string) error

	// ReplaceChunks swaps every chunk of fileName for chunks.
	ReplaceChunks(ctx context.Context, fileName string, chunks []Chunk) error
	GetChunks(ctx context.Context) ([]Chunk, error)

	// IncrementUsage bumps a summary's counter, creating it on first use.
	IncrementUsage(ctx context.Context, summaryID int64) error
	GetUsageCounts(ctx context.Context, ids []int64) (map[int64]int, error)

	// SaveQuestion writes q in a single insert and returns its ID.
	SaveQuestion(ctx context.Context, q *GeneratedQuestion) (string, error)
	ListQuestions(ctx context.Context, opts QueryOpts) ([]GeneratedQuestion, error)

	// GetQuestion returns nil if no question has the given ID.
	GetQuestion(ctx context.Context, id string) (*GeneratedQuestion, error)
	DeleteQuestion(ctx context.Context, id string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents lists events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns nil if no event has the given ID.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
