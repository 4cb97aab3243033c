package stage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/certgen/internal/llm"
)

// Client makes one completion call per stage and returns the raw reply.
type Client struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
}

// NewClient creates a Client. A nil logger disables logging.
func NewClient(provider llm.Provider, cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Client{provider: provider, config: cfg, log: log}
}

// ModelID reports the model behind the client.
func (c *Client) ModelID() string {
	return c.provider.ModelID()
}

// Call builds the prompt for kind from input, which must be the matching
// *Input type, and returns the model's reply unmodified.
//
// Provider failures come back as *TransportError. Replies the provider
// flags as truncated or invalid come back as *ResponseError together with
// whatever text was received. A request the provider rejects outright
// (*llm.ErrRequestRejected) is returned as is, so callers do not retry it.
func (c *Client) Call(ctx context.Context, kind Kind, input any) (string, error) {
	system, user, err := buildPrompt(kind, input)
	if err != nil {
		return "", err
	}

	settings := c.config.settings(kind)
	req := llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: user}},
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}
	if c.config.StructuredOutput {
		req.Schema = StructuredSchema(kind)
	}

	callCtx, cancel := context.WithTimeout(llm.WithPurpose(ctx, kind.Purpose()), c.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.provider.Generate(callCtx, req)
	if err != nil {
		var maxTok *llm.ErrMaxTokensExceeded
		if errors.As(err, &maxTok) {
			return maxTok.Content, &ResponseError{Stage: kind, Raw: maxTok.Content, Err: err}
		}
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			return invalid.Content, &ResponseError{Stage: kind, Raw: invalid.Content, Err: err}
		}
		var rejected *llm.ErrRequestRejected
		if errors.As(err, &rejected) {
			return "", fmt.Errorf("%s stage: %w", kind, err)
		}
		return "", &TransportError{Stage: kind, Err: err}
	}

	c.log.Debug("stage call",
		zap.String("stage", string(kind)),
		zap.Duration("took", time.Since(start)),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)
	return resp.Content, nil
}

func buildPrompt(kind Kind, input any) (system, user string, err error) {
	switch kind {
	case KindQuestion:
		in, ok := input.(QuestionInput)
		if !ok {
			return "", "", fmt.Errorf("question stage: unexpected input %T", input)
		}
		return questionSystemPrompt, buildQuestionMessage(in), nil
	case KindAnswer:
		in, ok := input.(AnswerInput)
		if !ok {
			return "", "", fmt.Errorf("answer stage: unexpected input %T", input)
		}
		return answerSystemPrompt, buildAnswerMessage(in), nil
	case KindDistractors:
		in, ok := input.(DistractorInput)
		if !ok {
			return "", "", fmt.Errorf("distractor stage: unexpected input %T", input)
		}
		return distractorSystemPrompt, buildDistractorMessage(in), nil
	default:
		return "", "", fmt.Errorf("unknown stage %q", kind)
	}
}
