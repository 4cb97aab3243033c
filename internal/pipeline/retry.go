package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/certgen/internal/stage"
)

// Policy bounds the attempts made for one stage.
type Policy struct {
	// MaxAttempts caps attempts of any kind. Default: 3.
	MaxAttempts int `yaml:"max_attempts"`

	// Backoff is the fixed pause between attempts. Default: 1s.
	Backoff time.Duration `yaml:"backoff"`

	// MaxValidationRetries caps extra attempts after a rejected reply.
	// Default: 1.
	MaxValidationRetries int `yaml:"max_validation_retries"`
}

// DefaultPolicy returns the standard stage retry policy.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Backoff: time.Second, MaxValidationRetries: 1}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	if p.MaxValidationRetries < 0 {
		p.MaxValidationRetries = 0
	}
	return p
}

// Attempt is a single try. raw is the reply text it worked on, kept for
// failure logs.
type Attempt[T any] func(ctx context.Context) (value T, raw string, err error)

// StageError reports a stage that ran out of attempts.
type StageError struct {
	Stage    stage.Kind
	Attempts int
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed after %d attempt(s): %v", e.Stage, e.Attempts, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// WithRetry runs fn until it succeeds or the policy gives up.
//
// Transport failures and malformed replies are retried up to MaxAttempts.
// Rejected replies (*stage.ValidationError) get at most
// MaxValidationRetries extra attempts within the same cap. Any other error
// ends the loop at once. ctx is checked before every attempt and while
// sleeping; its error is returned unwrapped.
func WithRetry[T any](ctx context.Context, p Policy, log *zap.Logger, kind stage.Kind, fn Attempt[T]) (T, error) {
	var zero T
	p = p.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	var lastErr error
	rejections := 0
	attempt := 0
	for attempt < p.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		attempt++

		value, raw, err := fn(ctx)
		if err == nil {
			return value, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		lastErr = err

		log.Warn("stage attempt failed",
			zap.String("stage", string(kind)),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.MaxAttempts),
			zap.String("raw_response", raw),
			zap.Error(err),
		)

		retry := false
		var verr *stage.ValidationError
		var terr *stage.TransportError
		switch {
		case errors.As(err, &verr):
			rejections++
			retry = rejections <= p.MaxValidationRetries
		case errors.As(err, &terr), errors.Is(err, stage.ErrMalformedResponse):
			retry = true
		}
		if !retry || attempt >= p.MaxAttempts {
			break
		}

		if p.Backoff > 0 {
			timer := time.NewTimer(p.Backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return zero, &StageError{Stage: kind, Attempts: attempt, Err: lastErr}
}
