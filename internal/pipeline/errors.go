package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestionsGenerated is returned when a batch yields nothing.
	ErrNoQuestionsGenerated = errors.New("no questions generated")

	// ErrNoContext means no summary or chunk could back a question.
	ErrNoContext = errors.New("no usable context")

	// ErrInvalidRequest flags a request with neither domain nor query.
	ErrInvalidRequest = errors.New("invalid generation request")
)

// Failure records why one question of a batch was skipped.
type Failure struct {
	Index int // zero-based position in the batch
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("question %d: %v", f.Index+1, f.Err)
}
