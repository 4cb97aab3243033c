// Package stage runs the three generation calls of the question chain
// and validates what the model sends back.
package stage

import (
	"errors"
	"fmt"
)

// Kind identifies a generation stage.
type Kind string

const (
	KindQuestion    Kind = "question"
	KindAnswer      Kind = "answer"
	KindDistractors Kind = "distractors"
)

// Purpose is the event-log label for calls made by this stage.
func (k Kind) Purpose() string {
	return "stage-" + string(k)
}

// QuestionInput feeds the question stage.
type QuestionInput struct {
	Context string
	Topic   string
}

// AnswerInput feeds the answer stage.
type AnswerInput struct {
	Context  string
	Question QuestionPayload
}

// DistractorInput feeds the distractor stage.
type DistractorInput struct {
	Context  string
	Question QuestionPayload
	Answer   AnswerPayload
}

// QuestionPayload is a validated question stage reply.
type QuestionPayload struct {
	Scenario string `json:"scenario"`
	Question string `json:"question"`
}

// Text joins scenario and question the way they are shown to candidates.
func (q QuestionPayload) Text() string {
	if q.Scenario == "" {
		return q.Question
	}
	return q.Scenario + "\n\n" + q.Question
}

// AnswerPayload is a validated answer stage reply.
type AnswerPayload struct {
	CorrectAnswer string   `json:"correct_answer"`
	Justification string   `json:"justification"`
	References    []string `json:"references"`
	Examples      []string `json:"examples"`
}

// DistractorPayload is a validated distractor stage reply. Warnings
// lists distractors outside the length window; they do not reject.
type DistractorPayload struct {
	Distractors [3]string
	Warnings    []string
}

// ErrMalformedResponse means no JSON value of the wanted shape could be
// recovered from a reply.
var ErrMalformedResponse = errors.New("malformed response")

// TransportError wraps a failed or timed out completion call.
type TransportError struct {
	Stage Kind
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s stage transport: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseError is a reply the provider itself flagged as unusable, for
// example one cut off at the token limit. It matches ErrMalformedResponse.
type ResponseError struct {
	Stage Kind
	Raw   string
	Err   error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s stage response: %v", e.Stage, e.Err)
}

func (e *ResponseError) Unwrap() []error { return []error{ErrMalformedResponse, e.Err} }

// Code classifies a validation rejection.
type Code string

const (
	CodeMissingField    Code = "missing_field"
	CodeSchemaViolation Code = "schema_violation"
	CodeDuplicateOption Code = "duplicate_option"
)

// ValidationError describes why a parsed reply was rejected.
type ValidationError struct {
	Stage   Kind
	Code    Code
	Message string
	Raw     any // the extracted value that failed
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s stage %s: %s", e.Stage, e.Code, e.Message)
}
