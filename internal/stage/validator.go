package stage

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/certgen/internal/assemble"
	"github.com/abhisek/certgen/internal/llm"
)

// ValidateQuestion checks an extracted question reply.
func ValidateQuestion(v any) (QuestionPayload, *ValidationError) {
	reject := func(msg string) (QuestionPayload, *ValidationError) {
		return QuestionPayload{}, &ValidationError{Stage: KindQuestion, Code: CodeMissingField, Message: msg, Raw: v}
	}

	if err := llm.ValidateValue(QuestionSchema, v); err != nil {
		return reject(err.Error())
	}
	obj := v.(map[string]any)

	q := QuestionPayload{Question: strings.TrimSpace(obj["question"].(string))}
	if s, ok := obj["scenario"].(string); ok {
		q.Scenario = strings.TrimSpace(s)
	}
	if q.Question == "" {
		return reject("question is blank")
	}
	return q, nil
}

// ValidateAnswer checks an extracted answer reply. An over-long correct
// answer is truncated to the option length cap rather than rejected.
func ValidateAnswer(v any) (AnswerPayload, *ValidationError) {
	reject := func(msg string) (AnswerPayload, *ValidationError) {
		return AnswerPayload{}, &ValidationError{Stage: KindAnswer, Code: CodeSchemaViolation, Message: msg, Raw: v}
	}

	if err := llm.ValidateValue(AnswerSchema, v); err != nil {
		return reject(err.Error())
	}
	obj := v.(map[string]any)

	a := AnswerPayload{
		CorrectAnswer: assemble.Truncate(strings.TrimSpace(obj["correct_answer"].(string))),
		Justification: strings.TrimSpace(obj["justification"].(string)),
		References:    stringList(obj["references"]),
		Examples:      stringList(obj["examples"]),
	}
	if a.CorrectAnswer == "" {
		return reject("correct_answer is blank")
	}
	if a.Justification == "" {
		return reject("justification is blank")
	}
	return a, nil
}

// ValidateDistractors checks an extracted distractor reply against the
// validated correct answer.
//
// With L the correct answer's word count and allowed = max(3, round(0.3L)),
// a distractor outside [max(10, L-allowed), L+allowed] words earns a
// warning. Duplicates among the four options reject the reply.
func ValidateDistractors(v any, correct string) (DistractorPayload, *ValidationError) {
	if err := llm.ValidateValue(DistractorSchema, v); err != nil {
		return DistractorPayload{}, &ValidationError{Stage: KindDistractors, Code: CodeSchemaViolation, Message: err.Error(), Raw: v}
	}
	items := v.([]any)

	var p DistractorPayload
	for i, item := range items {
		d := assemble.Truncate(strings.TrimSpace(item.(string)))
		if d == "" {
			return DistractorPayload{}, &ValidationError{
				Stage: KindDistractors, Code: CodeSchemaViolation,
				Message: fmt.Sprintf("distractor %d is blank", i+1), Raw: v,
			}
		}
		p.Distractors[i] = d
	}

	seen := map[string]bool{assemble.Normalize(correct): true}
	for i, d := range p.Distractors {
		key := assemble.Normalize(d)
		if seen[key] {
			return DistractorPayload{}, &ValidationError{
				Stage: KindDistractors, Code: CodeDuplicateOption,
				Message: fmt.Sprintf("distractor %d duplicates another option", i+1), Raw: v,
			}
		}
		seen[key] = true
	}

	lo, hi := LengthWindow(wordCount(correct))
	for i, d := range p.Distractors {
		if n := wordCount(d); n < lo || n > hi {
			p.Warnings = append(p.Warnings,
				fmt.Sprintf("distractor %d has %d words, outside [%d, %d]", i+1, n, lo, hi))
		}
	}
	return p, nil
}

// LengthWindow returns the inclusive word-count range distractors should
// fall in for a correct answer of l words.
func LengthWindow(l int) (lo, hi int) {
	allowed := max(3, int(math.RoundToEven(0.3*float64(l))))
	return max(10, l-allowed), l + allowed
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// stringList converts a schema-checked []any of strings.
func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
