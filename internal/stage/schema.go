package stage

import "github.com/abhisek/certgen/internal/llm"

// QuestionSchema validates extracted question replies.
var QuestionSchema = &llm.Schema{
	Name:        "stage-question",
	Description: "An exam question with an optional scenario",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scenario": map[string]any{"type": "string"},
			"question": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []any{"question"},
	},
}

// AnswerSchema validates extracted answer replies.
var AnswerSchema = &llm.Schema{
	Name:        "stage-answer",
	Description: "The correct answer with justification and supporting material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct_answer": map[string]any{"type": "string", "minLength": 1},
			"justification":  map[string]any{"type": "string", "minLength": 1},
			"references":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"examples":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"correct_answer", "justification", "references", "examples"},
	},
}

// DistractorSchema validates extracted distractor replies.
var DistractorSchema = &llm.Schema{
	Name:        "stage-distractors",
	Description: "Three wrong answer options",
	Definition: map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string", "minLength": 1},
		"minItems": 3,
		"maxItems": 3,
	},
}

// Provider-facing schemas. Structured output APIs want an object root
// with every property required, so distractors are wrapped in an object;
// ExtractJSON unwraps it again.
var structuredSchemas = map[Kind]*llm.Schema{
	KindQuestion: {
		Name:        "exam-question",
		Description: "An exam question with a scenario",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"scenario": map[string]any{"type": "string"},
				"question": map[string]any{"type": "string"},
			},
			"required":             []any{"scenario", "question"},
			"additionalProperties": false,
		},
	},
	KindAnswer: {
		Name:        "exam-answer",
		Description: "The correct answer with justification",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"correct_answer": map[string]any{"type": "string"},
				"justification":  map[string]any{"type": "string"},
				"references":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"examples":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required":             []any{"correct_answer", "justification", "references", "examples"},
			"additionalProperties": false,
		},
	},
	KindDistractors: {
		Name:        "exam-distractors",
		Description: "Three wrong answer options",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"distractors": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 3,
					"maxItems": 3,
				},
			},
			"required":             []any{"distractors"},
			"additionalProperties": false,
		},
	},
}

// StructuredSchema returns the schema sent to providers for kind.
func StructuredSchema(kind Kind) *llm.Schema {
	return structuredSchemas[kind]
}
