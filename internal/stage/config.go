package stage

import "time"

// Settings bounds one stage's completion call.
type Settings struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Config controls the stage Client.
type Config struct {
	Question    Settings `yaml:"question"`
	Answer      Settings `yaml:"answer"`
	Distractors Settings `yaml:"distractors"`

	// Timeout bounds every single call.
	Timeout time.Duration `yaml:"timeout"`

	// StructuredOutput asks providers for native JSON schema output.
	StructuredOutput bool `yaml:"structured_output"`
}

// DefaultConfig returns the recommended per-stage budgets. The question
// stage runs hot for variety; the other two stay cool for consistency.
func DefaultConfig() Config {
	return Config{
		Question:    Settings{MaxTokens: 600, Temperature: 0.8},
		Answer:      Settings{MaxTokens: 800, Temperature: 0.3},
		Distractors: Settings{MaxTokens: 500, Temperature: 0.4},
		Timeout:     30 * time.Second,
	}
}

// settings returns the settings for kind. An unset stage takes the
// defaults; a set one keeps its temperature, so 0 is a valid choice.
func (c Config) settings(kind Kind) Settings {
	def := DefaultConfig()
	var s, d Settings
	switch kind {
	case KindQuestion:
		s, d = c.Question, def.Question
	case KindAnswer:
		s, d = c.Answer, def.Answer
	default:
		s, d = c.Distractors, def.Distractors
	}
	if s == (Settings{}) {
		return d
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = d.MaxTokens
	}
	if s.Temperature < 0 {
		s.Temperature = d.Temperature
	}
	return s
}
