package stage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/certgen/internal/llm"
)

func TestClient_CallPassesSettingsAndPurpose(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: "```json\n{\"question\":\"Q?\"}\n```"})
	c := NewClient(mock, DefaultConfig(), nil)

	raw, err := c.Call(context.Background(), KindQuestion, QuestionInput{Context: "ctx text", Topic: "VPC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(raw, "```json") {
		t.Errorf("raw reply must be returned unmodified, got %q", raw)
	}

	req := mock.Calls[0]
	if req.MaxTokens != 600 || req.Temperature != 0.8 {
		t.Errorf("question settings = %d/%v, want 600/0.8", req.MaxTokens, req.Temperature)
	}
	if req.Schema != nil {
		t.Error("schema must not be sent without structured output")
	}
	if !strings.Contains(req.Messages[0].Content, "Topic: VPC") || !strings.Contains(req.Messages[0].Content, "ctx text") {
		t.Errorf("prompt missing input: %q", req.Messages[0].Content)
	}
}

func TestClient_StageSettings(t *testing.T) {
	tests := []struct {
		kind   Kind
		input  any
		tokens int
		temp   float64
	}{
		{KindAnswer, AnswerInput{Context: "c", Question: QuestionPayload{Question: "Q"}}, 800, 0.3},
		{KindDistractors, DistractorInput{Question: QuestionPayload{Question: "Q"}, Answer: AnswerPayload{CorrectAnswer: "A b c"}}, 500, 0.4},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: "{}"})
			cfg := DefaultConfig()
			cfg.StructuredOutput = true
			c := NewClient(mock, cfg, nil)

			if _, err := c.Call(context.Background(), tt.kind, tt.input); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			req := mock.Calls[0]
			if req.MaxTokens != tt.tokens || req.Temperature != tt.temp {
				t.Errorf("settings = %d/%v, want %d/%v", req.MaxTokens, req.Temperature, tt.tokens, tt.temp)
			}
			if req.Schema != StructuredSchema(tt.kind) {
				t.Error("expected structured schema")
			}
		})
	}
}

func TestConfig_Settings(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{"unset takes defaults", Settings{}, Settings{MaxTokens: 600, Temperature: 0.8}},
		{"zero temperature kept", Settings{MaxTokens: 300, Temperature: 0}, Settings{MaxTokens: 300, Temperature: 0}},
		{"missing tokens filled", Settings{Temperature: 0.5}, Settings{MaxTokens: 600, Temperature: 0.5}},
		{"negative temperature reset", Settings{MaxTokens: 300, Temperature: -1}, Settings{MaxTokens: 300, Temperature: 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Question: tt.in}
			if got := cfg.settings(KindQuestion); got != tt.want {
				t.Errorf("settings = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClient_ZeroTemperatureSent(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: "{}"})
	cfg := DefaultConfig()
	cfg.Answer.Temperature = 0
	c := NewClient(mock, cfg, nil)

	if _, err := c.Call(context.Background(), KindAnswer, AnswerInput{Context: "c", Question: QuestionPayload{Question: "Q"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mock.Calls[0].Temperature; got != 0 {
		t.Errorf("temperature = %v, want 0", got)
	}
}

func TestClient_WrongInputType(t *testing.T) {
	c := NewClient(llm.NewMockProvider(), DefaultConfig(), nil)
	if _, err := c.Call(context.Background(), KindAnswer, QuestionInput{}); err == nil {
		t.Fatal("expected error for mismatched input")
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transport bool
		malformed bool
		raw       string
	}{
		{"unavailable", &llm.ErrProviderUnavailable{Err: errors.New("down")}, true, false, ""},
		{"rate limit", &llm.ErrRateLimit{Err: errors.New("429")}, true, false, ""},
		{"max tokens", &llm.ErrMaxTokensExceeded{Content: `{"question":"cut`}, false, true, `{"question":"cut`},
		{"invalid", &llm.ErrInvalidResponse{Content: "nope", Err: errors.New("bad")}, false, true, "nope"},
		{"rejected", &llm.ErrRequestRejected{StatusCode: 401, Err: errors.New("bad key")}, false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(llm.NewMockProvider(llm.MockResponse{Err: tt.err}), DefaultConfig(), nil)
			raw, err := c.Call(context.Background(), KindQuestion, QuestionInput{Context: "c"})

			var te *TransportError
			if errors.As(err, &te) != tt.transport {
				t.Errorf("transport = %v, want %v (err %v)", !tt.transport, tt.transport, err)
			}
			if errors.Is(err, ErrMalformedResponse) != tt.malformed {
				t.Errorf("malformed = %v, want %v (err %v)", !tt.malformed, tt.malformed, err)
			}
			if raw != tt.raw {
				t.Errorf("raw = %q, want %q", raw, tt.raw)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("provider error lost: %v", err)
			}
		})
	}
}

// slowProvider blocks until its context ends.
type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, &llm.ErrProviderUnavailable{Err: ctx.Err()}
}

func (slowProvider) ModelID() string { return "slow" }

func TestClient_Timeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 10 * time.Millisecond
	c := NewClient(slowProvider{}, cfg, nil)

	_, err := c.Call(context.Background(), KindQuestion, QuestionInput{Context: "c"})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded inside, got %v", err)
	}
}

func TestKind_Purpose(t *testing.T) {
	if KindDistractors.Purpose() != "stage-distractors" {
		t.Errorf("purpose = %q", KindDistractors.Purpose())
	}
}
