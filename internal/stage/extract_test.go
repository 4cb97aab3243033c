package stage

import (
	"errors"
	"reflect"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```JSON\n[1,2]\n```", `[1,2]`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"{\"a\":1}\n```", `{"a":1}`},
	}
	for _, tt := range tests {
		got := StripFences(tt.in)
		if got != tt.want {
			t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := StripFences(got); again != got {
			t.Errorf("StripFences not idempotent: %q -> %q", got, again)
		}
	}
}

func TestExtractJSON_FencedEqualsUnfenced(t *testing.T) {
	plain := `{"scenario":"A team runs batch jobs.","question":"Which service fits?"}`
	fenced := "```json\n" + plain + "\n```"

	a, err := ExtractJSON(plain, ShapeObject)
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	b, err := ExtractJSON(fenced, ShapeObject)
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("fenced and plain differ: %v vs %v", a, b)
	}
}

func TestExtractJSON_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		shape Shape
		want  any
	}{
		{
			name:  "object in prose",
			text:  `Sure! Here it is: {"question":"Why?"} Hope that helps.`,
			shape: ShapeObject,
			want:  map[string]any{"question": "Why?"},
		},
		{
			name:  "array in prose",
			text:  "The distractors are:\n[\"a\", \"b\", \"c\"]\nDone.",
			shape: ShapeArray,
			want:  []any{"a", "b", "c"},
		},
		{
			name:  "array wrapped in object",
			text:  `{"distractors": ["a", "b", "c"]}`,
			shape: ShapeArray,
			want:  []any{"a", "b", "c"},
		},
		{
			name:  "wrapped array in fenced prose",
			text:  "Here:\n```json\n{\"options\": [\"x\", \"y\", \"z\"]}\n```",
			shape: ShapeArray,
			want:  []any{"x", "y", "z"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.text, tt.shape)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExtractJSON_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		shape Shape
	}{
		{"empty", "   ", ShapeObject},
		{"prose only", "I cannot help with that.", ShapeObject},
		{"truncated", `{"question": "Which`, ShapeObject},
		{"array wanted, object with two fields", `{"a": [1], "b": [2]}`, ShapeArray},
		{"object wanted, array given", `["a", "b"]`, ShapeObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSON(tt.text, tt.shape)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}
