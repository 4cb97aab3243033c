package stage

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Shape is the top-level JSON kind a stage expects.
type Shape int

const (
	ShapeObject Shape = iota
	ShapeArray
)

func (s Shape) String() string {
	if s == ShapeArray {
		return "array"
	}
	return "object"
}

var (
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

// StripFences removes a leading ```json (or bare ```) fence and a
// trailing ``` fence. Unfenced text is only trimmed, so the function is
// idempotent.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ExtractJSON recovers a JSON value of the wanted shape from a model
// reply. It tries the fence-stripped text as a whole first, then the
// widest {...} or [...] span inside it. An object holding exactly one
// array field satisfies ShapeArray with that array.
func ExtractJSON(text string, shape Shape) (any, error) {
	s := StripFences(text)
	if s == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedResponse)
	}

	if v, ok := parseShape(s, shape); ok {
		return v, nil
	}

	pattern := objectPattern
	if shape == ShapeArray {
		pattern = arrayPattern
	}
	if m := pattern.FindString(s); m != "" {
		if v, ok := parseShape(m, shape); ok {
			return v, nil
		}
	}
	// A wrapped array may sit inside an object span.
	if shape == ShapeArray {
		if m := objectPattern.FindString(s); m != "" {
			if v, ok := parseShape(m, shape); ok {
				return v, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: no JSON %s found", ErrMalformedResponse, shape)
}

func parseShape(s string, shape Shape) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}

	switch val := v.(type) {
	case map[string]any:
		if shape == ShapeObject {
			return val, true
		}
		return singleArrayField(val)
	case []any:
		return val, shape == ShapeArray
	}
	return nil, false
}

func singleArrayField(obj map[string]any) (any, bool) {
	if len(obj) != 1 {
		return nil, false
	}
	for _, v := range obj {
		if arr, ok := v.([]any); ok {
			return arr, true
		}
	}
	return nil, false
}
