package ingest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/certgen/internal/store"
)

// SummaryRecord is the YAML form of a summary.
type SummaryRecord struct {
	Title             string   `yaml:"title"`
	Topic             string   `yaml:"topic"`
	Text              string   `yaml:"summary"`
	KeyPoints         []string `yaml:"key_points"`
	PracticalExamples []string `yaml:"practical_examples"`
	References        []string `yaml:"references"`
	Domains           []string `yaml:"domains"`
}

type summaryFile struct {
	Summaries []SummaryRecord `yaml:"summaries"`
}

// ImportSummaries reads summaries from a YAML file. The document is
// either a list of records or a mapping with a "summaries" list.
func ImportSummaries(path string) ([]store.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summaries: %w", err)
	}
	return ParseSummaries(data)
}

// ParseSummaries decodes summary records from YAML.
func ParseSummaries(data []byte) ([]store.Summary, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse summaries: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	var records []SummaryRecord
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&records); err != nil {
			return nil, fmt.Errorf("parse summaries: %w", err)
		}
	case yaml.MappingNode:
		var f summaryFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse summaries: %w", err)
		}
		records = f.Summaries
	default:
		return nil, fmt.Errorf("parse summaries: line %d: expected a list or mapping", root.Line)
	}

	out := make([]store.Summary, 0, len(records))
	for i, r := range records {
		s := store.Summary{
			DocumentTitle:     strings.TrimSpace(r.Title),
			Topic:             strings.TrimSpace(r.Topic),
			Text:              strings.TrimSpace(r.Text),
			KeyPoints:         r.KeyPoints,
			PracticalExamples: r.PracticalExamples,
			References:        r.References,
			DomainTags:        NormalizeTags(r.Domains),
		}
		if s.Text == "" {
			return nil, fmt.Errorf("summary %d: summary text is required", i+1)
		}
		out = append(out, s)
	}
	return out, nil
}

// NormalizeTags trims tags and drops blanks and case-insensitive repeats.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
