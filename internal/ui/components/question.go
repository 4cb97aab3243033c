// Package components renders domain values for the terminal.
package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/certgen/internal/store"
	"github.com/abhisek/certgen/internal/ui/theme"
)

// Labels name the four options in display order.
var Labels = [4]string{"A", "B", "C", "D"}

// QuestionView controls how much of a question is shown.
type QuestionView struct {
	ShowAnswer  bool
	ShowDetails bool // explanation, references and provenance
}

// RenderQuestion renders q as a card headed by its id and topic.
func RenderQuestion(q store.GeneratedQuestion, v QuestionView) string {
	var b strings.Builder

	header := q.ID
	if q.Topic != "" {
		header += "  " + q.Topic
	}
	b.WriteString(theme.Title.Render(header) + "\n\n")
	b.WriteString(theme.Body.Bold(true).Render(q.QuestionText) + "\n\n")

	for i, opt := range q.Options {
		line := fmt.Sprintf("%s)  %s", Labels[i], opt)
		switch {
		case v.ShowAnswer && i == q.CorrectIndex:
			b.WriteString(theme.Correct.Render(line+"  ✓") + "\n")
		case v.ShowAnswer:
			b.WriteString(theme.Hint.UnsetItalic().Render(line) + "\n")
		default:
			b.WriteString(theme.Unselected.Render(line) + "\n")
		}
	}

	if v.ShowDetails {
		if q.Explanation != "" {
			b.WriteString("\n" + theme.Body.Render(q.Explanation) + "\n")
		}
		writeList(&b, "References", q.Metadata.References)
		writeList(&b, "Examples", q.Metadata.Examples)
		for _, w := range q.Metadata.Warnings {
			b.WriteString(theme.Warning.Render("! "+w) + "\n")
		}
		var prov []string
		if q.Metadata.Model != "" {
			prov = append(prov, "model "+q.Metadata.Model)
		}
		if len(q.Metadata.SummaryIDs) > 0 {
			prov = append(prov, "summaries "+joinIDs(q.Metadata.SummaryIDs))
		}
		if len(q.Metadata.ChunkIDs) > 0 {
			prov = append(prov, "chunks "+joinIDs(q.Metadata.ChunkIDs))
		}
		if len(prov) > 0 {
			b.WriteString("\n" + theme.Hint.Render(strings.Join(prov, " · ")) + "\n")
		}
	}

	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

// AnswerLabel returns the label of the correct option.
func AnswerLabel(q store.GeneratedQuestion) string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(Labels) {
		return "?"
	}
	return Labels[q.CorrectIndex]
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + theme.Hint.Render(label+":") + "\n")
	for _, it := range items {
		b.WriteString("  - " + it + "\n")
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
