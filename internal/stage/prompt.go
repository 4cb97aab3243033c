package stage

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = `You write certification exam questions.

Rules:
- Base the question strictly on the provided context. Do not invent facts.
- Open with a short, realistic scenario (2-4 sentences) a practitioner could face.
- Follow with one clear question that has a single best answer.
- Do not include answer options, hints or the answer itself.
- Reply with JSON only: {"scenario": "...", "question": "..."}`

const answerSystemPrompt = `You are a subject matter expert answering a certification exam question.

Rules:
- Give the single best answer as one concise sentence (under 200 characters).
- Justify it using only the provided context.
- List the context sections or documents that support it under "references".
- Give short practical examples under "examples". Use empty lists when there are none.
- Reply with JSON only: {"correct_answer": "...", "justification": "...", "references": ["..."], "examples": ["..."]}`

const distractorSystemPrompt = `You write distractors (plausible wrong answers) for certification exam questions.

Rules:
- Write exactly 3 distractors.
- Each must be clearly wrong for the scenario but plausible to a partly prepared candidate.
- Match the correct answer's length, tone and grammatical form.
- Never restate or paraphrase the correct answer, and never repeat each other.
- Reply with a JSON array of 3 strings only: ["...", "...", "..."]`

func buildQuestionMessage(in QuestionInput) string {
	var b strings.Builder
	if in.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n\n", in.Topic)
	}
	b.WriteString("Context:\n")
	b.WriteString(in.Context)
	return b.String()
}

func buildAnswerMessage(in AnswerInput) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(in.Context)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(in.Question.Text())
	return b.String()
}

func buildDistractorMessage(in DistractorInput) string {
	var b strings.Builder
	if in.Context != "" {
		b.WriteString("Context:\n")
		b.WriteString(in.Context)
		b.WriteString("\n\n")
	}
	b.WriteString("Question:\n")
	b.WriteString(in.Question.Text())
	fmt.Fprintf(&b, "\n\nCorrect answer (%d words):\n%s", wordCount(in.Answer.CorrectAnswer), in.Answer.CorrectAnswer)
	return b.String()
}
