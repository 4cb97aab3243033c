package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GeneratedQuestion is an assembled multiple-choice question.
type GeneratedQuestion struct {
	ent.Schema
}

func (GeneratedQuestion) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "questions"},
	}
}

func (GeneratedQuestion) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("UUID"),
		field.Text("question_text"),
		field.JSON("options", [4]string{}),
		field.Int("correct_index").
			Range(0, 3),
		field.Text("explanation").
			Default(""),
		field.String("topic").
			Default(""),
		field.JSON("metadata", map[string]any{}).
			Comment("Scenario, source ids, warnings and model"),
		field.Int64("created_at").
			Immutable().
			Comment("Unix nanoseconds"),
	}
}

func (GeneratedQuestion) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_at"),
		index.Fields("topic"),
	}
}
