package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Summary is a curated digest of one section of a study document.
type Summary struct {
	ent.Schema
}

func (Summary) Fields() []ent.Field {
	return []ent.Field{
		field.String("document_title").
			Default(""),
		field.String("topic").
			Default(""),
		field.Text("text").
			NotEmpty(),
		field.JSON("key_points", []string{}),
		field.JSON("practical_examples", []string{}),
		field.JSON("source_refs", []string{}).
			Comment("Page or section references in the source document"),
		field.JSON("domain_tags", []string{}).
			Comment("Exam domains, matched case-insensitively"),
		field.Int64("created_at").
			Immutable().
			Comment("Unix nanoseconds"),
	}
}

func (Summary) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("usage", UsageCounter.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

func (Summary) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_at"),
	}
}
