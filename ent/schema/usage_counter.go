package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// UsageCounter tracks how many saved questions drew on a summary.
type UsageCounter struct {
	ent.Schema
}

func (UsageCounter) Fields() []ent.Field {
	return []ent.Field{
		field.Int("summary_id").
			Unique(),
		field.Int("usage_count").
			Default(0).
			NonNegative(),
		field.Int64("last_used_at").
			Comment("Unix nanoseconds of the latest increment"),
	}
}

func (UsageCounter) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("summary", Summary.Type).
			Ref("usage").
			Field("summary_id").
			Unique().
			Required(),
	}
}
