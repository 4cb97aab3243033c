package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Chunk is one window of an ingested document's raw text.
type Chunk struct {
	ent.Schema
}

func (Chunk) Fields() []ent.Field {
	return []ent.Field{
		field.String("file_name").
			NotEmpty(),
		field.Int("sequence_number").
			NonNegative(),
		field.Text("raw_text"),
	}
}

func (Chunk) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("file_name", "sequence_number").
			Unique(),
	}
}
