package pregel

import (
	"github.com/weso/pschema-go/ident"
	"github.com/weso/pschema-go/schema"
)

// Aggregate merges a batch of messages into one label set per recipient.
// Union is commutative, associative, and idempotent, so the outcome does
// not depend on delivery order or duplicate messages.
func Aggregate(msgs []Message) map[ident.ID]schema.LabelSet {
	merged := make(map[ident.ID]schema.LabelSet)
	for _, m := range msgs {
		set, ok := merged[m.To]
		if !ok {
			set = schema.NewLabelSet()
			merged[m.To] = set
		}
		set.Add(m.Shape)
	}
	return merged
}
