package schema

import (
	"fmt"

	"github.com/weso/pschema-go/graph"
	"github.com/weso/pschema-go/ident"
)

// Rule is one constraint over a vertex's outgoing edges: a predicate to
// filter by, a target to match edge endpoints against, and a polarity.
type Rule struct {
	Predicate ident.ID
	Kind      TargetKind
	Value     ident.ID // target identifier when Kind == TargetValue
	Shape     string   // referenced shape name when Kind == TargetShape
	Polarity  Polarity
}

// Value builds an inclusive rule: at least one edge (v, predicate, value)
// must exist.
func Value(predicate, value ident.ID) Rule {
	return Rule{Predicate: predicate, Kind: TargetValue, Value: value}
}

// Ref builds an inclusive rule: at least one edge with the predicate must
// point at a vertex satisfying the referenced shape.
func Ref(predicate ident.ID, shape string) Rule {
	return Rule{Predicate: predicate, Kind: TargetShape, Shape: shape}
}

// Any builds an inclusive wildcard rule: at least one edge with the
// predicate must exist, whatever its target.
func Any(predicate ident.ID) Rule {
	return Rule{Predicate: predicate, Kind: TargetAny}
}

// NotValue builds an exclusive rule: no edge (v, predicate, value) may exist.
func NotValue(predicate, value ident.ID) Rule {
	return Rule{Predicate: predicate, Kind: TargetValue, Value: value, Polarity: Exclusive}
}

// NotRef builds an exclusive rule: no edge with the predicate may point at
// a vertex satisfying the referenced shape.
func NotRef(predicate ident.ID, shape string) Rule {
	return Rule{Predicate: predicate, Kind: TargetShape, Shape: shape, Polarity: Exclusive}
}

// NotAny builds an exclusive rule: the vertex may have no edge with the
// predicate at all.
func NotAny(predicate ident.ID) Rule {
	return Rule{Predicate: predicate, Kind: TargetAny, Polarity: Exclusive}
}

// Validate checks the rule's structural invariants.
func (r Rule) Validate() error {
	if r.Predicate == "" {
		return fmt.Errorf("%w: empty predicate", ErrBadRule)
	}
	switch r.Kind {
	case TargetValue:
		if r.Value == "" {
			return fmt.Errorf("%w: value rule on %q has no value", ErrBadRule, r.Predicate)
		}
		if r.Shape != "" {
			return fmt.Errorf("%w: value rule on %q also names shape %q", ErrBadRule, r.Predicate, r.Shape)
		}
	case TargetShape:
		if r.Shape == "" {
			return fmt.Errorf("%w: shape rule on %q has no shape name", ErrBadRule, r.Predicate)
		}
		if r.Value != "" {
			return fmt.Errorf("%w: shape rule on %q also carries value %q", ErrBadRule, r.Predicate, r.Value)
		}
	case TargetAny:
		if r.Value != "" || r.Shape != "" {
			return fmt.Errorf("%w: wildcard rule on %q carries a target", ErrBadRule, r.Predicate)
		}
	default:
		return fmt.Errorf("%w: unknown target kind %d", ErrBadRule, int(r.Kind))
	}
	return nil
}

// LabelLookup reports whether vertex v is currently known to satisfy the
// named shape. Implementations must answer from state committed at the
// previous superstep barrier, never from in-flight updates.
type LabelLookup func(v ident.ID, shape string) bool

// Evaluate decides the rule against a vertex's outgoing edges. Edges with
// a different predicate are ignored; holds supplies neighbor label
// knowledge for shape-reference targets.
//
// Inclusive rules are Satisfied on the first matching edge and Pending
// otherwise: a missing match is not yet a violation, because for
// shape-reference targets the neighbor's labels may still grow. Exclusive
// rules are Violated on the first matching edge and Satisfied otherwise;
// the caller guarantees (by stratified evaluation) that a "no match" answer
// for exclusive references is final.
func (r Rule) Evaluate(out []graph.Edge, holds LabelLookup) Outcome {
	matched := false
	for _, e := range out {
		if e.Predicate != r.Predicate {
			continue
		}
		switch r.Kind {
		case TargetValue:
			matched = e.To == r.Value
		case TargetShape:
			matched = holds != nil && holds(e.To, r.Shape)
		case TargetAny:
			matched = true
		}
		if matched {
			break
		}
	}
	if r.Polarity == Exclusive {
		if matched {
			return Violated
		}
		return Satisfied
	}
	if matched {
		return Satisfied
	}
	return Pending
}
