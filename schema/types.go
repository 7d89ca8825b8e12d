// Package schema defines shape constraints and their registry: rules,
// three-valued rule outcomes, per-vertex label sets, and the stratified
// shape-reference analysis the engine runs on.
package schema

import "errors"

// Sentinel errors for shape definition and lookup.
var (
	// ErrUnknownShape is returned when a name resolves to no registered shape.
	ErrUnknownShape = errors.New("schema: unknown shape")

	// ErrDuplicateShape is returned when a name is registered twice.
	ErrDuplicateShape = errors.New("schema: duplicate shape")

	// ErrBadRule is returned when a rule is structurally invalid.
	ErrBadRule = errors.New("schema: malformed rule")

	// ErrBadDocument is returned when a YAML shape document cannot be decoded.
	ErrBadDocument = errors.New("schema: malformed shape document")

	// ErrExclusiveCycle is returned when a cycle in the shape-reference
	// graph passes through an exclusive reference. Such a cycle has no
	// monotone fixpoint, so it is rejected up front.
	ErrExclusiveCycle = errors.New("schema: exclusive reference cycle")
)

// Polarity states whether a rule requires the presence (Inclusive) or the
// absence (Exclusive) of a matching edge.
type Polarity int

const (
	// Inclusive rules need at least one matching edge.
	Inclusive Polarity = iota

	// Exclusive rules disqualify the vertex on any matching edge.
	Exclusive
)

// String returns "inclusive" or "exclusive".
func (p Polarity) String() string {
	if p == Exclusive {
		return "exclusive"
	}
	return "inclusive"
}

// TargetKind states what a rule matches an edge's target against.
type TargetKind int

const (
	// TargetValue matches when the edge target equals a concrete identifier.
	TargetValue TargetKind = iota

	// TargetShape matches when the edge target currently holds the
	// referenced shape label.
	TargetShape

	// TargetAny matches every edge with the rule's predicate.
	TargetAny
)

// String returns "value", "shape", or "any".
func (k TargetKind) String() string {
	switch k {
	case TargetShape:
		return "shape"
	case TargetAny:
		return "any"
	default:
		return "value"
	}
}

// Outcome is the three-valued result of evaluating a rule or a shape.
// Pending is deliberately the zero value: a rule that has not found a match
// yet is undecided, not false, because neighbor label sets may still grow.
type Outcome int

const (
	// Pending means undecided: no match yet, but one may still appear.
	Pending Outcome = iota

	// Satisfied means the constraint holds with current knowledge.
	Satisfied

	// Violated means the constraint can never hold for this vertex.
	Violated
)

// String returns "pending", "satisfied", or "violated".
func (o Outcome) String() string {
	switch o {
	case Satisfied:
		return "satisfied"
	case Violated:
		return "violated"
	default:
		return "pending"
	}
}
