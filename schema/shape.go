package schema

import (
	"fmt"
	"sort"

	"github.com/weso/pschema-go/graph"
)

// Shape is a named constraint: a vertex satisfies it iff every inclusive
// rule finds a matching edge and no exclusive rule does. A shape with no
// rules is vacuously satisfied by every vertex.
type Shape struct {
	Name  string
	Rules []Rule
}

// NewShape builds a shape from an ordered rule list.
func NewShape(name string, rules ...Rule) Shape {
	return Shape{Name: name, Rules: rules}
}

// Validate checks the shape name and every rule.
func (s Shape) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: shape has no name", ErrBadRule)
	}
	for i, r := range s.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("shape %q rule %d: %w", s.Name, i, err)
		}
	}
	return nil
}

// References returns the sorted set of shape names this shape's rules
// refer to.
func (s Shape) References() []string {
	seen := make(map[string]struct{})
	for _, r := range s.Rules {
		if r.Kind == TargetShape {
			seen[r.Shape] = struct{}{}
		}
	}
	refs := make([]string, 0, len(seen))
	for name := range seen {
		refs = append(refs, name)
	}
	sort.Strings(refs)
	return refs
}

// Evaluate combines the shape's rule outcomes with current neighbor label
// knowledge: Violated if any rule is Violated, Pending if any inclusive
// rule still lacks a match, Satisfied otherwise.
func (s Shape) Evaluate(out []graph.Edge, holds LabelLookup) Outcome {
	pending := false
	for _, r := range s.Rules {
		switch r.Evaluate(out, holds) {
		case Violated:
			return Violated
		case Pending:
			pending = true
		}
	}
	if pending {
		return Pending
	}
	return Satisfied
}
