// Package schema models shape constraints over property graphs and the
// registry that resolves shape-to-shape references.
//
// What
//
//   - Rule: (predicate, target, polarity). Targets are a concrete value
//     identifier, a referenced shape name, or a wildcard. Inclusive rules
//     require a matching edge; exclusive rules forbid one.
//   - Shape: a named conjunction of rules. Rule and Shape evaluation is
//     three-valued (Satisfied / Pending / Violated) so that "no match yet,
//     neighbor labels may still grow" is never conflated with "provably
//     false".
//   - LabelSet: the monotonically growing set of shape names a vertex
//     satisfies. Merge is set union: commutative, associative, idempotent.
//   - Registry: arena-style storage of shapes keyed by name. Reference
//     cycles are first-class (mutually recursive shapes are legal);
//     Verify rejects only unresolved references and cycles that pass
//     through an exclusive rule, for which no monotone fixpoint exists.
//   - Strata: evaluation levels such that each exclusive reference points
//     strictly below and each inclusive reference at or below its own
//     level. Running one fixpoint per level keeps label sets monotone even
//     in the presence of exclusion.
//   - ParseYAML / LoadYAML / EncodeYAML: the YAML shape-document codec.
//
// Determinism
//
//	Names, References, Dependencies, Strata, and LabelSet.Names all return
//	sorted slices, so every consumer iterates shapes in a fixed order.
//
// Errors
//
//   - ErrUnknownShape    unresolved shape name (lookup or Verify).
//   - ErrDuplicateShape  Register name collision.
//   - ErrBadRule         structurally invalid rule or shape.
//   - ErrBadDocument     undecodable YAML shape document.
//   - ErrExclusiveCycle  reference cycle through an exclusive rule.
package schema
