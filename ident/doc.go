// Package ident defines the opaque identifiers that name vertices,
// predicates, and literal values throughout pschema-go.
//
// What
//
//   - ID: an immutable, hashable, totally-ordered token. Two IDs are equal
//     iff their textual forms are equal; ordering is lexicographic.
//   - Compare, Sort: explicit ordering helpers used wherever deterministic
//     iteration over identifier sets is required.
//   - Q, P, L: constructors for Wikidata-style entity, property, and lexeme
//     identifiers ("Q42", "P31", "L99"); Parse validates a textual form.
//   - ToNumeric / FromNumeric: the reversible packing between textual
//     Wikidata identifiers and the single unsigned-integer space used by
//     columnar graph dumps (entities occupy [0, 1e9), properties start at
//     1e9, lexemes at 2e9, forms and senses are folded in above 1e11).
//
// Why
//
//	The validation engine treats identifiers as opaque: it never inspects
//	their structure, only compares and orders them. The numeric packing
//	exists solely so that integer-keyed dump files round-trip to readable
//	identifiers without a symbol table.
//
// Errors
//
//   - ErrNotWikidata if ToNumeric is given an identifier outside the
//     Q/P/L/F/S grammar.
package ident
