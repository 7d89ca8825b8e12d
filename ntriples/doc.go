// Package ntriples reads and writes property graphs as N-Triples lines,
// the ingestion and export collaborators around the validation engine.
//
// What
//
//   - Import / ImportFile: decode `<s> <p> o .` statements into a graph.
//     Blank lines and #-comments are skipped. Subjects and predicates are
//     IRIs (subjects may also be blank nodes); objects may be IRIs,
//     literals, or blank nodes. Literal objects land in the graph as
//     literal-only endpoints: value rules can match them, but they are
//     never validated.
//   - Export: write the out-edges of every kept vertex back out, in the
//     graph's deterministic order. Passing Report.Conforms as the filter
//     exports exactly the conforming subset.
//
// Statement decoding and term serialization ride github.com/knakk/rdf;
// this package adds the line accounting, the graph mapping, and the
// Wikidata namespace layer: IRIs under the entity or direct-property
// namespaces are shortened to their local names on import ("Q42", "P31")
// so graph data lines up with shape documents, and expanded back on
// export. All other IRIs pass through untouched.
//
// Errors
//
//   - ErrParse, carrying the line number, for malformed statements.
//   - graph errors (ErrFrozen, ErrMalformed) surface unchanged when the
//     target graph rejects an edge.
package ntriples
