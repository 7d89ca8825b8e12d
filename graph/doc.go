// Package graph provides the in-memory property graph validated by the
// engine: a set of vertices plus directed, predicate-labeled edges.
//
// What
//
//   - Edge: an ordered (From, Predicate, To) triple of identifiers.
//     Multiple edges may share (From, Predicate); byte-identical triples
//     are stored once.
//   - Graph: mutable while loading, immutable after Freeze. Every edge
//     source becomes a vertex automatically. Edge targets that are never
//     added as vertices are literal-only endpoints: they can be matched by
//     value rules but are themselves never validated.
//   - Reverse index: InNeighborIDs(v) lists the vertices with an edge
//     pointing at v, which is how new shape labels propagate back to the
//     vertices whose rules depend on them.
//
// Determinism
//
//	Once frozen, VertexIDs() is sorted, Out(v) is sorted by
//	(Predicate, To), and InNeighborIDs(v) is sorted. Every run over the
//	same frozen graph therefore observes identical iteration order.
//
// Concurrency
//
//	All methods are safe for concurrent use. After Freeze the graph is
//	read-only, so readers never contend.
//
// Errors
//
//   - ErrFrozen    on any mutation after Freeze.
//   - ErrMalformed on edges or vertices with empty identifiers.
package graph
