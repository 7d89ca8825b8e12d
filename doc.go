// Package pschema is the root of pschema-go, a bulk-synchronous shape
// validator for large property graphs.
//
// A graph is a set of entities connected by typed relations; a shape is a
// named constraint over an entity's outgoing relations, possibly referencing
// other shapes, including recursively. Validation runs as a Pregel-style
// computation: every vertex repeatedly re-evaluates candidate shapes against
// its local edges and its neighbors' known labels, supersteps are separated
// by barriers, new labels propagate as messages along reverse edges, and the
// run converges when no vertex can learn anything more.
//
// The work is organized into focused subpackages:
//
//	ident/      — opaque identifiers and the Wikidata numeric packing
//	graph/      — the frozen in-memory multigraph (vertices, labeled edges)
//	schema/     — rules, shapes, the registry, strata, YAML shape documents
//	pregel/     — the superstep scheduler and message aggregation
//	validator/  — orchestration: root shape in, conformance report out
//	ntriples/   — N-Triples import and conforming-subset export
//	store/      — SQLite edge-dump loading
//	cmd/pschema — the command-line front end
//
// Most callers need only validator.Validate:
//
//	g := graph.New()
//	_ = g.AddEdge("Q80", "P31", "Q5")
//
//	reg := schema.NewRegistry()
//	_ = reg.Register(schema.NewShape("Human", schema.Value("P31", "Q5")))
//
//	rep, err := validator.Validate(ctx, g, reg, "Human")
//
// Label sets only ever grow during a run, which is what guarantees
// convergence even for mutually recursive shape definitions.
package pschema
