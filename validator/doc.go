// Package validator wires a root shape, a shape registry, and a graph into
// the bulk-synchronous engine and turns the final label assignment into a
// conformance report.
//
// What it does:
//
//   - Resolves the root shape before any work starts, so an unknown root
//     fails fast with schema.ErrUnknownShape.
//   - Runs pregel.Run to convergence, budget exhaustion, or abort.
//   - Tags every run with a fresh RunID and logs a start/finish summary.
//   - Exposes the outcome as a Report: per-vertex conformance under the
//     root shape plus the full label map for diagnostics.
//
// The package adds no semantics of its own; everything it reports is the
// engine's fixpoint viewed through one chosen shape.
package validator
