// Package pregel drives shape validation as a bulk-synchronous parallel
// computation over a frozen property graph.
//
// What it does:
//
//   - Splits the run into supersteps. In each one, every active vertex
//     re-evaluates candidate shapes against the label state committed at
//     the previous barrier, never against in-flight work.
//   - Applies new labels at the barrier, in ascending vertex order, and
//     sends a Message for each new label to the vertices that point at the
//     newly labeled one, waking exactly the rules that could now fire.
//   - Lets every vertex with no additions and no mail vote to halt; the run
//     converges when no vertex is active in any stratum.
//
// Stratification:
//
// Shapes are evaluated level by level, in the order produced by
// schema.Registry.Strata. A stratum's fixpoint is final before any higher
// stratum starts, so an exclusive reference only ever reads labels that can
// no longer change. Within a stratum, labels are only added, which makes the
// per-stratum rounds a monotone fixpoint iteration with a guaranteed finite
// bound of |shapes| x |vertices| additions.
//
// Determinism:
//
// Results are bit-for-bit identical across runs and across any Parallelism
// setting. Workers read shared state that is immutable for the duration of
// the compute phase and write only disjoint slots; all mutation happens
// single-threaded at the barrier in sorted vertex order.
//
// Errors:
//
//   - ErrGraphNil / ErrRegistryNil for nil inputs.
//   - ErrOptionViolation for invalid Option values.
//   - schema.ErrUnknownShape / schema.ErrExclusiveCycle surface from
//     registry verification before the first superstep.
//   - ctx cancellation returns the context's error alongside a Result
//     carrying StatusAborted and all labels committed so far.
//
// Budget exhaustion is not an error: the Result reports
// StatusBudgetExhausted and the labels are a sound under-approximation
// (every granted label is correct; some vertices may still be unlabeled).
package pregel
