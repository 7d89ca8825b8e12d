package pregel

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/weso/pschema-go/ident"
	"github.com/weso/pschema-go/schema"
)

// Sentinel errors for engine invocation.
var (
	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("pregel: graph is nil")

	// ErrRegistryNil is returned if a nil registry pointer is passed.
	ErrRegistryNil = errors.New("pregel: registry is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("pregel: invalid option supplied")
)

// DefaultMaxSupersteps bounds a run when no explicit budget is set. Label
// sets are monotone and finite, so convergence is guaranteed long before
// this on any reasonable input; the budget is a guard against pathological
// ones.
const DefaultMaxSupersteps = 10_000

// Status is the global state of a validation run.
type Status int

const (
	// StatusRunning means supersteps are still being executed.
	StatusRunning Status = iota

	// StatusConverged means no vertex is active anywhere: the label
	// assignment is the full fixpoint.
	StatusConverged

	// StatusBudgetExhausted means the superstep budget was reached first.
	// The assignment is a sound under-approximation of the fixpoint.
	StatusBudgetExhausted

	// StatusAborted means the run was cancelled between supersteps.
	StatusAborted
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusBudgetExhausted:
		return "budget-exhausted"
	case StatusAborted:
		return "aborted"
	default:
		return "running"
	}
}

// Message tells a vertex that one of its out-neighbors now satisfies a
// shape, and that any rule depending on that label should be re-checked.
type Message struct {
	To    ident.ID
	Shape string
}

// SuperstepStats summarizes one completed superstep for hooks and logs.
type SuperstepStats struct {
	// Superstep is the zero-based global round index across all strata.
	Superstep int

	// Stratum is the evaluation level the round belongs to.
	Stratum int

	// Active is the number of vertices that computed this round.
	Active int

	// Labeled is the number of labels added at the barrier.
	Labeled int

	// Messages is the number of messages emitted at the barrier,
	// counted before per-recipient deduplication.
	Messages int
}

// Option configures a run via functional arguments. Invalid values are
// recorded and surfaced as ErrOptionViolation when Run is invoked.
type Option func(*Options)

// Options holds engine tuning knobs.
type Options struct {
	// MaxSupersteps caps the total number of rounds across all strata.
	MaxSupersteps int

	// Parallelism is the number of workers computing vertices within a
	// superstep. It never changes the result, only the wall time.
	Parallelism int

	// Logger receives run, stratum, and superstep progress.
	Logger *zap.Logger

	// OnSuperstep is called after every barrier with that round's stats.
	OnSuperstep func(SuperstepStats)

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with the default budget, one worker per
// available CPU, a no-op logger, and a no-op superstep hook.
func DefaultOptions() Options {
	return Options{
		MaxSupersteps: DefaultMaxSupersteps,
		Parallelism:   runtime.GOMAXPROCS(0),
		Logger:        zap.NewNop(),
		OnSuperstep:   func(SuperstepStats) {},
	}
}

// WithMaxSupersteps caps the total superstep count.
//
//	n > 0:  cap at n
//	n == 0: explicit default (DefaultMaxSupersteps)
//	n < 0:  invalid option → ErrOptionViolation
func WithMaxSupersteps(n int) Option {
	return func(o *Options) {
		switch {
		case n < 0:
			o.err = fmt.Errorf("%w: MaxSupersteps cannot be negative (%d)", ErrOptionViolation, n)
		case n == 0:
			o.MaxSupersteps = DefaultMaxSupersteps
		default:
			o.MaxSupersteps = n
		}
	}
}

// WithParallelism sets the worker count for the compute phase.
//
//	n > 0:  use n workers
//	n == 0: explicit default (GOMAXPROCS)
//	n < 0:  invalid option → ErrOptionViolation
func WithParallelism(n int) Option {
	return func(o *Options) {
		switch {
		case n < 0:
			o.err = fmt.Errorf("%w: Parallelism cannot be negative (%d)", ErrOptionViolation, n)
		case n == 0:
			o.Parallelism = runtime.GOMAXPROCS(0)
		default:
			o.Parallelism = n
		}
	}
}

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithOnSuperstep registers a hook called after every barrier.
func WithOnSuperstep(fn func(SuperstepStats)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnSuperstep = fn
		}
	}
}

// Result is the outcome of a run: the final (or, under budget exhaustion
// and aborts, best-known partial) label assignment plus run accounting.
type Result struct {
	// Status is StatusConverged, StatusBudgetExhausted, or StatusAborted.
	Status Status

	// Supersteps is the number of rounds executed across all strata.
	Supersteps int

	// Strata is the number of evaluation levels that ran to convergence.
	Strata int

	// Labels maps every vertex to the set of shape names it satisfies.
	Labels map[ident.ID]schema.LabelSet
}

// Holds reports whether vertex v satisfies the named shape.
func (r *Result) Holds(v ident.ID, shape string) bool {
	return r.Labels[v].Has(shape)
}
