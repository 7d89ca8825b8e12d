package validator

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weso/pschema-go/graph"
	"github.com/weso/pschema-go/ident"
	"github.com/weso/pschema-go/pregel"
	"github.com/weso/pschema-go/schema"
)

// Option configures a validation run.
type Option func(*Options)

// Options holds validator knobs. Engine-level settings are collected and
// handed through to the scheduler untouched.
type Options struct {
	// Logger receives the run summary and is shared with the engine.
	Logger *zap.Logger

	engine []pregel.Option
}

// DefaultOptions returns Options with a no-op logger and engine defaults.
func DefaultOptions() Options {
	return Options{Logger: zap.NewNop()}
}

// WithLogger sets the logger for the run summary and the engine; nil is
// ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
			o.engine = append(o.engine, pregel.WithLogger(l))
		}
	}
}

// WithMaxSupersteps forwards the superstep budget to the engine.
func WithMaxSupersteps(n int) Option {
	return func(o *Options) { o.engine = append(o.engine, pregel.WithMaxSupersteps(n)) }
}

// WithParallelism forwards the worker count to the engine.
func WithParallelism(n int) Option {
	return func(o *Options) { o.engine = append(o.engine, pregel.WithParallelism(n)) }
}

// WithOnSuperstep forwards a per-round hook to the engine.
func WithOnSuperstep(fn func(pregel.SuperstepStats)) Option {
	return func(o *Options) { o.engine = append(o.engine, pregel.WithOnSuperstep(fn)) }
}

// Validate checks every vertex of g against the root shape. It resolves
// root up front (schema.ErrUnknownShape if absent), runs the scheduler to
// convergence or exhaustion, and reports, per vertex, whether root ended up
// in its label set, alongside the full assignment for diagnostics.
//
// A cancelled ctx yields the context error together with a Report carrying
// StatusAborted and everything committed before the abort.
func Validate(ctx context.Context, g *graph.Graph, reg *schema.Registry, root string, opts ...Option) (*Report, error) {
	if reg == nil {
		return nil, pregel.ErrRegistryNil
	}
	if _, err := reg.Resolve(root); err != nil {
		return nil, err
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	runID := uuid.New()
	o.Logger.Info("validation starting",
		zap.String("run_id", runID.String()),
		zap.String("root", root),
	)

	res, runErr := pregel.Run(ctx, g, reg, o.engine...)
	if res == nil {
		return nil, runErr
	}

	rep := &Report{
		RunID:      runID,
		Root:       root,
		Status:     res.Status,
		Supersteps: res.Supersteps,
		Strata:     res.Strata,
		Labels:     res.Labels,
	}
	o.Logger.Info("validation finished",
		zap.String("run_id", runID.String()),
		zap.Stringer("status", rep.Status),
		zap.Int("supersteps", rep.Supersteps),
		zap.Int("conforming", len(rep.Conforming())),
		zap.Int("vertices", len(rep.Labels)),
	)
	return rep, runErr
}

// sortIDs returns ids in ascending order without mutating the input.
func sortIDs(ids []ident.ID) []ident.ID {
	out := make([]ident.ID, len(ids))
	copy(out, ids)
	ident.Sort(out)
	return out
}
