package pregel

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/weso/pschema-go/graph"
	"github.com/weso/pschema-go/ident"
	"github.com/weso/pschema-go/schema"
)

// Run executes the bulk-synchronous validation computation over g with the
// shapes held by reg and returns the resulting label assignment.
//
// The registry is verified and stratified first; each stratum is driven to
// its fixpoint before the next one starts, so exclusive references only ever
// consult labels that can no longer change. Within a stratum the engine runs
// supersteps: every active vertex re-evaluates the stratum's shapes against
// the state committed at the previous barrier, additions are applied in
// ascending vertex order, and messages wake the in-neighbors of every vertex
// whose label set grew. Labels are only ever added, so the rounds converge.
//
// Run freezes g. The zero options give a deterministic result at any
// Parallelism setting; cancelling ctx stops the run at the next barrier
// with StatusAborted and the labels committed so far.
func Run(ctx context.Context, g *graph.Graph, reg *schema.Registry, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if reg == nil {
		return nil, ErrRegistryNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	strata, err := reg.Strata()
	if err != nil {
		return nil, err
	}

	g.Freeze()
	return newEngine(g, reg, strata, o).run(ctx)
}

// engine carries the run state: a dense index-space snapshot of the frozen
// graph, the committed label sets, and the stratified shape order.
type engine struct {
	opts   Options
	log    *zap.Logger
	strata [][]string

	verts  []ident.ID       // sorted vertex ids; position is the dense handle
	index  map[ident.ID]int // id -> handle
	out    [][]graph.Edge   // out-edges per handle, frozen order
	in     [][]int          // in-neighbor handles per handle, ascending
	labels []schema.LabelSet

	shapes map[string]schema.Shape
	refs   map[string][]string // shape -> shapes it references
}

func newEngine(g *graph.Graph, reg *schema.Registry, strata [][]string, o Options) *engine {
	verts := g.VertexIDs()
	e := &engine{
		opts:   o,
		log:    o.Logger,
		strata: strata,
		verts:  verts,
		index:  make(map[ident.ID]int, len(verts)),
		out:    make([][]graph.Edge, len(verts)),
		in:     make([][]int, len(verts)),
		labels: make([]schema.LabelSet, len(verts)),
		shapes: make(map[string]schema.Shape, reg.Len()),
		refs:   make(map[string][]string, reg.Len()),
	}
	for i, v := range verts {
		e.index[v] = i
	}
	for i, v := range verts {
		e.out[i] = g.Out(v)
		nbrs := g.InNeighborIDs(v)
		handles := make([]int, 0, len(nbrs))
		for _, u := range nbrs {
			handles = append(handles, e.index[u]) // edge sources are always vertices
		}
		e.in[i] = handles
		e.labels[i] = schema.NewLabelSet()
	}
	for _, name := range reg.Names() {
		s, _ := reg.Resolve(name)
		e.shapes[name] = s
		e.refs[name] = s.References()
	}
	return e
}

// run drives every stratum to convergence, or stops early on budget
// exhaustion or cancellation.
func (e *engine) run(ctx context.Context) (*Result, error) {
	e.log.Info("validation run starting",
		zap.Int("vertices", len(e.verts)),
		zap.Int("shapes", len(e.shapes)),
		zap.Int("strata", len(e.strata)),
		zap.Int("max_supersteps", e.opts.MaxSupersteps),
	)

	superstep := 0
	for level, names := range e.strata {
		status, err := e.fixpoint(ctx, level, names, &superstep)
		switch {
		case err != nil:
			e.log.Warn("validation run aborted",
				zap.Int("superstep", superstep),
				zap.Error(err),
			)
			return e.result(StatusAborted, superstep, level), err
		case status == StatusBudgetExhausted:
			e.log.Warn("superstep budget exhausted",
				zap.Int("superstep", superstep),
				zap.Int("stratum", level),
			)
			return e.result(StatusBudgetExhausted, superstep, level), nil
		}
	}

	e.log.Info("validation run converged", zap.Int("supersteps", superstep))
	return e.result(StatusConverged, superstep, len(e.strata)), nil
}

// fixpoint runs supersteps over one stratum's shapes until no vertex is
// active. In the first round every vertex evaluates every stratum shape;
// afterwards a vertex only re-evaluates shapes whose referenced labels
// arrived in its inbox, which cannot change the fixpoint because value
// rules never change outcome and reference rules only react to growth.
func (e *engine) fixpoint(ctx context.Context, level int, names []string, superstep *int) (Status, error) {
	active := make([]int, len(e.verts))
	for i := range active {
		active[i] = i
	}
	inbox := make([]schema.LabelSet, len(e.verts))
	first := true

	for len(active) > 0 {
		if err := ctx.Err(); err != nil {
			return StatusAborted, err
		}
		if *superstep >= e.opts.MaxSupersteps {
			return StatusBudgetExhausted, nil
		}

		additions, err := e.computePhase(ctx, names, active, inbox, first)
		if err != nil {
			// cancellation mid-round: staged additions are discarded,
			// committed state stays at the last barrier
			return StatusAborted, err
		}

		// Barrier: commit additions in ascending vertex order, then wake
		// the in-neighbors of every vertex whose label set grew.
		var msgs []Message
		computed := len(active)
		labeled := 0
		stayActive := make([]bool, len(e.verts))
		for k, i := range active {
			for _, name := range additions[k] {
				if !e.labels[i].Add(name) {
					continue
				}
				labeled++
				stayActive[i] = true
				for _, u := range e.in[i] {
					msgs = append(msgs, Message{To: e.verts[u], Shape: name})
				}
			}
		}

		inbox = make([]schema.LabelSet, len(e.verts))
		for v, set := range Aggregate(msgs) {
			i := e.index[v]
			inbox[i] = set
			stayActive[i] = true
		}
		active = active[:0]
		for i, on := range stayActive {
			if on {
				active = append(active, i)
			}
		}

		stats := SuperstepStats{
			Superstep: *superstep,
			Stratum:   level,
			Active:    computed,
			Labeled:   labeled,
			Messages:  len(msgs),
		}
		e.log.Debug("superstep complete",
			zap.Int("superstep", stats.Superstep),
			zap.Int("stratum", stats.Stratum),
			zap.Int("active", stats.Active),
			zap.Int("labeled", stats.Labeled),
			zap.Int("messages", stats.Messages),
		)
		e.opts.OnSuperstep(stats)
		*superstep++
		first = false
	}
	return StatusConverged, nil
}

// computePhase evaluates all active vertices against the committed state,
// splitting the work across the configured number of workers. Each worker
// owns a disjoint chunk of the active list and writes only its own slots,
// so the phase is race-free and its output is independent of scheduling.
func (e *engine) computePhase(ctx context.Context, names []string, active []int, inbox []schema.LabelSet, first bool) ([][]string, error) {
	additions := make([][]string, len(active))

	workers := e.opts.Parallelism
	if workers > len(active) {
		workers = len(active)
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (len(active) + workers - 1) / workers

	grp, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(active))
		if lo >= hi {
			break
		}
		grp.Go(func() error {
			for k := lo; k < hi; k++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				additions[k] = e.compute(active[k], names, inbox, first)
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return additions, nil
}

// compute evaluates the stratum's shapes for one vertex and returns the
// labels it newly satisfies. It reads only state committed at the previous
// barrier and shares nothing mutable with other workers.
func (e *engine) compute(i int, names []string, inbox []schema.LabelSet, first bool) []string {
	var won []string
	held := e.labels[i]
	arrived := inbox[i]
	for _, name := range names {
		if held.Has(name) {
			continue
		}
		if !first && !touches(e.refs[name], arrived) {
			continue
		}
		if e.shapes[name].Evaluate(e.out[i], e.holds) == schema.Satisfied {
			won = append(won, name)
		}
	}
	return won
}

// touches reports whether any of the referenced shape names arrived.
func touches(refs []string, arrived schema.LabelSet) bool {
	for _, ref := range refs {
		if arrived.Has(ref) {
			return true
		}
	}
	return false
}

// holds is the label lookup handed to rule evaluation. Endpoints that are
// not vertices carry no labels and never satisfy a reference.
func (e *engine) holds(v ident.ID, shape string) bool {
	i, ok := e.index[v]
	if !ok {
		return false
	}
	return e.labels[i].Has(shape)
}

func (e *engine) result(status Status, supersteps, strata int) *Result {
	labels := make(map[ident.ID]schema.LabelSet, len(e.verts))
	for i, v := range e.verts {
		labels[v] = e.labels[i].Clone()
	}
	return &Result{
		Status:     status,
		Supersteps: supersteps,
		Strata:     strata,
		Labels:     labels,
	}
}
