package pregel_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/weso/pschema-go/graph"
	"github.com/weso/pschema-go/ident"
	"github.com/weso/pschema-go/pregel"
	"github.com/weso/pschema-go/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ---------------------------------------------------------------------------
// fixtures
// ---------------------------------------------------------------------------

func newGraph(tb testing.TB, triples [][3]ident.ID) *graph.Graph {
	tb.Helper()
	g := graph.New()
	for _, tr := range triples {
		if err := g.AddEdge(tr[0], tr[1], tr[2]); err != nil {
			tb.Fatalf("AddEdge(%v): %v", tr, err)
		}
	}
	return g
}

func newRegistry(tb testing.TB, shapes ...schema.Shape) *schema.Registry {
	tb.Helper()
	reg := schema.NewRegistry()
	for _, s := range shapes {
		if err := reg.Register(s); err != nil {
			tb.Fatalf("Register(%q): %v", s.Name, err)
		}
	}
	return reg
}

// chainFixture wires v0 -P900-> Q900 plus vi -P901-> v(i-1) up to depth, with
// shape C0 matching the literal edge and each Ci referencing C(i-1). Labels
// ripple exactly one hop per superstep, which makes budgets easy to reason
// about.
func chainFixture(tb testing.TB, depth int) (*graph.Graph, *schema.Registry) {
	tb.Helper()
	anchor, pLit, pNext := ident.Q(900), ident.P(900), ident.P(901)
	triples := [][3]ident.ID{{chainVert(0), pLit, anchor}}
	shapes := []schema.Shape{schema.NewShape("C0", schema.Value(pLit, anchor))}
	for i := 1; i <= depth; i++ {
		triples = append(triples, [3]ident.ID{chainVert(i), pNext, chainVert(i - 1)})
		shapes = append(shapes, schema.NewShape(
			fmt.Sprintf("C%d", i),
			schema.Ref(pNext, fmt.Sprintf("C%d", i-1)),
		))
	}
	return newGraph(tb, triples), newRegistry(tb, shapes...)
}

func chainVert(i int) ident.ID { return ident.Q(uint64(100 + i)) }

// socialTriples is a fixed pseudo-random follower graph: forty vertices,
// three P24 edges each, every third one an instance of Q5.
func socialTriples() [][3]ident.ID {
	rng := rand.New(rand.NewSource(42))
	var triples [][3]ident.ID
	for i := uint64(1); i <= 40; i++ {
		if i%3 == 0 {
			triples = append(triples, [3]ident.ID{ident.Q(i), ident.P(31), ident.Q(5)})
		}
		for k := 0; k < 3; k++ {
			to := uint64(1 + rng.Intn(40))
			triples = append(triples, [3]ident.ID{ident.Q(i), ident.P(24), ident.Q(to)})
		}
	}
	return triples
}

func socialRegistry(tb testing.TB) *schema.Registry {
	return newRegistry(tb,
		schema.NewShape("Human", schema.Value(ident.P(31), ident.Q(5))),
		schema.NewShape("Social", schema.Ref(ident.P(24), "Human")),
		schema.NewShape("Hermit", schema.NotRef(ident.P(24), "Social")),
	)
}

// ---------------------------------------------------------------------------
// invocation contract
// ---------------------------------------------------------------------------

func TestRun_NilInputs(t *testing.T) {
	g := graph.New()
	reg := schema.NewRegistry()

	_, err := pregel.Run(context.Background(), nil, reg)
	require.ErrorIs(t, err, pregel.ErrGraphNil)

	_, err = pregel.Run(context.Background(), g, nil)
	require.ErrorIs(t, err, pregel.ErrRegistryNil)
}

func TestRun_OptionViolations(t *testing.T) {
	g := newGraph(t, [][3]ident.ID{{ident.Q(1), ident.P(31), ident.Q(5)}})

	_, err := pregel.Run(context.Background(), g, schema.NewRegistry(), pregel.WithMaxSupersteps(-1))
	require.ErrorIs(t, err, pregel.ErrOptionViolation)

	_, err = pregel.Run(context.Background(), g, schema.NewRegistry(), pregel.WithParallelism(-4))
	require.ErrorIs(t, err, pregel.ErrOptionViolation)
}

func TestRun_UnverifiableRegistry(t *testing.T) {
	g := newGraph(t, [][3]ident.ID{{ident.Q(1), ident.P(31), ident.Q(5)}})
	reg := newRegistry(t, schema.NewShape("Dangling", schema.Ref(ident.P(24), "Missing")))

	_, err := pregel.Run(context.Background(), g, reg)
	require.ErrorIs(t, err, schema.ErrUnknownShape)
}

func TestRun_EmptyRegistryConvergesInstantly(t *testing.T) {
	g := newGraph(t, [][3]ident.ID{{ident.Q(1), ident.P(31), ident.Q(5)}})

	res, err := pregel.Run(context.Background(), g, schema.NewRegistry())
	require.NoError(t, err)
	require.Equal(t, pregel.StatusConverged, res.Status)
	require.Zero(t, res.Supersteps)
	require.Zero(t, res.Strata)
	require.True(t, g.Frozen(), "a run must freeze its graph")

	// every vertex is reported, each with an empty label set
	require.Len(t, res.Labels, 1)
	require.Zero(t, res.Labels[ident.Q(1)].Len())
}

// ---------------------------------------------------------------------------
// rule semantics through the engine
// ---------------------------------------------------------------------------

func TestRun_ValueRuleLabelsInOneSuperstep(t *testing.T) {
	g := newGraph(t, [][3]ident.ID{{ident.Q(1), ident.P(31), ident.Q(5)}})
	reg := newRegistry(t, schema.NewShape("Human", schema.Value(ident.P(31), ident.Q(5))))

	// even a budget of one superstep is enough to commit the label
	res, err := pregel.Run(context.Background(), g, reg, pregel.WithMaxSupersteps(1))
	require.NoError(t, err)
	require.True(t, res.Holds(ident.Q(1), "Human"))

	// with headroom the run quiesces: one working round, one empty round
	res, err = pregel.Run(context.Background(), g, reg)
	require.NoError(t, err)
	require.Equal(t, pregel.StatusConverged, res.Status)
	require.Equal(t, 2, res.Supersteps)
	require.True(t, res.Holds(ident.Q(1), "Human"))
}

func TestRun_ExclusiveValueNeverLabels(t *testing.T) {
	male := ident.Q(6581097)
	g := newGraph(t, [][3]ident.ID{
		{ident.Q(2), ident.P(21), male},       // matches: permanently violated
		{ident.Q(3), ident.P(21), ident.Q(7)}, // different value: satisfied
	})
	reg := newRegistry(t, schema.NewShape("NotMale", schema.NotValue(ident.P(21), male)))

	res, err := pregel.Run(context.Background(), g, reg)
	require.NoError(t, err)
	require.Equal(t, pregel.StatusConverged, res.Status)
	require.False(t, res.Holds(ident.Q(2), "NotMale"))
	require.True(t, res.Holds(ident.Q(3), "NotMale"))
}

func TestRun_LiteralEndpointsStayUnlabeled(t *testing.T) {
	g := newGraph(t, [][3]ident.ID{{ident.Q(1), ident.P(31), ident.Q(5)}})
	reg := newRegistry(t, schema.NewShape("Human", schema.Value(ident.P(31), ident.Q(5))))

	res, err := pregel.Run(context.Background(), g, reg)
	require.NoError(t, err)

	// Q5 is an edge endpoint, not a vertex: it is matchable by value but
	// never evaluated, so it appears in no label report.
	require.NotContains(t, res.Labels, ident.Q(5))
	require.False(t, res.Holds(ident.Q(5), "Human"))
}

func TestRun_SelfLoopReactivatesSender(t *testing.T) {
	g := newGraph(t, [][3]ident.ID{
		{ident.Q(1), ident.P(31), ident.Q(5)},
		{ident.Q(1), ident.P(24), ident.Q(1)}, // knows itself
	})
	reg := newRegistry(t,
		schema.NewShape("Human", schema.Value(ident.P(31), ident.Q(5))),
		schema.NewShape("KnowsHuman", schema.Ref(ident.P(24), "Human")),
	)

	res, err := pregel.Run(context.Background(), g, reg)
	require.NoError(t, err)
	require.Equal(t, pregel.StatusConverged, res.Status)
	require.True(t, res.Holds(ident.Q(1), "Human"))
	require.True(t, res.Holds(ident.Q(1), "KnowsHuman"), "self-message must wake the vertex")
}

// ---------------------------------------------------------------------------
// convergence and propagation
// ---------------------------------------------------------------------------

func TestRun_MutuallyRecursiveShapesConverge(t *testing.T) {
	x, y, knows := ident.Q(10), ident.Q(11), ident.P(24)
	g := newGraph(t, [][3]ident.ID{{x, knows, y}, {y, knows, x}})
	reg := newRegistry(t,
		schema.NewShape("A", schema.Ref(knows, "B")),
		schema.NewShape("B", schema.Ref(knows, "A")),
	)

	res, err := pregel.Run(context.Background(), g, reg, pregel.WithMaxSupersteps(16))
	require.NoError(t, err)
	require.Equal(t, pregel.StatusConverged, res.Status, "cyclic references must not spin")
	require.Equal(t, 1, res.Supersteps)

	// the least fixpoint grants nothing: neither label can bootstrap
	for _, v := range []ident.ID{x, y} {
		require.False(t, res.Holds(v, "A"))
		require.False(t, res.Holds(v, "B"))
	}
}

func TestRun_ChainPropagatesOneHopPerSuperstep(t *testing.T) {
	const depth = 4
	g, reg := chainFixture(t, depth)

	res, err := pregel.Run(context.Background(), g, reg)
	require.NoError(t, err)
	require.Equal(t, pregel.StatusConverged, res.Status)
	require.Equal(t, depth+2, res.Supersteps)

	for i := 0; i <= depth; i++ {
		require.True(t, res.Holds(chainVert(i), fmt.Sprintf("C%d", i)))
		require.Equal(t, 1, res.Labels[chainVert(i)].Len(), "each link earns exactly its own label")
	}
}

func TestRun_BudgetExhaustionKeepsPartialLabels(t *testing.T) {
	g, reg := chainFixture(t, 6)

	res, err := pregel.Run(context.Background(), g, reg, pregel.WithMaxSupersteps(3))
	require.NoError(t, err, "hitting the budget is an outcome, not an error")
	require.Equal(t, pregel.StatusBudgetExhausted, res.Status)
	require.Equal(t, 3, res.Supersteps)

	for i := 0; i <= 2; i++ {
		require.True(t, res.Holds(chainVert(i), fmt.Sprintf("C%d", i)))
	}
	require.False(t, res.Holds(chainVert(3), "C3"), "unreached labels stay ungranted")
}

func TestRun_LabelsMonotoneAcrossBudgets(t *testing.T) {
	var prev *pregel.Result
	for budget := 1; budget <= 8; budget++ {
		g, reg := chainFixture(t, 4)
		res, err := pregel.Run(context.Background(), g, reg, pregel.WithMaxSupersteps(budget))
		require.NoError(t, err)
		if prev != nil {
			for v, set := range prev.Labels {
				for _, name := range set.Names() {
					require.Truef(t, res.Holds(v, name),
						"budget %d must keep label %q on %s granted at budget %d",
						budget, name, v, budget-1)
				}
			}
		}
		prev = res
	}
	require.Equal(t, pregel.StatusConverged, prev.Status)
}

// ---------------------------------------------------------------------------
// stratified exclusion
// ---------------------------------------------------------------------------

func TestRun_ExclusiveRefWaitsForLowerStratum(t *testing.T) {
	status, member, citizen := ident.P(39), ident.P(463), ident.P(27)
	bad, fine := ident.Q(999), ident.Q(1000)
	g := newGraph(t, [][3]ident.ID{
		{ident.Q(3), status, bad},        // Q3 is a bad actor
		{ident.Q(2), member, ident.Q(3)}, // Q2 is blacklisted one hop later
		{ident.Q(1), citizen, ident.Q(2)},
		{ident.Q(4), citizen, ident.Q(5)},
		{ident.Q(5), status, fine},
	})
	reg := newRegistry(t,
		schema.NewShape("BadActor", schema.Value(status, bad)),
		schema.NewShape("Blacklisted", schema.Ref(member, "BadActor")),
		schema.NewShape("Safe", schema.NotRef(citizen, "Blacklisted")),
	)

	res, err := pregel.Run(context.Background(), g, reg)
	require.NoError(t, err)
	require.Equal(t, pregel.StatusConverged, res.Status)
	require.Equal(t, 2, res.Strata)

	require.True(t, res.Holds(ident.Q(3), "BadActor"))
	require.True(t, res.Holds(ident.Q(2), "Blacklisted"))

	// Blacklisted needs two rounds to reach Q2. Safe must still see it,
	// which is exactly what evaluating Safe in a later stratum buys.
	require.False(t, res.Holds(ident.Q(1), "Safe"))
	require.True(t, res.Holds(ident.Q(4), "Safe"))
	require.True(t, res.Holds(ident.Q(5), "Safe"))
}

// ---------------------------------------------------------------------------
// determinism and isolation
// ---------------------------------------------------------------------------

func TestRun_DeterministicAcrossParallelismAndInsertionOrder(t *testing.T) {
	ordered := socialTriples()
	shuffled := make([][3]ident.ID, len(ordered))
	copy(shuffled, ordered)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cases := []struct {
		name    string
		triples [][3]ident.ID
		workers int
	}{
		{"serial", ordered, 1},
		{"parallel", ordered, 8},
		{"shuffled insertion", shuffled, 3},
	}

	var baseline *pregel.Result
	for _, tc := range cases {
		res, err := pregel.Run(context.Background(), newGraph(t, tc.triples), socialRegistry(t),
			pregel.WithParallelism(tc.workers))
		require.NoError(t, err, tc.name)
		require.Equal(t, pregel.StatusConverged, res.Status, tc.name)
		if baseline == nil {
			baseline = res
			continue
		}
		require.Empty(t, cmp.Diff(baseline.Labels, res.Labels), tc.name)
		require.Equal(t, baseline.Supersteps, res.Supersteps, tc.name)
	}
}

func TestRun_DisjointShapesDoNotInterfere(t *testing.T) {
	triples := [][3]ident.ID{
		{ident.Q(1), ident.P(31), ident.Q(5)},
		{ident.Q(2), ident.P(21), ident.Q(6581097)},
	}
	human := schema.NewShape("Human", schema.Value(ident.P(31), ident.Q(5)))
	other := schema.NewShape("HasSex", schema.Any(ident.P(21)))

	solo, err := pregel.Run(context.Background(), newGraph(t, triples), newRegistry(t, human))
	require.NoError(t, err)
	both, err := pregel.Run(context.Background(), newGraph(t, triples), newRegistry(t, human, other))
	require.NoError(t, err)

	for v := range solo.Labels {
		require.Equal(t, solo.Holds(v, "Human"), both.Holds(v, "Human"), v)
	}
	require.True(t, both.Holds(ident.Q(2), "HasSex"))
}

// ---------------------------------------------------------------------------
// cancellation
// ---------------------------------------------------------------------------

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, reg := chainFixture(t, 3)
	res, err := pregel.Run(ctx, g, reg)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, pregel.StatusAborted, res.Status)
	require.Zero(t, res.Supersteps)
}

func TestRun_CancelMidRunKeepsCommittedLabels(t *testing.T) {
	g, reg := chainFixture(t, 6)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	res, err := pregel.Run(ctx, g, reg, pregel.WithOnSuperstep(func(s pregel.SuperstepStats) {
		if s.Superstep == 2 {
			cancel()
		}
	}))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, pregel.StatusAborted, res.Status)
	require.Equal(t, 3, res.Supersteps, "the abort lands on the barrier after the hook fired")

	for i := 0; i <= 2; i++ {
		require.True(t, res.Holds(chainVert(i), fmt.Sprintf("C%d", i)))
	}
	require.False(t, res.Holds(chainVert(4), "C4"))
}

// ---------------------------------------------------------------------------
// odds and ends
// ---------------------------------------------------------------------------

func TestStatus_String(t *testing.T) {
	require.Equal(t, "running", pregel.StatusRunning.String())
	require.Equal(t, "converged", pregel.StatusConverged.String())
	require.Equal(t, "budget-exhausted", pregel.StatusBudgetExhausted.String())
	require.Equal(t, "aborted", pregel.StatusAborted.String())
}

func TestRun_SuperstepStatsAreReported(t *testing.T) {
	g, reg := chainFixture(t, 2)

	var seen []pregel.SuperstepStats
	res, err := pregel.Run(context.Background(), g, reg, pregel.WithOnSuperstep(func(s pregel.SuperstepStats) {
		seen = append(seen, s)
	}))
	require.NoError(t, err)
	require.Len(t, seen, res.Supersteps)

	require.Equal(t, 0, seen[0].Superstep)
	require.Equal(t, 3, seen[0].Active, "the first round computes every vertex")
	require.Equal(t, 1, seen[0].Labeled)
	require.Equal(t, 1, seen[0].Messages)
	last := seen[len(seen)-1]
	require.Zero(t, last.Labeled, "the final round only confirms quiescence")

	// Per-round additions must account for every final label exactly once:
	// labels are only ever added, never retracted between barriers.
	added := 0
	for _, s := range seen {
		added += s.Labeled
	}
	total := 0
	for _, set := range res.Labels {
		total += set.Len()
	}
	require.Equal(t, total, added)
}
