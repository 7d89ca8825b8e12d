package graph

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/weso/pschema-go/ident"
)

// Sentinel errors for graph construction.
var (
	// ErrFrozen is returned when a mutation is attempted after Freeze.
	ErrFrozen = errors.New("graph: graph is frozen")

	// ErrMalformed is returned when an edge or vertex carries an empty
	// identifier.
	ErrMalformed = errors.New("graph: malformed input")
)

// Edge is a directed, predicate-labeled relation between two identifiers.
type Edge struct {
	From      ident.ID
	Predicate ident.ID
	To        ident.ID
}

// Graph is a directed multigraph keyed by opaque identifiers.
// It is mutable until Freeze is called and immutable afterwards.
type Graph struct {
	mu       sync.RWMutex
	frozen   bool
	vertices map[ident.ID]struct{}
	out      map[ident.ID][]Edge
	in       map[ident.ID]map[ident.ID]struct{}
	seen     map[Edge]struct{}
}

// New returns an empty, unfrozen graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[ident.ID]struct{}),
		out:      make(map[ident.ID][]Edge),
		in:       make(map[ident.ID]map[ident.ID]struct{}),
		seen:     make(map[Edge]struct{}),
	}
}

// AddVertex registers id as a vertex. Adding an existing vertex is a no-op.
func (g *Graph) AddVertex(id ident.ID) error {
	if id == "" {
		return fmt.Errorf("%w: empty vertex identifier", ErrMalformed)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return ErrFrozen
	}
	g.vertices[id] = struct{}{}
	return nil
}

// AddEdge records the triple (from, predicate, to). The source becomes a
// vertex automatically; the target stays a literal-only endpoint unless it
// is (or later becomes) a vertex itself. Duplicate triples are ignored.
func (g *Graph) AddEdge(from, predicate, to ident.ID) error {
	if from == "" || predicate == "" || to == "" {
		return fmt.Errorf("%w: edge (%q,%q,%q) has an empty field", ErrMalformed, from, predicate, to)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return ErrFrozen
	}
	e := Edge{From: from, Predicate: predicate, To: to}
	if _, dup := g.seen[e]; dup {
		return nil
	}
	g.seen[e] = struct{}{}
	g.vertices[from] = struct{}{}
	g.out[from] = append(g.out[from], e)
	set, ok := g.in[to]
	if !ok {
		set = make(map[ident.ID]struct{})
		g.in[to] = set
	}
	set[from] = struct{}{}
	return nil
}

// Freeze makes the graph immutable and fixes its iteration order.
// It is idempotent; any mutation afterwards returns ErrFrozen.
func (g *Graph) Freeze() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return
	}
	for _, edges := range g.out {
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].Predicate != edges[j].Predicate {
				return edges[i].Predicate < edges[j].Predicate
			}
			return edges[i].To < edges[j].To
		})
	}
	g.frozen = true
}

// Frozen reports whether the graph has been frozen.
func (g *Graph) Frozen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.frozen
}

// HasVertex reports whether id is a vertex (not a literal-only endpoint).
func (g *Graph) HasVertex(id ident.ID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.vertices[id]
	return ok
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.seen)
}

// VertexIDs returns all vertex identifiers, sorted ascending.
func (g *Graph) VertexIDs() []ident.ID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]ident.ID, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	ident.Sort(ids)
	return ids
}

// Out returns a copy of the outgoing edges of v. After Freeze the slice is
// sorted by (Predicate, To). Unknown vertices yield an empty slice.
func (g *Graph) Out(v ident.ID) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	edges := g.out[v]
	cp := make([]Edge, len(edges))
	copy(cp, edges)
	return cp
}

// InNeighborIDs returns the sorted set of vertices that have at least one
// edge pointing at v. Edges from the same source via different predicates
// contribute one entry.
func (g *Graph) InNeighborIDs(v ident.ID) []ident.ID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	set := g.in[v]
	ids := make([]ident.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	ident.Sort(ids)
	return ids
}

// Edges returns every edge in the graph, sorted by (From, Predicate, To).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	all := make([]Edge, 0, len(g.seen))
	for _, edges := range g.out {
		all = append(all, edges...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].From != all[j].From {
			return all[i].From < all[j].From
		}
		if all[i].Predicate != all[j].Predicate {
			return all[i].Predicate < all[j].Predicate
		}
		return all[i].To < all[j].To
	})
	return all
}
