package schema

import (
	"fmt"
	"sort"
)

// Registry stores shape definitions by name. Shapes may reference each
// other freely, including in cycles; only cycles passing through an
// exclusive reference are rejected, by Verify.
type Registry struct {
	shapes map[string]Shape
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{shapes: make(map[string]Shape)}
}

// Register stores s under its name. It fails with ErrBadRule for invalid
// shapes and ErrDuplicateShape for name collisions. References to shapes
// not registered yet are fine; Verify checks them once the set is complete.
func (r *Registry) Register(s Shape) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, dup := r.shapes[s.Name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateShape, s.Name)
	}
	r.shapes[s.Name] = s
	return nil
}

// Resolve returns the shape registered under name.
func (r *Registry) Resolve(name string) (Shape, error) {
	s, ok := r.shapes[name]
	if !ok {
		return Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
	return s, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.shapes[name]
	return ok
}

// Len returns the number of registered shapes.
func (r *Registry) Len() int { return len(r.shapes) }

// Names returns all registered shape names, sorted ascending.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.shapes))
	for n := range r.shapes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns the shape names directly referenced by name's
// rules, sorted. The result is diagnostic; evaluation order comes from
// Strata.
func (r *Registry) Dependencies(name string) ([]string, error) {
	s, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return s.References(), nil
}

// Verify checks that every shape reference resolves (ErrUnknownShape) and
// that no reference cycle passes through an exclusive rule
// (ErrExclusiveCycle). Inclusive cycles are legal; the fixpoint discipline
// converges on them.
func (r *Registry) Verify() error {
	for _, name := range r.Names() {
		for _, rule := range r.shapes[name].Rules {
			if rule.Kind == TargetShape && !r.Has(rule.Shape) {
				return fmt.Errorf("%w: %q referenced by shape %q", ErrUnknownShape, rule.Shape, name)
			}
		}
	}
	comp, _ := r.condense()
	for _, name := range r.Names() {
		for _, rule := range r.shapes[name].Rules {
			if rule.Kind == TargetShape && rule.Polarity == Exclusive && comp[rule.Shape] == comp[name] {
				return fmt.Errorf("%w: %q -> %q", ErrExclusiveCycle, name, rule.Shape)
			}
		}
	}
	return nil
}

// Strata groups shapes into evaluation levels: every exclusive reference
// points to a strictly lower level, every inclusive reference to the same
// or a lower one. The engine runs one fixpoint per level, in order, so
// exclusion is only ever decided against label sets that can no longer
// grow. Each level is sorted; Verify failures are returned as-is.
func (r *Registry) Strata() ([][]string, error) {
	if err := r.Verify(); err != nil {
		return nil, err
	}
	if len(r.shapes) == 0 {
		return nil, nil
	}
	comp, order := r.condense()

	// Tarjan emits components dependencies-first, so every referenced
	// component's level is already known when its dependents are placed.
	level := make([]int, len(order))
	top := 0
	for c, members := range order {
		for _, name := range members {
			for _, rule := range r.shapes[name].Rules {
				if rule.Kind != TargetShape || comp[rule.Shape] == c {
					continue
				}
				l := level[comp[rule.Shape]]
				if rule.Polarity == Exclusive {
					l++
				}
				if l > level[c] {
					level[c] = l
				}
			}
		}
		if level[c] > top {
			top = level[c]
		}
	}

	strata := make([][]string, top+1)
	for c, members := range order {
		strata[level[c]] = append(strata[level[c]], members...)
	}
	for _, names := range strata {
		sort.Strings(names)
	}
	return strata, nil
}

// condense runs Tarjan's algorithm over the shape-reference graph,
// returning the component index of every shape and the component member
// lists in emission order (each component after everything it references).
func (r *Registry) condense() (map[string]int, [][]string) {
	var (
		names   = r.Names()
		index   = make(map[string]int, len(names))
		low     = make(map[string]int, len(names))
		onStack = make(map[string]bool, len(names))
		comp    = make(map[string]int, len(names))
		stack   []string
		order   [][]string
		next    int
	)

	var connect func(v string)
	connect = func(v string) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range r.shapes[v].References() {
			if _, seen := index[w]; !seen {
				connect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] && index[w] < low[v] {
				low[v] = index[w]
			}
		}

		if low[v] == index[v] {
			var members []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp[w] = len(order)
				members = append(members, w)
				if w == v {
					break
				}
			}
			order = append(order, members)
		}
	}

	for _, v := range names {
		if _, seen := index[v]; !seen {
			connect(v)
		}
	}
	return comp, order
}
