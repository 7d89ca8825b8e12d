package validator

import (
	"github.com/google/uuid"

	"github.com/weso/pschema-go/ident"
	"github.com/weso/pschema-go/pregel"
	"github.com/weso/pschema-go/schema"
)

// Report is the outcome of one validation run. Labels holds the full final
// assignment; the conformance views below derive from it and from Root.
//
// Absence of the root label means "does not conform": once the run has
// converged there is no residual "unknown" state to distinguish.
type Report struct {
	// RunID identifies this run in logs and downstream tooling.
	RunID uuid.UUID

	// Root is the shape conformance is judged against.
	Root string

	// Status is the scheduler's final state.
	Status pregel.Status

	// Supersteps and Strata account for the work performed.
	Supersteps int
	Strata     int

	// Labels maps every vertex to the shape names it satisfies.
	Labels map[ident.ID]schema.LabelSet
}

// Conforms reports whether vertex v satisfies the root shape.
func (r *Report) Conforms(v ident.ID) bool {
	return r.Labels[v].Has(r.Root)
}

// Conforming returns the vertices satisfying the root shape, ascending.
func (r *Report) Conforming() []ident.ID {
	return r.filter(true)
}

// NonConforming returns the vertices not satisfying the root shape,
// ascending.
func (r *Report) NonConforming() []ident.ID {
	return r.filter(false)
}

func (r *Report) filter(want bool) []ident.ID {
	var ids []ident.ID
	for v := range r.Labels {
		if r.Conforms(v) == want {
			ids = append(ids, v)
		}
	}
	return sortIDs(ids)
}

// LabelsOf returns the shape names vertex v satisfies, ascending. Vertices
// with no labels, including unknown ones, yield an empty slice.
func (r *Report) LabelsOf(v ident.ID) []string {
	return r.Labels[v].Names()
}
