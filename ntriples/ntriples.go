package ntriples

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knakk/rdf"

	"github.com/weso/pschema-go/graph"
	"github.com/weso/pschema-go/ident"
)

// ErrParse is returned for a line that is not a well-formed triple. The
// wrapped message carries the line number.
var ErrParse = errors.New("ntriples: malformed triple")

// Wikidata namespaces recognized on import and reproduced on export.
const (
	entityBase   = "http://www.wikidata.org/entity/"
	propertyBase = "http://www.wikidata.org/prop/direct/"
)

const maxLine = 1 << 20 // literals can be long; default scanner cap is 64K

// Import reads N-Triples from r into a fresh, unfrozen graph.
//
// Statement grammar, escape sequences, and term boundaries are handled by
// the knakk/rdf decoder. IRIs under the Wikidata entity or direct property
// namespaces are shortened to their local names ("Q42", "P31") so they
// line up with shape documents; every other IRI is kept in full. Literal
// and blank-node objects keep their N-Triples spelling and become
// literal-only endpoints: matchable by value rules, never validated
// themselves.
func Import(r io.Reader, g *graph.Graph) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := decodeStatement(line)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrParse, lineno, err)
		}
		if err := g.AddEdge(termID(t.Subj), termID(t.Pred), termID(t.Obj)); err != nil {
			return fmt.Errorf("ntriples: line %d: %w", lineno, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("ntriples: line %d: %w", lineno, err)
	}
	return nil
}

// ImportFile loads path into a fresh graph.
func ImportFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ntriples: open %q: %w", path, err)
	}
	defer f.Close()

	g := graph.New()
	if err := Import(f, g); err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return g, nil
}

// decodeStatement parses exactly one triple. N-Triples is line-delimited,
// so decoding line by line keeps exact line numbers in parse errors.
func decodeStatement(line string) (rdf.Triple, error) {
	dec := rdf.NewTripleDecoder(strings.NewReader(line+"\n"), rdf.NTriples)
	t, err := dec.Decode()
	if err != nil {
		return rdf.Triple{}, err
	}
	if _, err := dec.Decode(); err != io.EOF {
		return rdf.Triple{}, errors.New("trailing content after statement")
	}
	return t, nil
}

// termID maps a decoded term onto the identifier stored in the graph:
// Wikidata IRIs shorten to their local names, other IRIs stay in full,
// and blank nodes and literals keep their N-Triples spelling.
func termID(t rdf.Term) ident.ID {
	if t.Type() == rdf.TermIRI {
		return shorten(t.String())
	}
	return ident.ID(t.Serialize(rdf.NTriples))
}

// shorten maps a Wikidata entity or direct-property IRI to its local name.
// Anything else stays the full IRI.
func shorten(iri string) ident.ID {
	for _, base := range []string{entityBase, propertyBase} {
		if rest, ok := strings.CutPrefix(iri, base); ok {
			if id, err := ident.Parse(rest); err == nil {
				return id
			}
		}
	}
	return ident.ID(iri)
}

// Export writes the out-edges of every vertex accepted by keep, as
// N-Triples, in the graph's deterministic order. A nil keep exports the
// whole graph. Shortened Wikidata names are expanded back to full IRIs;
// literal and blank-node objects keep their imported spelling.
func Export(w io.Writer, g *graph.Graph, keep func(ident.ID) bool) error {
	enc := rdf.NewTripleEncoder(w, rdf.NTriples)
	for _, v := range g.VertexIDs() {
		if keep != nil && !keep(v) {
			continue
		}
		for _, e := range g.Out(v) {
			t, err := exportTriple(e)
			if err != nil {
				return fmt.Errorf("ntriples: export: %w", err)
			}
			if err := enc.Encode(t); err != nil {
				return fmt.Errorf("ntriples: export: %w", err)
			}
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("ntriples: export: %w", err)
	}
	return nil
}

func exportTriple(e graph.Edge) (rdf.Triple, error) {
	subj, err := subjectTerm(e.From)
	if err != nil {
		return rdf.Triple{}, err
	}
	pred, err := rdf.NewIRI(expand(e.Predicate, propertyBase))
	if err != nil {
		return rdf.Triple{}, err
	}
	obj, err := objectTerm(e.To)
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{Subj: subj, Pred: pred, Obj: obj}, nil
}

// expand restores the Wikidata namespace of a shortened name. Any other
// identifier already carries its full IRI.
func expand(id ident.ID, base string) string {
	if _, err := ident.ToNumeric(id); err == nil {
		return base + string(id)
	}
	return string(id)
}

// subjectTerm renders an edge source: blank nodes stay blank nodes,
// identifiers become IRIs.
func subjectTerm(id ident.ID) (rdf.Subject, error) {
	if label, ok := strings.CutPrefix(string(id), "_:"); ok {
		return rdf.NewBlank(label)
	}
	return rdf.NewIRI(expand(id, entityBase))
}

// objectTerm renders an edge target: literals and blank nodes keep their
// stored spelling, identifiers become IRIs.
func objectTerm(id ident.ID) (rdf.Object, error) {
	s := string(id)
	switch {
	case strings.HasPrefix(s, `"`):
		return literalTerm(s)
	case strings.HasPrefix(s, "_:"):
		return rdf.NewBlank(s[2:])
	default:
		return rdf.NewIRI(expand(id, entityBase))
	}
}

// literalTerm recovers a literal term from its stored N-Triples spelling
// by decoding it back in object position.
func literalTerm(s string) (rdf.Object, error) {
	dec := rdf.NewTripleDecoder(strings.NewReader("<urn:x:s> <urn:x:p> "+s+" .\n"), rdf.NTriples)
	t, err := dec.Decode()
	if err != nil {
		return nil, fmt.Errorf("literal %s: %v", s, err)
	}
	return t.Obj, nil
}
