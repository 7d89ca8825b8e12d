package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/weso/pschema-go/ident"
)

// Sentinel errors for dump access.
var (
	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("store: invalid option supplied")

	// ErrBadDump is returned when a dump row cannot be decoded.
	ErrBadDump = errors.New("store: malformed dump row")
)

// DataType tags which of the five dump tables an edge row lives in, using
// the dump format's own codes. Entity rows point at other entities and are
// the only ones whose targets can be validated; the rest carry values.
type DataType int

const (
	// Quantity rows target numeric values.
	Quantity DataType = 1

	// Coordinate rows target geographic coordinates.
	Coordinate DataType = 2

	// String rows target plain string values.
	String DataType = 3

	// DateTime rows target points in time.
	DateTime DataType = 4

	// Entity rows target other entities.
	Entity DataType = 5
)

// AllDataTypes lists every data type in dump-table order.
var AllDataTypes = []DataType{Entity, Coordinate, Quantity, String, DateTime}

// String returns the lowercase type name.
func (d DataType) String() string {
	switch d {
	case Quantity:
		return "quantity"
	case Coordinate:
		return "coordinate"
	case String:
		return "string"
	case DateTime:
		return "time"
	case Entity:
		return "entity"
	default:
		return fmt.Sprintf("datatype(%d)", int(d))
	}
}

// Table returns the dump table holding rows of this type.
func (d DataType) Table() string {
	if d == Entity {
		return "edge"
	}
	return d.String()
}

func (d DataType) valid() bool {
	return d >= Quantity && d <= Entity
}

// ValueID decodes the dst column of a row. Entity targets round-trip
// through the Wikidata numeric packing; value targets become opaque,
// literal-only identifiers like "string:204" that value rules can match
// but the engine never validates.
func (d DataType) ValueID(n uint64) ident.ID {
	if d == Entity {
		return ident.FromNumeric(n)
	}
	return ident.ID(d.String() + ":" + strconv.FormatUint(n, 10))
}

// ParseValueID is the inverse of ValueID.
func (d DataType) ParseValueID(id ident.ID) (uint64, error) {
	if d == Entity {
		return ident.ToNumeric(id)
	}
	rest, ok := strings.CutPrefix(string(id), d.String()+":")
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a %s value", ErrBadDump, id, d)
	}
	n, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a %s value", ErrBadDump, id, d)
	}
	return n, nil
}

// Option configures graph loading via functional arguments. Invalid values
// are recorded and surfaced as ErrOptionViolation when LoadGraph is invoked.
type Option func(*Options)

// Options holds load-time knobs.
type Options struct {
	// Types selects which dump tables contribute edges.
	Types []DataType

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options loading every dump table.
func DefaultOptions() Options {
	return Options{Types: AllDataTypes}
}

// WithDataTypes restricts the load to the given tables. Supplying no types
// or an unknown type is an ErrOptionViolation.
func WithDataTypes(types ...DataType) Option {
	return func(o *Options) {
		if len(types) == 0 {
			o.err = fmt.Errorf("%w: no data types selected", ErrOptionViolation)
			return
		}
		for _, dt := range types {
			if !dt.valid() {
				o.err = fmt.Errorf("%w: unknown data type %d", ErrOptionViolation, int(dt))
				return
			}
		}
		o.Types = types
	}
}

// WithEntityEdgesOnly restricts the load to entity-to-entity edges, the
// usual shape-validation input.
func WithEntityEdgesOnly() Option {
	return WithDataTypes(Entity)
}
