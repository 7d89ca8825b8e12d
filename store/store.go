package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/weso/pschema-go/graph"
	"github.com/weso/pschema-go/ident"
)

// Store reads (and, for dump-building tools, writes) a SQLite edge dump:
// five tables named edge, coordinate, quantity, string, and time, each with
// integer src_id, property_id, and dst_id columns in the Wikidata numeric
// packing.
type Store struct {
	db *sql.DB
}

// Open connects to an existing dump. The file must already exist; use
// Create to start a new one.
func Open(path string) (*Store, error) {
	if path != memoryPath {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("store: open dump: %w", err)
		}
	}
	return connect(path)
}

// Create opens path, creating the file and the five dump tables if needed.
func Create(path string) (*Store, error) {
	s, err := connect(path)
	if err != nil {
		return nil, err
	}
	if err := s.migrate(); err != nil {
		s.db.Close()
		return nil, err
	}
	return s, nil
}

const memoryPath = ":memory:"

func connect(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	if path == memoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %q: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the five dump tables if they don't exist.
func (s *Store) migrate() error {
	var b strings.Builder
	for _, dt := range AllDataTypes {
		fmt.Fprintf(&b, `
		CREATE TABLE IF NOT EXISTS %[1]s (
			src_id      INTEGER NOT NULL,
			property_id INTEGER NOT NULL,
			dst_id      INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_src ON %[1]s(src_id);
		`, dt.Table())
	}
	if _, err := s.db.Exec(b.String()); err != nil {
		return fmt.Errorf("store: create dump tables: %w", err)
	}
	return nil
}

// InsertEdge writes one row into dt's table. Sources and properties must be
// packable Wikidata identifiers; entity targets likewise, while value
// targets use dt's "kind:n" form (see DataType.ValueID).
func (s *Store) InsertEdge(ctx context.Context, dt DataType, src, property, dst ident.ID) error {
	if !dt.valid() {
		return fmt.Errorf("%w: unknown data type %d", ErrBadDump, int(dt))
	}
	srcN, err := ident.ToNumeric(src)
	if err != nil {
		return fmt.Errorf("store: insert: %w", err)
	}
	propN, err := ident.ToNumeric(property)
	if err != nil {
		return fmt.Errorf("store: insert: %w", err)
	}
	dstN, err := dt.ParseValueID(dst)
	if err != nil {
		return fmt.Errorf("store: insert: %w", err)
	}
	query := fmt.Sprintf("INSERT INTO %s (src_id, property_id, dst_id) VALUES (?, ?, ?)", dt.Table())
	if _, err := s.db.ExecContext(ctx, query, int64(srcN), int64(propN), int64(dstN)); err != nil {
		return fmt.Errorf("store: insert into %s: %w", dt.Table(), err)
	}
	return nil
}

// edgeQuery unions the selected tables, each row tagged with its table's
// data type code.
func edgeQuery(types []DataType) string {
	parts := make([]string, 0, len(types))
	for _, dt := range types {
		parts = append(parts, fmt.Sprintf(
			"SELECT src_id, property_id, dst_id, %d AS dtype FROM %s", int(dt), dt.Table()))
	}
	return strings.Join(parts, "\nUNION\n")
}

// LoadGraph reads the selected dump tables into a fresh, unfrozen graph.
// Identifiers round-trip through the Wikidata numeric packing; non-entity
// targets become literal-only endpoints.
func (s *Store) LoadGraph(ctx context.Context, opts ...Option) (*graph.Graph, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	rows, err := s.db.QueryContext(ctx, edgeQuery(o.Types))
	if err != nil {
		return nil, fmt.Errorf("store: query dump: %w", err)
	}
	defer rows.Close()

	g := graph.New()
	for rows.Next() {
		var src, prop, dst int64
		var dtype int
		if err := rows.Scan(&src, &prop, &dst, &dtype); err != nil {
			return nil, fmt.Errorf("store: scan dump row: %w", err)
		}
		dt := DataType(dtype)
		if src < 0 || prop < 0 || dst < 0 || !dt.valid() {
			return nil, fmt.Errorf("%w: (%d, %d, %d) dtype %d", ErrBadDump, src, prop, dst, dtype)
		}
		from := ident.FromNumeric(uint64(src))
		predicate := ident.FromNumeric(uint64(prop))
		to := dt.ValueID(uint64(dst))
		if err := g.AddEdge(from, predicate, to); err != nil {
			return nil, fmt.Errorf("store: load edge (%s, %s, %s): %w", from, predicate, to, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: read dump: %w", err)
	}
	return g, nil
}

// EdgeCount returns the number of rows across the selected tables.
func (s *Store) EdgeCount(ctx context.Context, types ...DataType) (int64, error) {
	if len(types) == 0 {
		types = AllDataTypes
	}
	var total int64
	for _, dt := range types {
		if !dt.valid() {
			return 0, fmt.Errorf("%w: unknown data type %d", ErrBadDump, int(dt))
		}
		var n int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", dt.Table())
		if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			return 0, fmt.Errorf("store: count %s: %w", dt.Table(), err)
		}
		total += n
	}
	return total, nil
}
