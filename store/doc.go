// Package store loads property graphs from SQLite edge dumps, the
// persistent ingestion collaborator around the validation engine.
//
// The dump layout is the one produced by Wikidata dump converters: five
// tables (edge, coordinate, quantity, string, time), each holding integer
// (src_id, property_id, dst_id) rows in the Wikidata numeric packing of
// package ident. The table a row lives in is its data type; entity rows
// relate two entities, the other four relate an entity to a value.
//
// LoadGraph unions the selected tables into one in-memory graph. Entity
// identifiers come back in their readable forms ("Q42", "P31"); value
// targets become opaque literal-only endpoints ("string:204") that value
// rules can match but the engine never validates. WithEntityEdgesOnly
// restricts the load to entity-to-entity edges, which is the usual input
// for shape validation.
//
// Open expects an existing dump and fails otherwise; Create builds the
// schema for tools that write dumps. Both apply WAL journaling.
package store
