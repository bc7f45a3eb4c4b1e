// Package crud maps typed records onto memdb tables.
//
// A Schema declares the columns of one table and how each binds to a field of
// the record type. Define registers the schema with a Mapper and returns a
// Repo that converts rows to records and back using column positions resolved
// once at definition time.
package crud

import (
	"fmt"
	"maps"
	"slices"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
	"github.com/louisbranch/pipdeck/internal/services/story/core/filter"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/memdb"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/textfmt"
)

// ErrNotFound indicates a record lookup by id found nothing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrUnencodable indicates a text value holds a reserved format character.
var ErrUnencodable = apperrors.New(apperrors.CodeInvalidArgument, "text value is not encodable")

// Schema declares one table and its record binding.
type Schema[T any] struct {
	// Table is the backing table name.
	Table string
	// Entity names records in error messages.
	Entity string
	// Fields lists the non-id columns in declared order.
	Fields []Field[T]
	// ID binds the id column.
	ID Field[T]
	// Unique lists unique-key groups by column name.
	Unique [][]string
	// DisplayField names the column hosts show when listing records.
	DisplayField string
}

// Mapper owns the schema registry over one database.
type Mapper struct {
	db      *memdb.Database
	schemas []schemaInfo
}

type schemaInfo struct {
	table        string
	displayField string
}

// NewMapper returns a mapper over db.
func NewMapper(db *memdb.Database) *Mapper {
	return &Mapper{db: db}
}

// Database returns the underlying database.
func (m *Mapper) Database() *memdb.Database { return m.db }

// DisplayField returns the display column declared for table.
func (m *Mapper) DisplayField(table string) (string, bool) {
	for _, s := range m.schemas {
		if s.table == table {
			return s.displayField, s.displayField != ""
		}
	}
	return "", false
}

// Tables returns the schema-declared table names in definition order.
func (m *Mapper) Tables() []string {
	out := make([]string, len(m.schemas))
	for i, s := range m.schemas {
		out[i] = s.table
	}
	return out
}

// BuildRawData renders every non-empty table: schema tables in definition
// order, then tables defined only by loaded headers.
func (m *Mapper) BuildRawData() string {
	tables := make([]*memdb.Table, 0, len(m.db.Tables()))
	seen := make(map[string]bool, len(m.schemas))
	for _, s := range m.schemas {
		if t, err := m.db.Table(s.table); err == nil {
			tables = append(tables, t)
			seen[s.table] = true
		}
	}
	for _, t := range m.db.Tables() {
		if !seen[t.Name()] {
			tables = append(tables, t)
		}
	}
	return textfmt.Format(tables)
}

// Repo reads and writes records of type T in one table.
type Repo[T any] struct {
	db        *memdb.Database
	schema    Schema[T]
	table     *memdb.Table
	positions []int
}

// Define registers schema with m and defines its backing table.
func Define[T any](m *Mapper, schema Schema[T]) (*Repo[T], error) {
	if schema.Table == "" {
		return nil, fmt.Errorf("define schema: table name is required")
	}
	if schema.ID.get == nil {
		return nil, fmt.Errorf("define %s: id field is required", schema.Table)
	}
	columns := make([]memdb.Column, 0, len(schema.Fields)+1)
	columns = append(columns, memdb.Column{Name: memdb.IDColumn, Type: memdb.TypeInt})
	for _, f := range schema.Fields {
		columns = append(columns, memdb.Column{Name: f.Name, Type: f.Type})
	}
	table, err := m.db.Define(schema.Table, columns, schema.Unique...)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", schema.Table, err)
	}

	positions := make([]int, len(schema.Fields))
	for i, f := range schema.Fields {
		positions[i] = table.Columns().Index(f.Name)
	}
	if schema.Entity == "" {
		schema.Entity = schema.Table
	}
	m.schemas = append(m.schemas, schemaInfo{
		table:        schema.Table,
		displayField: schema.DisplayField,
	})
	return &Repo[T]{db: m.db, schema: schema, table: table, positions: positions}, nil
}

// Table returns the backing table.
func (r *Repo[T]) Table() *memdb.Table { return r.table }

// Entity returns the entity name used in errors.
func (r *Repo[T]) Entity() string { return r.schema.Entity }

// Create inserts rec, ignoring its id, and returns the stored record.
func (r *Repo[T]) Create(rec T) (T, error) {
	var zero T
	fields := r.Fields(&rec)
	if err := CheckText(fields); err != nil {
		return zero, err
	}
	id, err := r.db.Create(r.schema.Table, fields)
	if err != nil {
		return zero, err
	}
	created, err := r.Get(id)
	if err != nil {
		return zero, fmt.Errorf("create %s: re-fetch %d: %w", r.schema.Entity, id, err)
	}
	return created, nil
}

// ReadAll returns every record matching filter in insertion order.
func (r *Repo[T]) ReadAll(filter memdb.Fields) ([]T, error) {
	rs, err := r.db.Read(r.schema.Table, filter)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(rs.Rows), nil
}

// Get returns the record with the given id.
func (r *Repo[T]) Get(id int64) (T, error) {
	var zero T
	rs, err := r.db.Read(r.schema.Table, memdb.Fields{memdb.IDColumn: memdb.Int(id)})
	if err != nil {
		return zero, err
	}
	if len(rs.Rows) == 0 {
		return zero, NotFound(r.schema.Entity, id)
	}
	return r.decode(rs.Rows[0]), nil
}

// Exists reports whether a record with the given id exists.
func (r *Repo[T]) Exists(id int64) bool {
	_, ok := r.table.Get(id)
	return ok
}

// Count returns the number of records matching filter.
func (r *Repo[T]) Count(filter memdb.Fields) int {
	return len(r.table.Find(filter))
}

// Update sets the named columns of the record with the given id.
func (r *Repo[T]) Update(id int64, fields memdb.Fields) error {
	if err := CheckText(fields); err != nil {
		return err
	}
	return r.db.Update(r.schema.Table, id, fields)
}

// Delete removes the record with the given id.
func (r *Repo[T]) Delete(id int64) error {
	return r.db.Delete(r.schema.Table, id)
}

// FindText returns the records whose column holds text. A numeric value
// matches when it renders as text, so names that a Load coerced to numbers
// still resolve.
func (r *Repo[T]) FindText(column, text string) []T {
	pos := r.table.Columns().Index(column)
	if pos < 0 {
		return []T{}
	}
	want := memdb.String(text)
	return r.decodeAll(r.table.Select(func(row memdb.Row) bool {
		return pos < len(row) && (row[pos].Equal(want) || row[pos].String() == text)
	}))
}

// Select returns the records matching an AIP-160 filter expression.
func (r *Repo[T]) Select(expr string) ([]T, error) {
	pred, err := filter.Compile(r.table.Columns(), expr)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(r.table.Select(pred)), nil
}

// Fields encodes rec as named values, excluding the id. When columns are
// given only those are included.
func (r *Repo[T]) Fields(rec *T, columns ...string) memdb.Fields {
	want := map[string]bool{}
	for _, c := range columns {
		want[c] = true
	}
	out := make(memdb.Fields, len(r.schema.Fields))
	for _, f := range r.schema.Fields {
		if len(want) > 0 && !want[f.Name] {
			continue
		}
		out[f.Name] = f.get(rec)
	}
	return out
}

func (r *Repo[T]) decodeAll(rows []memdb.Row) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.decode(row))
	}
	return out
}

func (r *Repo[T]) decode(row memdb.Row) T {
	var rec T
	r.schema.ID.set(&rec, row[0])
	for i, f := range r.schema.Fields {
		if pos := r.positions[i]; pos >= 0 && pos < len(row) {
			f.set(&rec, row[pos])
		}
	}
	return rec
}

// NotFound returns the not-found error for an entity id.
func NotFound(entity string, id int64) error {
	return &apperrors.Error{
		Code:     apperrors.CodeNotFound,
		Message:  fmt.Sprintf("%s %d not found", entity, id),
		Metadata: map[string]string{"Entity": entity, "ID": fmt.Sprint(id)},
		Cause:    ErrNotFound,
	}
}

// CheckText rejects text values that the table text format cannot carry.
// Columns are checked in name order so the reported field is stable.
func CheckText(fields memdb.Fields) error {
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		text, ok := fields[name].Text()
		if !ok || textfmt.Encodable(text) {
			continue
		}
		return &apperrors.Error{
			Code:     apperrors.CodeInvalidArgument,
			Message:  fmt.Sprintf("invalid %s: %q may not contain '|' or line breaks", name, text),
			Metadata: map[string]string{"Field": name, "Value": text},
			Cause:    ErrUnencodable,
		}
	}
	return nil
}
