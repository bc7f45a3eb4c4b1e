package memdb

import (
	"errors"
	"fmt"
	"log"
)

// Rowset is the result of a read: the table's columns and the matching rows.
type Rowset struct {
	Columns Columns
	Rows    []Row
}

// Fields returns row i of the set as named values.
func (rs Rowset) Fields(i int) Fields {
	row := rs.Rows[i]
	out := make(Fields, len(row))
	for pos, col := range rs.Columns.List() {
		if pos < len(row) {
			out[col.Name] = row[pos]
		}
	}
	return out
}

// Option configures a Database.
type Option func(*Database)

// WithLogf overrides the logger used for rejected writes.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(db *Database) {
		if logf != nil {
			db.logf = logf
		}
	}
}

// Database is a set of named tables kept in definition order.
//
// A Database is not safe for concurrent use; callers serialize access.
type Database struct {
	tables map[string]*Table
	order  []string
	logf   func(format string, args ...any)
}

// New returns an empty database.
func New(opts ...Option) *Database {
	db := &Database{
		tables: map[string]*Table{},
		logf:   log.Printf,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Define registers a table. Redefining an existing table clears its rows and
// keeps the schema it was first declared with.
func (db *Database) Define(name string, columns []Column, unique ...[]string) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("define table: name is required")
	}
	if existing, ok := db.tables[name]; ok {
		existing.Clear()
		return existing, nil
	}
	table, err := newTable(name, columns, unique)
	if err != nil {
		return nil, err
	}
	db.tables[name] = table
	db.order = append(db.order, name)
	return table, nil
}

// Table returns the named table.
func (db *Database) Table(name string) (*Table, error) {
	table, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", name, ErrTableNotFound)
	}
	return table, nil
}

// Has reports whether the named table is defined.
func (db *Database) Has(name string) bool {
	_, ok := db.tables[name]
	return ok
}

// Tables returns every table in definition order.
func (db *Database) Tables() []*Table {
	out := make([]*Table, 0, len(db.order))
	for _, name := range db.order {
		out = append(out, db.tables[name])
	}
	return out
}

// Create inserts a row into the named table. Rejected rows are logged and
// reported with NoID.
func (db *Database) Create(table string, fields Fields) (int64, error) {
	t, err := db.Table(table)
	if err != nil {
		return NoID, err
	}
	id, err := t.Add(fields)
	if err != nil {
		if errors.Is(err, ErrConstraintViolation) || errors.Is(err, ErrInvalidID) {
			db.logf("memdb: %s: rejected row: %v", table, err)
		}
		return NoID, err
	}
	return id, nil
}

// Read returns the rows of the named table matching filter.
func (db *Database) Read(table string, filter Fields) (Rowset, error) {
	t, err := db.Table(table)
	if err != nil {
		return Rowset{}, err
	}
	return Rowset{Columns: t.Columns(), Rows: t.Find(filter)}, nil
}

// Get returns the row with the given id from the named table.
func (db *Database) Get(table string, id int64) (Row, bool, error) {
	t, err := db.Table(table)
	if err != nil {
		return nil, false, err
	}
	row, ok := t.Get(id)
	return row, ok, nil
}

// Update sets fields on the row with the given id.
func (db *Database) Update(table string, id int64, fields Fields) error {
	t, err := db.Table(table)
	if err != nil {
		return err
	}
	if err := t.Update(id, fields); err != nil {
		db.logf("memdb: %s: rejected update of %d: %v", table, id, err)
		return err
	}
	return nil
}

// Delete removes the row with the given id.
func (db *Database) Delete(table string, id int64) error {
	t, err := db.Table(table)
	if err != nil {
		return err
	}
	t.Delete(id)
	return nil
}

// ClearAllTables empties every table and resets their id counters.
func (db *Database) ClearAllTables() {
	for _, t := range db.tables {
		t.Clear()
	}
}
