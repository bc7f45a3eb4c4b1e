package memdb

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
)

// Fields carries named column values for inserts, updates, and filters.
type Fields map[string]Value

// Row is a positional tuple aligned with its table's Columns.
type Row []Value

// ID returns the row id held at position 0.
func (r Row) ID() int64 {
	if len(r) == 0 {
		return NoID
	}
	id, _ := r[0].Int()
	return id
}

func (r Row) clone() Row {
	return append(Row(nil), r...)
}

type uniqueGroup struct {
	names     []string
	positions []int
	keys      map[string]int64
}

func (g uniqueGroup) keyOf(row Row) string {
	parts := make([]string, len(g.positions))
	for i, pos := range g.positions {
		parts[i] = row[pos].key()
	}
	return strings.Join(parts, "::")
}

// Table holds one table's rows and indexes.
type Table struct {
	name    string
	columns Columns
	unique  []uniqueGroup
	rows    []Row
	nextID  int64
}

func newTable(name string, columns []Column, unique [][]string) (*Table, error) {
	t := &Table{
		name:    name,
		columns: NewColumns(columns),
		nextID:  1,
	}
	for _, group := range unique {
		if len(group) == 0 {
			continue
		}
		g := uniqueGroup{
			names:     append([]string(nil), group...),
			positions: make([]int, len(group)),
			keys:      map[string]int64{},
		}
		for i, col := range group {
			pos := t.columns.Index(col)
			if pos < 0 {
				return nil, fmt.Errorf("table %s: unique column %q is not defined", name, col)
			}
			g.positions[i] = pos
		}
		t.unique = append(t.unique, g)
	}
	return t, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the table's column list.
func (t *Table) Columns() Columns { return t.columns }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Add inserts a row and returns its id. An explicit id in fields is used
// verbatim and advances the counter past it; otherwise the counter assigns
// the next id. Unknown column names are ignored. A unique-key collision
// returns NoID and ErrConstraintViolation without writing anything.
func (t *Table) Add(fields Fields) (int64, error) {
	row := make(Row, t.columns.Len())
	for name, value := range fields {
		if pos := t.columns.Index(name); pos > 0 {
			row[pos] = value
		}
	}

	id, explicit, err := explicitID(fields)
	if err != nil {
		return NoID, err
	}
	if !explicit {
		id = t.nextID
	} else if t.position(id) >= 0 {
		return NoID, t.violation(IDColumn, Int(id).String())
	}
	row[0] = Int(id)

	keys, err := t.uniqueKeys(row, id)
	if err != nil {
		return NoID, err
	}

	if explicit {
		t.nextID = max(t.nextID, id+1)
	} else {
		t.nextID++
	}
	for i, key := range keys {
		t.unique[i].keys[key] = id
	}
	t.rows = append(t.rows, row)
	return id, nil
}

// Get returns a copy of the row with the given id.
func (t *Table) Get(id int64) (Row, bool) {
	pos := t.position(id)
	if pos < 0 {
		return nil, false
	}
	return t.rows[pos].clone(), true
}

// Update sets the named columns of the row with the given id. The id column
// and unknown columns are ignored, and a missing row is a no-op. A change that
// would collide with a unique-key group leaves the row untouched.
func (t *Table) Update(id int64, fields Fields) error {
	pos := t.position(id)
	if pos < 0 {
		return nil
	}
	current := t.rows[pos]
	next := current.clone()
	for name, value := range fields {
		if col := t.columns.Index(name); col > 0 {
			next[col] = value
		}
	}

	oldKeys := make([]string, len(t.unique))
	for i, g := range t.unique {
		oldKeys[i] = g.keyOf(current)
	}
	newKeys, err := t.uniqueKeys(next, id)
	if err != nil {
		return err
	}
	for i, g := range t.unique {
		if oldKeys[i] == newKeys[i] {
			continue
		}
		delete(g.keys, oldKeys[i])
		g.keys[newKeys[i]] = id
	}
	t.rows[pos] = next
	return nil
}

// Delete removes the row with the given id. A missing row is a no-op.
func (t *Table) Delete(id int64) {
	pos := t.position(id)
	if pos < 0 {
		return
	}
	row := t.rows[pos]
	for _, g := range t.unique {
		key := g.keyOf(row)
		if owner, ok := g.keys[key]; ok && owner == id {
			delete(g.keys, key)
		}
	}
	t.rows = append(t.rows[:pos], t.rows[pos+1:]...)
}

// Find returns copies of every row whose named columns equal the filter
// values, in insertion order. Filter names that are not columns are ignored;
// an empty filter matches every row.
func (t *Table) Find(filter Fields) []Row {
	type cond struct {
		pos   int
		value Value
	}
	conds := make([]cond, 0, len(filter))
	for name, value := range filter {
		if pos := t.columns.Index(name); pos >= 0 {
			conds = append(conds, cond{pos: pos, value: value})
		}
	}
	return t.Select(func(row Row) bool {
		for _, c := range conds {
			if !row[c.pos].Equal(c.value) {
				return false
			}
		}
		return true
	})
}

// Select returns copies of every row matching pred, in insertion order.
func (t *Table) Select(pred func(Row) bool) []Row {
	out := make([]Row, 0, len(t.rows))
	for _, row := range t.rows {
		if pred == nil || pred(row) {
			out = append(out, row.clone())
		}
	}
	return out
}

// Clear removes every row, resets the id counter to 1, and empties indexes.
func (t *Table) Clear() {
	t.rows = nil
	t.nextID = 1
	for i := range t.unique {
		t.unique[i].keys = map[string]int64{}
	}
}

func (t *Table) position(id int64) int {
	for i, row := range t.rows {
		if row.ID() == id {
			return i
		}
	}
	return -1
}

// uniqueKeys computes row's key for every group and fails when a key is
// already held by a different row.
func (t *Table) uniqueKeys(row Row, id int64) ([]string, error) {
	keys := make([]string, len(t.unique))
	for i, g := range t.unique {
		key := g.keyOf(row)
		if owner, ok := g.keys[key]; ok && owner != id {
			return nil, t.violation(strings.Join(g.names, ", "), key)
		}
		keys[i] = key
	}
	return keys, nil
}

func (t *Table) violation(columns, key string) error {
	return apperrors.WithMetadata(
		apperrors.CodeConstraintViolation,
		fmt.Sprintf("unique constraint violation on %s for key: %s", t.name, key),
		map[string]string{"Table": t.name, "Key": columns},
	)
}

// explicitID extracts a caller-supplied id. Null and empty-string ids mean
// "assign one".
func explicitID(fields Fields) (int64, bool, error) {
	value, ok := fields[IDColumn]
	if !ok || value.IsNull() {
		return 0, false, nil
	}
	if text, isText := value.Text(); isText && strings.TrimSpace(text) == "" {
		return 0, false, nil
	}
	f, isNum := value.Float()
	if !isNum || f < 0 || f != math.Trunc(f) || f > math.MaxInt64/2 {
		return NoID, false, apperrors.Wrap(
			apperrors.CodeInvalidArgument,
			fmt.Sprintf("invalid row id %q", value.String()),
			ErrInvalidID,
		)
	}
	return int64(f), true, nil
}
