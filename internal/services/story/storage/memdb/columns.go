package memdb

import "strings"

// IDColumn is the name of the primary key column every table starts with.
const IDColumn = "id"

// Type describes the values a column is expected to hold. The store does not
// coerce on write; mappers and filters use the type to decode and type-check.
type Type uint8

const (
	// TypeAny holds whatever the loader produced.
	TypeAny Type = iota
	// TypeInt holds integers, including ids and foreign keys.
	TypeInt
	// TypeText holds free text.
	TypeText
	// TypeFlag holds 0 or 1.
	TypeFlag
)

// Column is a named, typed column descriptor.
type Column struct {
	Name string
	Type Type
}

// Columns is the ordered column list of a table.
type Columns struct {
	list  []Column
	index map[string]int
}

// NewColumns builds a column list, prefixing the id column when the first
// column is not already id. Later duplicates of a name are dropped.
func NewColumns(cols []Column) Columns {
	all := make([]Column, 0, len(cols)+1)
	if len(cols) == 0 || cols[0].Name != IDColumn {
		all = append(all, Column{Name: IDColumn, Type: TypeInt})
	}
	all = append(all, cols...)

	list := make([]Column, 0, len(all))
	index := make(map[string]int, len(all))
	for _, col := range all {
		if _, dup := index[col.Name]; dup {
			continue
		}
		if col.Name == IDColumn {
			col.Type = TypeInt
		}
		index[col.Name] = len(list)
		list = append(list, col)
	}
	return Columns{list: list, index: index}
}

// AnyColumns builds untyped column descriptors from names.
func AnyColumns(names ...string) []Column {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		cols = append(cols, Column{Name: name, Type: TypeAny})
	}
	return cols
}

// Len returns the number of columns.
func (c Columns) Len() int { return len(c.list) }

// Index returns the position of name, or -1 when the table has no such column.
func (c Columns) Index(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	return -1
}

// At returns the column at position i.
func (c Columns) At(i int) Column { return c.list[i] }

// List returns a copy of the column descriptors in order.
func (c Columns) List() []Column {
	return append([]Column(nil), c.list...)
}

// Names returns the column names in order.
func (c Columns) Names() []string {
	names := make([]string, len(c.list))
	for i, col := range c.list {
		names[i] = col.Name
	}
	return names
}

// String renders the names joined by "|".
func (c Columns) String() string {
	return strings.Join(c.Names(), "|")
}
