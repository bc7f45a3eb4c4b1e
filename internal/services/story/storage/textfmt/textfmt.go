// Package textfmt reads and writes the pipe-delimited table text format.
//
// A document is a sequence of blocks. Each block starts with a header line
// naming a table and its columns, followed by one line per row:
//
//	tblCardTypes:id|name
//	1|Nature
//	2|Strength
//
// Blank lines and lines starting with // end the current block.
package textfmt

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/louisbranch/pipdeck/internal/services/story/storage/memdb"
)

const (
	tablePrefix     = "tbl"
	headerSeparator = ":"
	fieldSeparator  = "|"
	commentPrefix   = "//"
)

// Reserved lists the characters a field value cannot contain. The format
// has no escaping, so a value holding one would split on the next Load.
const Reserved = fieldSeparator + "\r\n"

// Encodable reports whether value can be written as one field.
func Encodable(value string) bool {
	return !strings.ContainsAny(value, Reserved)
}

// LoadResult summarizes a Load.
type LoadResult struct {
	// Tables lists the table names seen in headers, in order of appearance.
	Tables []string
	// Rows counts rows written.
	Rows int
	// Rejected counts rows the store refused (duplicate keys, bad ids).
	Rejected int
}

// Load replaces the contents of db with the tables described by text.
//
// Every table is cleared first. A header naming a defined table keeps that
// table's schema and maps values onto it by column name; a header naming an
// unknown table defines it from the header. Rejected rows are counted and
// skipped.
func Load(db *memdb.Database, text string) (LoadResult, error) {
	db.ClearAllTables()

	var (
		result LoadResult
		active *block
	)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			active = nil
			continue
		}
		if isHeader(line) {
			b, err := openBlock(db, line)
			if err != nil {
				return result, err
			}
			active = b
			result.Tables = append(result.Tables, b.table)
			continue
		}
		if active == nil {
			continue
		}
		if _, err := db.Create(active.table, active.fields(line)); err != nil {
			if errors.Is(err, memdb.ErrConstraintViolation) || errors.Is(err, memdb.ErrInvalidID) {
				result.Rejected++
				continue
			}
			return result, fmt.Errorf("load %s: %w", active.table, err)
		}
		result.Rows++
	}
	return result, nil
}

// Format renders every table with at least one row, in the given order.
func Format(tables []*memdb.Table) string {
	var sb strings.Builder
	for _, table := range tables {
		if table.Len() == 0 {
			continue
		}
		sb.WriteString(table.Name())
		sb.WriteString(headerSeparator)
		sb.WriteString(table.Columns().String())
		sb.WriteByte('\n')
		for _, row := range table.Find(nil) {
			for i, value := range row {
				if i > 0 {
					sb.WriteString(fieldSeparator)
				}
				sb.WriteString(value.String())
			}
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), " \t\r\n")
}

// FormatDatabase renders every table of db in definition order.
func FormatDatabase(db *memdb.Database) string {
	return Format(db.Tables())
}

type block struct {
	table   string
	columns []string
}

func isHeader(line string) bool {
	return strings.HasPrefix(line, tablePrefix) && strings.Contains(line, headerSeparator)
}

func openBlock(db *memdb.Database, line string) (*block, error) {
	name, list, _ := strings.Cut(line, headerSeparator)
	name = strings.TrimSpace(name)

	columns := make([]string, 0, strings.Count(list, fieldSeparator)+1)
	for _, col := range strings.Split(list, fieldSeparator) {
		columns = append(columns, cleanColumn(col))
	}

	var defined []string
	if !db.Has(name) {
		for _, col := range columns {
			if col != "" {
				defined = append(defined, col)
			}
		}
	}
	if _, err := db.Define(name, memdb.AnyColumns(defined...)); err != nil {
		return nil, fmt.Errorf("load header %q: %w", name, err)
	}
	return &block{table: name, columns: columns}, nil
}

// fields maps a data line onto the block's header columns. Missing trailing
// values become empty strings.
func (b *block) fields(line string) memdb.Fields {
	values := strings.Split(line, fieldSeparator)
	out := make(memdb.Fields, len(b.columns))
	for i, col := range b.columns {
		if col == "" {
			continue
		}
		raw := ""
		if i < len(values) {
			raw = strings.TrimSpace(values[i])
		}
		out[col] = memdb.ParseValue(raw)
	}
	return out
}

func cleanColumn(col string) string {
	return strings.Map(func(r rune) rune {
		if r == '#' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, col)
}
