package crud

import (
	"strconv"
	"strings"

	"github.com/louisbranch/pipdeck/internal/services/story/storage/memdb"
)

// Field binds one table column to a field of T.
type Field[T any] struct {
	Name string
	Type memdb.Type

	get func(*T) memdb.Value
	set func(*T, memdb.Value)
}

// ID binds the id column.
func ID[T any](ptr func(*T) *int64) Field[T] {
	return Int(memdb.IDColumn, ptr)
}

// Int binds an integer column.
func Int[T any, I ~int | ~int64](name string, ptr func(*T) *I) Field[T] {
	return Field[T]{
		Name: name,
		Type: memdb.TypeInt,
		get:  func(rec *T) memdb.Value { return memdb.Int(int64(*ptr(rec))) },
		set: func(rec *T, v memdb.Value) {
			n, _ := intOf(v)
			*ptr(rec) = I(n)
		},
	}
}

// NullableInt binds an integer column that may be empty. A nil pointer is
// stored as null; null and empty text decode to nil.
func NullableInt[T any](name string, ptr func(*T) **int64) Field[T] {
	return Field[T]{
		Name: name,
		Type: memdb.TypeInt,
		get: func(rec *T) memdb.Value {
			if p := *ptr(rec); p != nil {
				return memdb.Int(*p)
			}
			return memdb.Null()
		},
		set: func(rec *T, v memdb.Value) {
			n, ok := intOf(v)
			if !ok {
				*ptr(rec) = nil
				return
			}
			*ptr(rec) = &n
		},
	}
}

// Text binds a string column. Numeric values decode to their text form.
func Text[T any, S ~string](name string, ptr func(*T) *S) Field[T] {
	return Field[T]{
		Name: name,
		Type: memdb.TypeText,
		get:  func(rec *T) memdb.Value { return memdb.String(string(*ptr(rec))) },
		set:  func(rec *T, v memdb.Value) { *ptr(rec) = S(v.String()) },
	}
}

// Flag binds a 0/1 column.
func Flag[T any](name string, ptr func(*T) *bool) Field[T] {
	return Field[T]{
		Name: name,
		Type: memdb.TypeFlag,
		get:  func(rec *T) memdb.Value { return memdb.Bool(*ptr(rec)) },
		set:  func(rec *T, v memdb.Value) { *ptr(rec) = flagOf(v) },
	}
}

func intOf(v memdb.Value) (int64, bool) {
	if n, ok := v.Int(); ok {
		return n, true
	}
	text, ok := v.Text()
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func flagOf(v memdb.Value) bool {
	if f, ok := v.Float(); ok {
		return f != 0
	}
	text, _ := v.Text()
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
