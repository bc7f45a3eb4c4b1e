// Package filter provides AIP-160 filter expression parsing and translation
// into row predicates over a table's typed columns.
package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/memdb"
)

// Predicate reports whether a row matches a filter. A nil Predicate matches
// every row.
type Predicate func(memdb.Row) bool

// Declarations returns the identifier declarations for filtering a table
// with the given columns.
func Declarations(cols memdb.Columns) (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for _, col := range cols.List() {
		opts = append(opts, filtering.DeclareIdent(col.Name, identType(col.Type)))
	}
	return filtering.NewDeclarations(opts...)
}

func identType(t memdb.Type) *expr.Type {
	switch t {
	case memdb.TypeInt, memdb.TypeFlag:
		return filtering.TypeInt
	default:
		return filtering.TypeString
	}
}

// Compile parses an AIP-160 filter expression and returns a row predicate.
// Returns a nil predicate for an empty filter string.
func Compile(cols memdb.Columns, filterStr string) (Predicate, error) {
	if strings.TrimSpace(filterStr) == "" {
		return nil, nil
	}

	decls, err := Declarations(cols)
	if err != nil {
		return nil, fmt.Errorf("create declarations: %w", err)
	}

	filter, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return nil, invalid(filterStr, fmt.Errorf("parse filter: %w", err))
	}

	pred, err := translateExpr(cols, filter.CheckedExpr.GetExpr())
	if err != nil {
		return nil, invalid(filterStr, err)
	}
	return pred, nil
}

func invalid(filterStr string, cause error) error {
	return &apperrors.Error{
		Code:     apperrors.CodeInvalidArgument,
		Message:  cause.Error(),
		Metadata: map[string]string{"Field": "filter", "Value": filterStr},
		Cause:    cause,
	}
}

func translateExpr(cols memdb.Columns, e *expr.Expr) (Predicate, error) {
	if e == nil {
		return nil, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(cols, kind.CallExpr)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(cols memdb.Columns, call *expr.Expr_Call) (Predicate, error) {
	switch call.Function {
	case "_&&_", "AND":
		return translateLogical(cols, call.Args, func(a, b bool) bool { return a && b })
	case "_||_", "OR":
		return translateLogical(cols, call.Args, func(a, b bool) bool { return a || b })
	case "NOT":
		return translateNot(cols, call.Args)
	case "_==_", "=":
		return translateComparison(cols, call.Args, func(c int) bool { return c == 0 }, false)
	case "_!=_", "!=":
		return translateComparison(cols, call.Args, func(c int) bool { return c != 0 }, true)
	case "_<_", "<":
		return translateComparison(cols, call.Args, func(c int) bool { return c < 0 }, false)
	case "_<=_", "<=":
		return translateComparison(cols, call.Args, func(c int) bool { return c <= 0 }, false)
	case "_>_", ">":
		return translateComparison(cols, call.Args, func(c int) bool { return c > 0 }, false)
	case "_>=_", ">=":
		return translateComparison(cols, call.Args, func(c int) bool { return c >= 0 }, false)
	default:
		return nil, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateLogical(cols memdb.Columns, args []*expr.Expr, join func(a, b bool) bool) (Predicate, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("logical operator requires 2 arguments")
	}

	left, err := translateExpr(cols, args[0])
	if err != nil {
		return nil, err
	}

	right, err := translateExpr(cols, args[1])
	if err != nil {
		return nil, err
	}

	return func(row memdb.Row) bool {
		return join(match(left, row), match(right, row))
	}, nil
}

func translateNot(cols memdb.Columns, args []*expr.Expr) (Predicate, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := translateExpr(cols, args[0])
	if err != nil {
		return nil, err
	}
	return func(row memdb.Row) bool { return !match(inner, row) }, nil
}

// translateComparison builds a column-versus-constant predicate. Values of
// different kinds never compare; such rows yield mismatch.
func translateComparison(cols memdb.Columns, args []*expr.Expr, ok func(int) bool, mismatch bool) (Predicate, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("comparison requires 2 arguments")
	}

	field, err := extractFieldName(args[0])
	if err != nil {
		return nil, err
	}

	pos := cols.Index(field)
	if pos < 0 {
		return nil, fmt.Errorf("unknown field: %s", field)
	}

	value, err := extractValue(args[1])
	if err != nil {
		return nil, err
	}
	if cols.At(pos).Type == memdb.TypeAny {
		if text, isText := value.Text(); isText {
			value = memdb.ParseValue(text)
		}
	}

	return func(row memdb.Row) bool {
		c, comparable := compare(row[pos], value)
		if !comparable {
			return mismatch
		}
		return ok(c)
	}, nil
}

func match(pred Predicate, row memdb.Row) bool {
	return pred == nil || pred(row)
}

func compare(a, b memdb.Value) (int, bool) {
	if a.Kind() != b.Kind() {
		return 0, false
	}
	switch a.Kind() {
	case memdb.KindNumber:
		x, _ := a.Float()
		y, _ := b.Float()
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		default:
			return 0, true
		}
	case memdb.KindString:
		x, _ := a.Text()
		y, _ := b.Text()
		return strings.Compare(x, y), true
	default:
		return 0, true
	}
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (memdb.Value, error) {
	if e == nil {
		return memdb.Null(), fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	default:
		return memdb.Null(), fmt.Errorf("expected constant, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (memdb.Value, error) {
	if c == nil {
		return memdb.Null(), fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return memdb.String(kind.StringValue), nil
	case *expr.Constant_Int64Value:
		return memdb.Int(kind.Int64Value), nil
	case *expr.Constant_Uint64Value:
		return memdb.Number(float64(kind.Uint64Value)), nil
	case *expr.Constant_DoubleValue:
		return memdb.Number(kind.DoubleValue), nil
	case *expr.Constant_BoolValue:
		return memdb.Bool(kind.BoolValue), nil
	default:
		return memdb.Null(), fmt.Errorf("unsupported constant type: %T", kind)
	}
}
