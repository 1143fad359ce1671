package querybuilder

import (
	"strconv"
	"strings"
)

// Condition renders one predicate of a WHERE clause. Conditions are joined
// with AND; use Expr for anything more elaborate.
type Condition interface {
	appendSQL(w *sqlWriter)
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) appendSQL(w *sqlWriter) {
	w.buf.WriteString(c.column)
	w.buf.WriteString(" ")
	w.buf.WriteString(c.op)
	w.buf.WriteString(" ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition  { return compare{column: column, op: "=", value: value} }
func Neq(column string, value any) Condition { return compare{column: column, op: "<>", value: value} }
func Lt(column string, value any) Condition  { return compare{column: column, op: "<", value: value} }
func Lte(column string, value any) Condition { return compare{column: column, op: "<=", value: value} }
func Gt(column string, value any) Condition  { return compare{column: column, op: ">", value: value} }
func Gte(column string, value any) Condition { return compare{column: column, op: ">=", value: value} }

type inList struct {
	column string
	values []any
}

// In renders column IN (...). An empty list matches nothing.
func In(column string, values []any) Condition {
	return inList{column: column, values: values}
}

// InStrings is In for string slices.
func InStrings(column string, values []string) Condition {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return In(column, out)
}

func (c inList) appendSQL(w *sqlWriter) {
	if len(c.values) == 0 {
		w.buf.WriteString("1=0")
		return
	}
	w.buf.WriteString(c.column)
	w.buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			w.buf.WriteString(", ")
		}
		w.bind(v)
	}
	w.buf.WriteString(")")
}

type nullCheck struct {
	column string
	not    bool
}

func IsNull(column string) Condition    { return nullCheck{column: column} }
func IsNotNull(column string) Condition { return nullCheck{column: column, not: true} }

func (c nullCheck) appendSQL(w *sqlWriter) {
	w.buf.WriteString(c.column)
	if c.not {
		w.buf.WriteString(" IS NOT NULL")
		return
	}
	w.buf.WriteString(" IS NULL")
}

type rawExpr struct {
	expr string
	args []any
}

// Expr embeds a raw SQL fragment; each '?' is bound to the next arg.
func Expr(expr string, args ...any) Condition {
	return rawExpr{expr: expr, args: args}
}

func (c rawExpr) appendSQL(w *sqlWriter) {
	w.expr(c.expr, c.args)
}

type literal struct {
	column string
	value  string
}

// EqLiteral compares against an inlined, quoted literal. Reserved for
// constants that must appear in the statement text (partial index matches).
func EqLiteral(column, value string) Condition {
	return literal{column: column, value: value}
}

func (c literal) appendSQL(w *sqlWriter) {
	w.buf.WriteString(c.column)
	w.buf.WriteString(" = '")
	w.buf.WriteString(strings.ReplaceAll(c.value, "'", "''"))
	w.buf.WriteString("'")
}

// sqlWriter accumulates statement text and positional args ($1, $2, ...).
type sqlWriter struct {
	buf  strings.Builder
	args []any
}

func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

func (w *sqlWriter) expr(expr string, args []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(args) {
			w.bind(args[next])
			next++
			continue
		}
		w.buf.WriteByte(expr[i])
	}
}

func (w *sqlWriter) where(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.buf.WriteString(" AND ")
		}
		c.appendSQL(w)
	}
}

func (w *sqlWriter) list(keyword string, parts []string) {
	if len(parts) == 0 {
		return
	}
	w.buf.WriteString(keyword)
	w.buf.WriteString(strings.Join(parts, ", "))
}
