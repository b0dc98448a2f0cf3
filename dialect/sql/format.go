package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/relmap/schema"
)

// Format renders e in a compact Go-like notation, for logs and test
// failures:
//
//	Active && Price >= 10.5 && contains(Name, "a%b")
//
// Captured values are not evaluated.
func Format(e Expr) string {
	var b strings.Builder
	format(&b, e)
	return b.String()
}

func format(b *strings.Builder, e Expr) {
	switch e := deref(e).(type) {
	case nil:
		b.WriteString("<nil>")
	case Member:
		b.WriteString(e.Name)
	case Const:
		b.WriteString(formatValue(e.Value))
	case Captured:
		b.WriteString("<captured>")
	case Unary:
		b.WriteString("!(")
		format(b, e.Operand)
		b.WriteString(")")
	case Binary:
		formatOperand(b, e.Op, e.Left)
		b.WriteString(" " + e.Op.String() + " ")
		formatOperand(b, e.Op, e.Right)
	case Call:
		b.WriteString(schema.SnakeCase(e.Method))
		b.WriteString("(")
		format(b, e.Target)
		for _, a := range e.Args {
			b.WriteString(", ")
			format(b, a)
		}
		b.WriteString(")")
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}

// formatOperand parenthesizes a logical operand whose connective differs
// from the parent's.
func formatOperand(b *strings.Builder, parent Op, e Expr) {
	if c, ok := deref(e).(Binary); ok && c.Op.Logical() && c.Op != parent {
		b.WriteString("(")
		format(b, c)
		b.WriteString(")")
		return
	}
	format(b, e)
}

func formatValue(v any) string {
	if isNil(v) {
		return "nil"
	}
	if s, ok := stringValue(v); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(v)
}
