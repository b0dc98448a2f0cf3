package sql

import (
	"fmt"
	"reflect"
)

// Expr is a node of a predicate or ordering expression written against the
// properties of one entity. Build trees with the combinators below:
//
//	sql.And(
//	    sql.P("Active"),
//	    sql.Ge(sql.P("Age"), 18),
//	    sql.Contains(sql.P("Name"), sql.Ref(&needle)),
//	)
type Expr interface {
	expr()
}

// Op is a binary operator.
type Op int

// Binary operators.
const (
	OpEQ Op = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpAnd
	OpOr
)

var ops = [...]struct{ name, sql string }{
	OpEQ:  {"==", "="},
	OpNE:  {"!=", "<>"},
	OpLT:  {"<", "<"},
	OpLE:  {"<=", "<="},
	OpGT:  {">", ">"},
	OpGE:  {">=", ">="},
	OpAnd: {"&&", "AND"},
	OpOr:  {"||", "OR"},
}

// String returns the Go spelling of the operator.
func (o Op) String() string {
	if o < 0 || int(o) >= len(ops) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return ops[o].name
}

// SQL returns the SQL spelling of the operator.
func (o Op) SQL() string {
	if o < 0 || int(o) >= len(ops) {
		return ""
	}
	return ops[o].sql
}

// Logical reports whether o is AND or OR.
func (o Op) Logical() bool { return o == OpAnd || o == OpOr }

type (
	// Member accesses a property of the entity.
	Member struct {
		Name string
	}

	// Const is a literal value.
	Const struct {
		Value any
	}

	// Captured is a value from the caller's scope. It is evaluated once,
	// when the expression is translated.
	Captured struct {
		Eval func() any
	}

	// Binary is a comparison or a logical connective.
	Binary struct {
		Op          Op
		Left, Right Expr
	}

	// Unary is a logical negation.
	Unary struct {
		Operand Expr
	}

	// Call is a method call on Target.
	Call struct {
		Method string
		Target Expr
		Args   []Expr
	}
)

func (Member) expr()   {}
func (Const) expr()    {}
func (Captured) expr() {}
func (Binary) expr()   {}
func (Unary) expr()    {}
func (Call) expr()     {}

// P returns a reference to the named entity property.
func P(name string) Member { return Member{Name: name} }

// V returns a literal.
func V(v any) Const { return Const{Value: v} }

// Capture returns a value computed by fn at translation time.
func Capture(fn func() any) Captured { return Captured{Eval: fn} }

// Ref returns the value ptr points to at translation time.
func Ref(ptr any) Captured {
	return Captured{Eval: func() any {
		v := reflect.ValueOf(ptr)
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return ptr
		}
		return v.Elem().Interface()
	}}
}

// Eq returns l == r. Operands that are not an Expr are taken as literals.
func Eq(l, r any) Binary { return binary(OpEQ, l, r) }

// Ne returns l != r.
func Ne(l, r any) Binary { return binary(OpNE, l, r) }

// Lt returns l < r.
func Lt(l, r any) Binary { return binary(OpLT, l, r) }

// Le returns l <= r.
func Le(l, r any) Binary { return binary(OpLE, l, r) }

// Gt returns l > r.
func Gt(l, r any) Binary { return binary(OpGT, l, r) }

// Ge returns l >= r.
func Ge(l, r any) Binary { return binary(OpGE, l, r) }

// And joins the operands with AND, left to right.
func And(operands ...Expr) Expr { return fold(OpAnd, operands) }

// Or joins the operands with OR, left to right.
func Or(operands ...Expr) Expr { return fold(OpOr, operands) }

// Not negates e.
func Not(e Expr) Unary { return Unary{Operand: e} }

// Contains matches target values containing v.
func Contains(target, v any) Call { return CallOf("Contains", target, v) }

// HasPrefix matches target values starting with v.
func HasPrefix(target, v any) Call { return CallOf("HasPrefix", target, v) }

// HasSuffix matches target values ending with v.
func HasSuffix(target, v any) Call { return CallOf("HasSuffix", target, v) }

// CallOf returns a call of the named method. Only Contains, HasPrefix and
// HasSuffix translate; other methods fail at translation time.
func CallOf(method string, target any, args ...any) Call {
	c := Call{Method: method, Target: wrap(target), Args: make([]Expr, len(args))}
	for i, a := range args {
		c.Args[i] = wrap(a)
	}
	return c
}

func binary(op Op, l, r any) Binary {
	return Binary{Op: op, Left: wrap(l), Right: wrap(r)}
}

func fold(op Op, operands []Expr) Expr {
	switch len(operands) {
	case 0:
		return nil
	case 1:
		return operands[0]
	}
	e := operands[0]
	for _, o := range operands[1:] {
		e = Binary{Op: op, Left: e, Right: o}
	}
	return e
}

func wrap(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	return Const{Value: v}
}

// nodeKind names e in translation errors.
func nodeKind(e Expr) string {
	switch e.(type) {
	case Member, *Member:
		return "member"
	case Const, *Const:
		return "constant"
	case Captured, *Captured:
		return "captured"
	case Binary, *Binary:
		return "binary"
	case Unary, *Unary:
		return "unary"
	case Call, *Call:
		return "call"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", e)
	}
}
