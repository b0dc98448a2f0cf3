package sql

import (
	"reflect"
	"strconv"

	"github.com/syssam/relmap"
	"github.com/syssam/relmap/dialect"
	"github.com/syssam/relmap/schema"
)

// Predicate is a compiled WHERE fragment and the values of its placeholders.
type Predicate struct {
	SQL    string
	Params *Params
}

// Args returns the parameters as sql.NamedArg values.
func (p *Predicate) Args() []any { return p.Params.Args() }

// CompilerOption configures a PredicateCompiler.
type CompilerOption func(*PredicateCompiler)

// IgnoreCaseByDefault sets whether string comparisons are case-insensitive
// unless a Translate call says otherwise.
func IgnoreCaseByDefault(v bool) CompilerOption {
	return func(c *PredicateCompiler) {
		c.ignoreCase = v
	}
}

// TranslateOption configures a single Translate call.
type TranslateOption func(*translator)

// WithIgnoreCase overrides the case sensitivity of string comparisons and
// pattern matches. It has no effect on other comparisons.
func WithIgnoreCase(v bool) TranslateOption {
	return func(t *translator) {
		t.ignoreCase = v
	}
}

// WithParamOffset starts parameter numbering at n, so that fragments from
// separate calls can be combined without name collisions.
func WithParamOffset(n int) TranslateOption {
	return func(t *translator) {
		t.offset = n
	}
}

// PredicateCompiler lowers boolean expressions over the properties of one
// entity into parameterized SQL. It holds no per-call state and is safe for
// concurrent use.
type PredicateCompiler struct {
	dialect    dialect.Dialect
	mapping    *schema.EntityMapping
	ignoreCase bool
}

// NewPredicateCompiler returns a compiler for m in dialect d.
func NewPredicateCompiler(d dialect.Dialect, m *schema.EntityMapping, opts ...CompilerOption) *PredicateCompiler {
	c := &PredicateCompiler{dialect: d, mapping: m}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate compiles e. Parameters are named p0, p1, ... in the order their
// placeholders appear. Numbering restarts at p0 on every call, so the
// results of two plain calls collide when combined into one statement;
// pass WithParamOffset to continue from where the previous one ended.
func (c *PredicateCompiler) Translate(e Expr, opts ...TranslateOption) (*Predicate, error) {
	t := &translator{
		dialect:    c.dialect,
		mapping:    c.mapping,
		ignoreCase: c.ignoreCase,
		params:     NewParams(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if e == nil {
		return nil, relmap.NewTranslationError(c.mapping.Name, "nil", "", "empty expression")
	}
	text, err := t.predicate(e)
	if err != nil {
		return nil, err
	}
	return &Predicate{SQL: text, Params: t.params}, nil
}

// translator is the state of one Translate call.
type translator struct {
	dialect    dialect.Dialect
	mapping    *schema.EntityMapping
	ignoreCase bool
	offset     int
	next       int
	params     *Params
}

// predicate lowers e in a position where SQL expects a condition.
func (t *translator) predicate(e Expr) (string, error) {
	switch e := deref(e).(type) {
	case Member:
		p, err := t.property(e)
		if err != nil {
			return "", err
		}
		if !p.IsBool() {
			return "", t.errorf(e, e.Name, "non-boolean property used as a condition")
		}
		return t.boolCompare(p, OpEQ, true), nil
	case Unary:
		if m, ok := deref(e.Operand).(Member); ok {
			p, err := t.property(m)
			if err != nil {
				return "", err
			}
			if p.IsBool() {
				return t.boolCompare(p, OpEQ, false), nil
			}
		}
		inner, err := t.predicate(e.Operand)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	case Binary:
		if !e.Op.Logical() {
			return t.comparison(e)
		}
		l, err := t.predicate(e.Left)
		if err != nil {
			return "", err
		}
		r, err := t.predicate(e.Right)
		if err != nil {
			return "", err
		}
		return "(" + l + " " + e.Op.SQL() + " " + r + ")", nil
	case Call:
		return t.call(e)
	case Const, Captured:
		return "", t.errorf(e, "", "a value cannot be used as a condition")
	default:
		return "", t.errorf(e, "", "unsupported expression")
	}
}

func (t *translator) comparison(b Binary) (string, error) {
	if b.Op.SQL() == "" {
		return "", t.errorf(b, b.Op.String(), "unsupported operator")
	}
	l, r := deref(b.Left), deref(b.Right)
	lv, lconst, err := t.fold(l)
	if err != nil {
		return "", err
	}
	rv, rconst, err := t.fold(r)
	if err != nil {
		return "", err
	}
	if b.Op == OpEQ || b.Op == OpNE {
		if p, ok := t.boolMember(l); ok && rconst {
			if v, ok := rv.(bool); ok {
				return t.boolCompare(p, b.Op, v), nil
			}
		}
		if p, ok := t.boolMember(r); ok && lconst {
			if v, ok := lv.(bool); ok {
				return t.boolCompare(p, b.Op, v), nil
			}
		}
		test := " IS NULL"
		if b.Op == OpNE {
			test = " IS NOT NULL"
		}
		switch {
		case rconst && isNil(rv):
			operand, err := t.operand(l, lv, lconst)
			if err != nil {
				return "", err
			}
			return operand + test, nil
		case lconst && isNil(lv):
			operand, err := t.operand(r, rv, rconst)
			if err != nil {
				return "", err
			}
			return operand + test, nil
		}
	}
	left, err := t.operand(l, lv, lconst)
	if err != nil {
		return "", err
	}
	right, err := t.operand(r, rv, rconst)
	if err != nil {
		return "", err
	}
	if t.ignoreCase && (t.isString(l, lv, lconst) || t.isString(r, rv, rconst)) {
		return "(" + t.dialect.CaseInsensitive(left, b.Op.SQL(), right) + ")", nil
	}
	return "(" + left + " " + b.Op.SQL() + " " + right + ")", nil
}

// operand lowers e in a value position. v is the folded value of e when
// isConst is set.
func (t *translator) operand(e Expr, v any, isConst bool) (string, error) {
	if isConst {
		return t.param(v), nil
	}
	if m, ok := e.(Member); ok {
		p, err := t.property(m)
		if err != nil {
			return "", err
		}
		return t.column(p), nil
	}
	return t.predicate(e)
}

// call lowers the pattern-matching methods to LIKE.
func (t *translator) call(c Call) (string, error) {
	var wrap func(string) string
	switch c.Method {
	case "Contains":
		wrap = func(s string) string { return "%" + s + "%" }
	case "HasPrefix":
		wrap = func(s string) string { return s + "%" }
	case "HasSuffix":
		wrap = func(s string) string { return "%" + s }
	default:
		return "", t.errorf(c, c.Method, "unsupported method")
	}
	m, ok := deref(c.Target).(Member)
	if !ok {
		return "", t.errorf(c, c.Method, "target must be an entity property")
	}
	p, err := t.property(m)
	if err != nil {
		return "", err
	}
	if !p.IsString() {
		return "", t.errorf(c, c.Method, "property "+p.Name+" is not a string")
	}
	if len(c.Args) != 1 {
		return "", t.errorf(c, c.Method, "expects exactly one argument")
	}
	v, isConst, err := t.fold(deref(c.Args[0]))
	if err != nil {
		return "", err
	}
	s, ok := stringValue(v)
	if !isConst || !ok {
		return "", t.errorf(c, c.Method, "argument must be a non-nil string value")
	}
	col, ph := t.column(p), t.param(wrap(t.dialect.EscapeLike(s)))
	like := col + " LIKE " + ph
	if t.ignoreCase {
		like = t.dialect.CaseInsensitive(col, "LIKE", ph)
	}
	return like + " ESCAPE " + t.dialect.LikeEscape(), nil
}

// fold evaluates constant and captured nodes.
func (t *translator) fold(e Expr) (any, bool, error) {
	switch e := e.(type) {
	case Const:
		return e.Value, true, nil
	case Captured:
		if e.Eval == nil {
			return nil, false, t.errorf(e, "", "captured value without an evaluator")
		}
		return e.Eval(), true, nil
	default:
		return nil, false, nil
	}
}

func (t *translator) param(v any) string {
	name := "p" + strconv.Itoa(t.offset+t.next)
	t.next++
	t.params.Add(name, v)
	return t.dialect.Placeholder(name)
}

func (t *translator) boolCompare(p *schema.PropertyMapping, op Op, v bool) string {
	return t.column(p) + " " + op.SQL() + " " + t.dialect.BoolLiteral(v)
}

func (t *translator) boolMember(e Expr) (*schema.PropertyMapping, bool) {
	m, ok := e.(Member)
	if !ok {
		return nil, false
	}
	p, ok := t.mapping.Property(m.Name)
	return p, ok && p.IsBool()
}

func (t *translator) isString(e Expr, v any, isConst bool) bool {
	if isConst {
		_, ok := stringValue(v)
		return ok
	}
	if m, ok := e.(Member); ok {
		p, ok := t.mapping.Property(m.Name)
		return ok && p.IsString()
	}
	return false
}

func (t *translator) property(m Member) (*schema.PropertyMapping, error) {
	p, ok := t.mapping.Property(m.Name)
	if !ok {
		return nil, t.errorf(m, m.Name, "property is not mapped")
	}
	return p, nil
}

func (t *translator) column(p *schema.PropertyMapping) string {
	return t.dialect.QuoteIdent(p.Column)
}

func (t *translator) errorf(e Expr, name, msg string) error {
	return relmap.NewTranslationError(t.mapping.Name, nodeKind(e), name, msg)
}

// deref accepts pointers to the node types.
func deref(e Expr) Expr {
	switch e := e.(type) {
	case *Member:
		if e != nil {
			return *e
		}
	case *Const:
		if e != nil {
			return *e
		}
	case *Captured:
		if e != nil {
			return *e
		}
	case *Binary:
		if e != nil {
			return *e
		}
	case *Unary:
		if e != nil {
			return *e
		}
	case *Call:
		if e != nil {
			return *e
		}
	}
	return e
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// stringValue returns v as a string if it is one, possibly behind a pointer
// or a named string type.
func stringValue(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}
