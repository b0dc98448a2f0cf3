package sql

// Field is a typed handle on an entity property. It builds the same trees
// as the combinators, with the value type checked at compile time.
//
// Usage:
//
//	var Age = sql.Field[int]("Age")
//	pred, err := c.Translate(Age.GTE(18))
type Field[T any] string

// Name returns the property name.
func (f Field[T]) Name() string { return string(f) }

// Member returns the property reference.
func (f Field[T]) Member() Member { return P(string(f)) }

// EQ returns a predicate that checks if the property equals v.
func (f Field[T]) EQ(v T) Expr { return Eq(f.Member(), v) }

// NEQ returns a predicate that checks if the property differs from v.
func (f Field[T]) NEQ(v T) Expr { return Ne(f.Member(), v) }

// GT returns a predicate that checks if the property is greater than v.
func (f Field[T]) GT(v T) Expr { return Gt(f.Member(), v) }

// GTE returns a predicate that checks if the property is greater than or equal to v.
func (f Field[T]) GTE(v T) Expr { return Ge(f.Member(), v) }

// LT returns a predicate that checks if the property is less than v.
func (f Field[T]) LT(v T) Expr { return Lt(f.Member(), v) }

// LTE returns a predicate that checks if the property is less than or equal to v.
func (f Field[T]) LTE(v T) Expr { return Le(f.Member(), v) }

// IsNull returns a predicate that checks if the property is NULL.
func (f Field[T]) IsNull() Expr { return Eq(f.Member(), nil) }

// NotNull returns a predicate that checks if the property is not NULL.
func (f Field[T]) NotNull() Expr { return Ne(f.Member(), nil) }

// StringField is a string property handle with pattern matching.
type StringField string

// Name returns the property name.
func (f StringField) Name() string { return string(f) }

// Member returns the property reference.
func (f StringField) Member() Member { return P(string(f)) }

// EQ returns a predicate that checks if the property equals v.
func (f StringField) EQ(v string) Expr { return Eq(f.Member(), v) }

// NEQ returns a predicate that checks if the property differs from v.
func (f StringField) NEQ(v string) Expr { return Ne(f.Member(), v) }

// Contains returns a predicate that checks if the property contains v.
func (f StringField) Contains(v string) Expr { return Contains(f.Member(), v) }

// HasPrefix returns a predicate that checks if the property starts with v.
func (f StringField) HasPrefix(v string) Expr { return HasPrefix(f.Member(), v) }

// HasSuffix returns a predicate that checks if the property ends with v.
func (f StringField) HasSuffix(v string) Expr { return HasSuffix(f.Member(), v) }

// IsNull returns a predicate that checks if the property is NULL.
func (f StringField) IsNull() Expr { return Eq(f.Member(), nil) }

// NotNull returns a predicate that checks if the property is not NULL.
func (f StringField) NotNull() Expr { return Ne(f.Member(), nil) }

// BoolField is a bool property handle.
type BoolField string

// Name returns the property name.
func (f BoolField) Name() string { return string(f) }

// IsTrue returns a predicate that checks if the property is true.
func (f BoolField) IsTrue() Expr { return P(string(f)) }

// IsFalse returns a predicate that checks if the property is false.
func (f BoolField) IsFalse() Expr { return Not(P(string(f))) }
