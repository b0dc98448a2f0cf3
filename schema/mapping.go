package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// GenerationKind tells how the database assigns a column value.
type GenerationKind int

// Generation kinds.
const (
	GenerationNone GenerationKind = iota
	GenerationIdentity
	GenerationComputed
	GenerationSequence
)

var generationNames = [...]string{
	GenerationNone:     "none",
	GenerationIdentity: "identity",
	GenerationComputed: "computed",
	GenerationSequence: "sequence",
}

// String returns the lower-case kind name.
func (k GenerationKind) String() string {
	if k < 0 || int(k) >= len(generationNames) {
		return fmt.Sprintf("GenerationKind(%d)", int(k))
	}
	return generationNames[k]
}

// ParseGenerationKind parses a kind name as returned by String.
func ParseGenerationKind(s string) (GenerationKind, error) {
	for k, name := range generationNames {
		if strings.EqualFold(s, name) {
			return GenerationKind(k), nil
		}
	}
	return GenerationNone, fmt.Errorf("unknown generation kind %q", s)
}

// PropertyMapping is the mapping of one scalar property to one column.
type PropertyMapping struct {
	// Name is the Go field name.
	Name string
	// Column is the database column name.
	Column string
	// Type is the Go type of the field.
	Type reflect.Type
	// Index is the field index path, see reflect.Value.FieldByIndex.
	Index []int
	// Generation tells how the database assigns the value.
	Generation GenerationKind
	// Sequence names the sequence backing the column, if any.
	Sequence string
	// Required reports whether a value is required on write.
	Required bool
	// MaxLength is the maximum value length; nil means unbounded.
	MaxLength *int
	// ReadOnly properties are never written.
	ReadOnly bool
}

// IsGenerated reports whether the database assigns the value. Generated
// properties are never bound as INSERT or UPDATE parameters.
func (p *PropertyMapping) IsGenerated() bool {
	return p.Generation != GenerationNone || p.ReadOnly || p.Sequence != ""
}

// IsSequence reports whether the property is filled from a sequence.
func (p *PropertyMapping) IsSequence() bool {
	return p.Sequence != ""
}

// Nullable reports whether the Go type can hold a NULL.
func (p *PropertyMapping) Nullable() bool {
	switch p.Type.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Interface:
		return true
	default:
		return false
	}
}

// IsString reports whether the property holds a string, possibly behind a
// pointer.
func (p *PropertyMapping) IsString() bool {
	return indirect(p.Type).Kind() == reflect.String
}

// IsBool reports whether the property holds a bool, possibly behind a
// pointer.
func (p *PropertyMapping) IsBool() bool {
	return indirect(p.Type).Kind() == reflect.Bool
}

// Value returns the property value of entity, which must be a struct of the
// owning type or a pointer to one.
func (p *PropertyMapping) Value(entity any) (any, error) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("relmap: nil entity reading %s", p.Name)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("relmap: cannot read %s from %T", p.Name, entity)
	}
	f, err := v.FieldByIndexErr(p.Index)
	if err != nil {
		return nil, fmt.Errorf("relmap: read %s: %w", p.Name, err)
	}
	return f.Interface(), nil
}

// EntityMapping is the complete, immutable mapping of one entity type.
type EntityMapping struct {
	// Type is the entity struct type.
	Type reflect.Type
	// Name is the entity type name.
	Name string
	// Table is the table name.
	Table string
	// Schema is the database schema; empty means the default schema.
	Schema string
	// Properties holds the mapped properties in declaration order.
	Properties []*PropertyMapping
	// Keys holds the primary key properties in declaration order.
	Keys []*PropertyMapping
	// AlternateKeys holds the alternate key properties in declaration order.
	AlternateKeys []*PropertyMapping
	// ForeignKeys holds the resolved references to principal entities.
	ForeignKeys []*ForeignKeyMapping
	// ReadOnly entities are never written.
	ReadOnly bool
	// KeyLess entities have no primary key by declaration.
	KeyLess bool

	byName map[string]*PropertyMapping
}

// Property returns the property with the given name. An exact match wins
// over a case-insensitive one.
func (m *EntityMapping) Property(name string) (*PropertyMapping, bool) {
	if p, ok := m.byName[name]; ok {
		return p, true
	}
	for _, p := range m.Properties {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// PropertyByColumn returns the property mapped to the given column.
func (m *EntityMapping) PropertyByColumn(column string) (*PropertyMapping, bool) {
	for _, p := range m.Properties {
		if p.Column == column {
			return p, true
		}
	}
	return nil, false
}

// KeyProperties returns the properties that address a single row: the
// primary key, or the alternate key if there is none.
func (m *EntityMapping) KeyProperties() []*PropertyMapping {
	if len(m.Keys) > 0 {
		return m.Keys
	}
	return m.AlternateKeys
}

// IsKey reports whether p is one of KeyProperties.
func (m *EntityMapping) IsKey(p *PropertyMapping) bool {
	for _, k := range m.KeyProperties() {
		if k == p {
			return true
		}
	}
	return false
}

// CanMutate reports whether rows can be inserted, updated or deleted by key.
func (m *EntityMapping) CanMutate() bool {
	return m.MutationBlocker() == ""
}

// MutationBlocker returns why the entity cannot be written, or "" if it can.
// Only read-only and key-less entities, and entities with no key at all,
// are blocked; an alternate key alone is enough to address a row.
func (m *EntityMapping) MutationBlocker() string {
	switch {
	case m.ReadOnly:
		return "entity is read-only"
	case m.KeyLess:
		return "entity is key-less"
	case len(m.KeyProperties()) == 0:
		return "entity has no key"
	}
	return ""
}

// Value returns the value of the named property of entity.
func (m *EntityMapping) Value(entity any, property string) (any, error) {
	p, ok := m.Property(property)
	if !ok {
		return nil, fmt.Errorf("relmap: %s has no property %s", m.Name, property)
	}
	return p.Value(entity)
}

// Values reads props from entity, in order.
func (m *EntityMapping) Values(entity any, props []*PropertyMapping) ([]any, error) {
	values := make([]any, len(props))
	for i, p := range props {
		v, err := p.Value(entity)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (m *EntityMapping) index() {
	m.byName = make(map[string]*PropertyMapping, len(m.Properties))
	for _, p := range m.Properties {
		m.byName[p.Name] = p
	}
}

// ForeignKeyMapping is a reference from a dependent entity to the key of a
// principal entity.
type ForeignKeyMapping struct {
	// Navigation is the navigation field name; empty if there is none.
	Navigation string
	// Property is the scalar foreign-key property of the dependent entity.
	Property *PropertyMapping
	// Principal is the principal entity type.
	Principal reflect.Type
	// PrincipalName is the principal entity type name.
	PrincipalName string
	// Column is the foreign-key column of the dependent table.
	Column string
	// PrincipalKeyColumn is the referenced key column.
	PrincipalKeyColumn string
	// PrincipalTable is the principal table name.
	PrincipalTable string
	// PrincipalSchema is the principal schema; empty means the default.
	PrincipalSchema string
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
