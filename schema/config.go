package schema

import "reflect"

// EntityConfig holds the fluent overrides of one entity type. Every setter
// overrides the matching declarative marker; anything left unset falls back
// to markers and conventions.
type EntityConfig struct {
	typ      reflect.Type
	table    *string
	schema   *string
	readOnly *bool
	keyLess  *bool
	keys     []string
	altKeys  []string
	props    map[string]*PropertyConfig
	fks      []*ForeignKeyConfig
}

func newEntityConfig(t reflect.Type) *EntityConfig {
	return &EntityConfig{
		typ:   t,
		props: make(map[string]*PropertyConfig),
	}
}

// Type returns the configured entity type.
func (c *EntityConfig) Type() reflect.Type { return c.typ }

// Table sets the table name.
func (c *EntityConfig) Table(name string) *EntityConfig {
	c.table = &name
	return c
}

// Schema sets the database schema.
func (c *EntityConfig) Schema(name string) *EntityConfig {
	c.schema = &name
	return c
}

// ReadOnly marks the entity as read-only.
func (c *EntityConfig) ReadOnly() *EntityConfig {
	v := true
	c.readOnly = &v
	return c
}

// KeyLess marks the entity as having no primary key.
func (c *EntityConfig) KeyLess() *EntityConfig {
	v := true
	c.keyLess = &v
	return c
}

// Key sets the primary key properties, replacing any key markers.
func (c *EntityConfig) Key(properties ...string) *EntityConfig {
	c.keys = append([]string{}, properties...)
	return c
}

// AlternateKey sets the alternate key properties, replacing any markers.
func (c *EntityConfig) AlternateKey(properties ...string) *EntityConfig {
	c.altKeys = append([]string{}, properties...)
	return c
}

// Property returns the overrides of the named property, creating them on
// first use.
func (c *EntityConfig) Property(name string) *PropertyConfig {
	pc, ok := c.props[name]
	if !ok {
		pc = &PropertyConfig{name: name}
		c.props[name] = pc
	}
	return pc
}

// ForeignKey declares property as a foreign key to principal, which is
// either a reflect.Type, a value or pointer of the principal type, or the
// name of a registered entity type.
func (c *EntityConfig) ForeignKey(property string, principal any) *ForeignKeyConfig {
	fk := &ForeignKeyConfig{property: property}
	switch p := principal.(type) {
	case nil:
	case string:
		fk.principalName = p
	case reflect.Type:
		fk.principal = indirect(p)
	default:
		fk.principal = indirect(reflect.TypeOf(p))
	}
	for i, prev := range c.fks {
		if prev.property == property {
			c.fks[i] = fk
			return fk
		}
	}
	c.fks = append(c.fks, fk)
	return fk
}

// PropertyConfig holds the fluent overrides of one property.
type PropertyConfig struct {
	name       string
	column     *string
	required   *bool
	maxLength  *int
	generation *GenerationKind
	sequence   *string
	readOnly   *bool
	ignore     bool
}

// Column sets the column name.
func (c *PropertyConfig) Column(name string) *PropertyConfig {
	c.column = &name
	return c
}

// Required sets whether a value is required on write.
func (c *PropertyConfig) Required(v bool) *PropertyConfig {
	c.required = &v
	return c
}

// MaxLength sets the maximum value length.
func (c *PropertyConfig) MaxLength(n int) *PropertyConfig {
	c.maxLength = &n
	return c
}

// Generation sets how the database assigns the value. GenerationNone
// disables the identity default of conventional keys.
func (c *PropertyConfig) Generation(k GenerationKind) *PropertyConfig {
	c.generation = &k
	return c
}

// Sequence backs the property with the named sequence.
func (c *PropertyConfig) Sequence(name string) *PropertyConfig {
	c.sequence = &name
	return c.Generation(GenerationSequence)
}

// ReadOnly sets whether the property is ever written.
func (c *PropertyConfig) ReadOnly(v bool) *PropertyConfig {
	c.readOnly = &v
	return c
}

// Ignore excludes the property from the mapping.
func (c *PropertyConfig) Ignore() *PropertyConfig {
	c.ignore = true
	return c
}

// ForeignKeyConfig holds a fluent foreign-key declaration.
type ForeignKeyConfig struct {
	property      string
	principal     reflect.Type
	principalName string
	navigation    string
}

// Navigation names the navigation field of the reference.
func (c *ForeignKeyConfig) Navigation(field string) *ForeignKeyConfig {
	c.navigation = field
	return c
}
