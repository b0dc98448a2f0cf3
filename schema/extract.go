package schema

import (
	"reflect"
	"slices"

	"github.com/syssam/relmap"
)

// field is one exported struct field reachable from the entity type, with
// embedded structs flattened.
type field struct {
	reflect.StructField
	index  []int
	depth  int
	marker marker
}

// navigation is a reference-typed field pointing at another entity.
type navigation struct {
	field
	target reflect.Type
	many   bool
}

// resolution is the state of one mapping under construction.
type resolution struct {
	mapping  *EntityMapping
	cfg      *EntityConfig
	markers  map[string]marker
	navs     []navigation
	explicit map[string]bool // properties with an explicit generation
}

// resolve builds the properties, entity attributes and keys of t. Foreign
// keys are left to resolveForeignKeys, so resolving a principal never
// recurses into the principal's own references.
func (r *Registry) resolve(t reflect.Type, cfg *EntityConfig) (*resolution, error) {
	if cfg == nil {
		cfg = newEntityConfig(t)
	}
	m := &EntityMapping{Type: t, Name: t.Name()}
	s := &resolution{
		mapping:  m,
		cfg:      cfg,
		markers:  make(map[string]marker),
		explicit: make(map[string]bool),
	}
	fields, embedded, err := collectFields(t)
	if err != nil {
		return nil, err
	}
	m.ReadOnly = embedded[readOnlyType]
	m.KeyLess = embedded[keyLessType]
	if cfg.readOnly != nil {
		m.ReadOnly = *cfg.readOnly
	}
	if cfg.keyLess != nil {
		m.KeyLess = *cfg.keyLess
	}
	m.Table, m.Schema = r.tableName(t, cfg)
	if err := r.resolveProperties(s, fields); err != nil {
		return nil, err
	}
	if len(m.Properties) == 0 {
		return nil, relmap.NewMappingError(m.Name, "", "entity has no mappable properties")
	}
	m.index()
	if err := r.resolveKeys(s); err != nil {
		return nil, err
	}
	return s, nil
}

// tableName resolves the table and schema: fluent configuration, then the
// TableName and SchemaName methods, then the table naming strategy.
func (r *Registry) tableName(t reflect.Type, cfg *EntityConfig) (table, schema string) {
	zero := reflect.New(t).Interface()
	switch {
	case cfg.table != nil:
		table = *cfg.table
	default:
		if n, ok := zero.(TableNamer); ok && n.TableName() != "" {
			table = n.TableName()
		} else {
			table = r.opts.tableNaming(t.Name())
		}
	}
	switch {
	case cfg.schema != nil:
		schema = *cfg.schema
	default:
		if n, ok := zero.(SchemaNamer); ok {
			schema = n.SchemaName()
		}
	}
	return table, schema
}

func (r *Registry) resolveProperties(s *resolution, fields []field) error {
	m, cfg := s.mapping, s.cfg
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.Name] = true
		pc := cfg.props[f.Name]
		if f.marker.ignore || pc != nil && pc.ignore {
			continue
		}
		if !isScalar(f.Type) {
			if nav, ok := asNavigation(f); ok {
				s.navs = append(s.navs, nav)
			}
			continue
		}
		p, err := r.property(m.Name, f, pc)
		if err != nil {
			return err
		}
		if f.marker.generation != nil || pc != nil && pc.generation != nil {
			s.explicit[p.Name] = true
		}
		s.markers[p.Name] = f.marker
		m.Properties = append(m.Properties, p)
	}
	for _, name := range sortedKeys(cfg.props) {
		if !known[name] {
			return relmap.NewMappingError(m.Name, name, "configured property not found")
		}
	}
	return nil
}

// property merges the marker and the fluent overrides of f. Fluent values
// win field by field.
func (r *Registry) property(entity string, f field, pc *PropertyConfig) (*PropertyMapping, error) {
	mk := f.marker
	p := &PropertyMapping{
		Name:      f.Name,
		Column:    mk.column,
		Type:      f.Type,
		Index:     f.index,
		Required:  mk.required,
		MaxLength: mk.maxLength,
		Sequence:  mk.sequence,
		ReadOnly:  mk.readOnly,
	}
	if mk.generation != nil {
		p.Generation = *mk.generation
	}
	if pc != nil {
		if pc.column != nil {
			p.Column = *pc.column
		}
		if pc.required != nil {
			p.Required = *pc.required
		}
		if pc.maxLength != nil {
			p.MaxLength = pc.maxLength
		}
		if pc.generation != nil {
			p.Generation = *pc.generation
		}
		if pc.sequence != nil {
			p.Sequence = *pc.sequence
		}
		if pc.readOnly != nil {
			p.ReadOnly = *pc.readOnly
		}
	}
	if p.Column == "" {
		p.Column = r.opts.columnNaming(p.Name)
	}
	switch {
	case p.Generation == GenerationSequence && p.Sequence == "":
		return nil, relmap.NewMappingError(entity, p.Name, "sequence generation requires a sequence name")
	case p.Generation != GenerationSequence:
		p.Sequence = ""
	}
	if p.MaxLength != nil && *p.MaxLength < 0 {
		return nil, relmap.NewMappingError(entity, p.Name, "negative max length")
	}
	return p, nil
}

// asNavigation reports whether f references other entities: a struct, a
// pointer to one, or a slice of either.
func asNavigation(f field) (navigation, bool) {
	t, many := f.Type, false
	if t.Kind() == reflect.Slice {
		t, many = t.Elem(), true
	}
	t = indirect(t)
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return navigation{}, false
	}
	return navigation{field: f, target: t, many: many}, true
}

// collectFields walks t in declaration order. Embedded structs are expanded
// in place; a name defined at several depths resolves to the shallowest
// one, and a name defined twice at the same depth is dropped. The embedded
// marker types are reported in the second result.
func collectFields(t reflect.Type) ([]field, map[reflect.Type]bool, error) {
	var (
		all      []field
		embedded = make(map[reflect.Type]bool)
		visited  = make(map[reflect.Type]bool)
	)
	var walk func(t reflect.Type, index []int, depth int) error
	walk = func(t reflect.Type, index []int, depth int) error {
		if visited[t] {
			return nil
		}
		visited[t] = true
		defer delete(visited, t)
		for i := range t.NumField() {
			sf := t.Field(i)
			idx := append(slices.Clone(index), i)
			ft := indirect(sf.Type)
			if sf.Anonymous {
				if ft == readOnlyType || ft == keyLessType {
					embedded[ft] = true
					continue
				}
				if ft.Kind() == reflect.Struct && !isScalar(sf.Type) && sf.Tag.Get(TagName) != "-" {
					// Embedded pointers cannot be read through a nil value.
					if sf.Type.Kind() == reflect.Pointer {
						return relmap.NewMappingError(t.Name(), sf.Name, "embedded struct pointers are not supported")
					}
					if err := walk(ft, idx, depth+1); err != nil {
						return err
					}
					continue
				}
			}
			if !sf.IsExported() {
				continue
			}
			mk, err := parseMarker(t.Name(), sf)
			if err != nil {
				return err
			}
			all = append(all, field{StructField: sf, index: idx, depth: depth, marker: mk})
		}
		return nil
	}
	if err := walk(t, nil, 0); err != nil {
		return nil, nil, err
	}
	return dominant(all), embedded, nil
}

// dominant drops the fields hidden by a shallower field of the same name.
func dominant(all []field) []field {
	type rank struct{ depth, count int }
	ranks := make(map[string]rank, len(all))
	for _, f := range all {
		rk, ok := ranks[f.Name]
		switch {
		case !ok || f.depth < rk.depth:
			ranks[f.Name] = rank{depth: f.depth, count: 1}
		case f.depth == rk.depth:
			rk.count++
			ranks[f.Name] = rk
		}
	}
	fields := all[:0:0]
	for _, f := range all {
		if rk := ranks[f.Name]; rk.depth == f.depth && rk.count == 1 {
			fields = append(fields, f)
		}
	}
	return fields
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
