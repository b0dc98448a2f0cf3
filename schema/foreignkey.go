package schema

import (
	"reflect"

	"github.com/syssam/relmap"
)

// reference is a foreign key declaration before resolution.
type reference struct {
	property   string
	navigation string
	principal  reflect.Type
	name       string // principal type name, when declared by name
}

// resolveForeignKeys resolves the references of s. Declarations come from
// three places, and a later one replaces an earlier one for the same
// property: fk markers on scalar properties, fk markers on navigation
// fields, then fluent ForeignKey calls. A single-valued navigation without
// a declaration is matched to a scalar named {Navigation}Id, if any.
func (r *Registry) resolveForeignKeys(s *resolution) error {
	m := s.mapping
	var refs []reference
	add := func(ref reference) {
		for i := range refs {
			if refs[i].property == ref.property {
				refs[i] = ref
				return
			}
		}
		refs = append(refs, ref)
	}
	for _, p := range m.Properties {
		if mk := s.markers[p.Name]; mk.fk != "" {
			add(reference{property: p.Name, navigation: mk.nav, name: mk.fk})
		}
	}
	declared := make(map[string]bool)
	for _, ref := range refs {
		declared[ref.navigation] = true
	}
	for _, nav := range s.navs {
		if nav.many || declared[nav.Name] {
			continue
		}
		if nav.marker.fk != "" {
			add(reference{property: nav.marker.fk, navigation: nav.Name, principal: nav.target})
			continue
		}
		want := normalizeName(nav.Name + "Id")
		for _, p := range m.Properties {
			if normalizeName(p.Name) == want {
				add(reference{property: p.Name, navigation: nav.Name, principal: nav.target})
				break
			}
		}
	}
	for _, fk := range s.cfg.fks {
		add(reference{property: fk.property, navigation: fk.navigation, principal: fk.principal, name: fk.principalName})
	}
	for _, ref := range refs {
		fk, err := r.foreignKey(s, ref)
		if err != nil {
			return err
		}
		m.ForeignKeys = append(m.ForeignKeys, fk)
	}
	return nil
}

func (r *Registry) foreignKey(s *resolution, ref reference) (*ForeignKeyMapping, error) {
	m := s.mapping
	p, ok := m.Property(ref.property)
	if !ok {
		return nil, relmap.NewMappingError(m.Name, ref.property, "foreign key property not found")
	}
	principal := ref.principal
	if ref.navigation != "" {
		nav, ok := s.navigation(ref.navigation)
		if !ok {
			return nil, &relmap.MappingError{Entity: m.Name, Property: p.Name, Related: ref.name, Message: "navigation " + ref.navigation + " not found"}
		}
		switch {
		case principal == nil && (ref.name == "" || ref.name == nav.target.Name()):
			principal = nav.target
		case principal != nav.target:
			related := ref.name
			if principal != nil {
				related = principal.Name()
			}
			return nil, &relmap.MappingError{Entity: m.Name, Property: p.Name, Related: related, Message: "navigation " + nav.Name + " references " + nav.target.Name()}
		}
	}
	if principal == nil {
		switch t, ok := r.typeByName(ref.name); {
		case ref.name == m.Name:
			principal = m.Type
		case ok:
			principal = t
		default:
			return nil, &relmap.MappingError{Entity: m.Name, Property: p.Name, Related: ref.name, Message: "unknown principal entity"}
		}
	}
	pm, err := r.principal(m, principal)
	if err != nil {
		return nil, &relmap.MappingError{Entity: m.Name, Property: p.Name, Related: principal.Name(), Message: "cannot resolve principal", Cause: err}
	}
	keys := pm.KeyProperties()
	if len(keys) != 1 {
		msg := "principal has no key"
		if len(keys) > 1 {
			msg = "composite principal keys are not supported"
		}
		return nil, &relmap.MappingError{Entity: m.Name, Property: p.Name, Related: pm.Name, Message: msg}
	}
	return &ForeignKeyMapping{
		Navigation:         ref.navigation,
		Property:           p,
		Principal:          pm.Type,
		PrincipalName:      pm.Name,
		Column:             p.Column,
		PrincipalKeyColumn: keys[0].Column,
		PrincipalTable:     pm.Table,
		PrincipalSchema:    pm.Schema,
	}, nil
}

// principal returns the table and key information of t. It reuses a built
// mapping if there is one, and otherwise resolves t without its references.
func (r *Registry) principal(m *EntityMapping, t reflect.Type) (*EntityMapping, error) {
	if t == m.Type {
		return m, nil
	}
	if r.built(t) {
		return r.Mapping(t)
	}
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return nil, relmap.NewMappingError(t.String(), "", "entity must be a named struct type")
	}
	s, err := r.resolve(t, r.lookup(t))
	if err != nil {
		return nil, err
	}
	return s.mapping, nil
}

func (s *resolution) navigation(name string) (navigation, bool) {
	for _, nav := range s.navs {
		if nav.Name == name {
			return nav, true
		}
	}
	return navigation{}, false
}
