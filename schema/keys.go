package schema

import "github.com/syssam/relmap"

// resolveKeys resolves the primary and alternate keys of s. The primary key
// comes from the fluent key list, else from pk markers, else from the Id or
// {Type}Id convention.
func (r *Registry) resolveKeys(s *resolution) error {
	m, cfg := s.mapping, s.cfg
	keys, err := s.declared(cfg.keys, func(mk marker) bool { return mk.key }, "key")
	if err != nil {
		return err
	}
	if m.KeyLess && len(keys) > 0 {
		return relmap.NewMappingError(m.Name, keys[0].Name, "key-less entity declares a primary key")
	}
	if len(keys) == 0 && !m.KeyLess {
		if p := s.conventionalKey(); p != nil {
			keys = []*PropertyMapping{p}
		}
	}
	alt, err := s.declared(cfg.altKeys, func(mk marker) bool { return mk.altKey }, "alternate key")
	if err != nil {
		return err
	}
	m.Keys, m.AlternateKeys = keys, alt
	switch {
	case len(keys) > 0:
	case len(alt) > 0:
		// Addressed and written by the business key.
	case !m.ReadOnly && !m.KeyLess:
		return relmap.NewMappingError(m.Name, "", "entity has no key; declare one, or mark the entity read-only or key-less")
	}
	if len(keys) == 1 && !s.explicit[keys[0].Name] && r.opts.conventionalIdentity && isInteger(keys[0].Type) {
		keys[0].Generation = GenerationIdentity
	}
	return nil
}

// declared returns the properties listed by names, or, when names is empty,
// the properties whose marker satisfies marked, in declaration order.
func (s *resolution) declared(names []string, marked func(marker) bool, what string) ([]*PropertyMapping, error) {
	m := s.mapping
	if len(names) > 0 {
		props := make([]*PropertyMapping, 0, len(names))
		for _, name := range names {
			p, ok := m.Property(name)
			if !ok {
				return nil, relmap.NewMappingError(m.Name, name, what+" property not found")
			}
			if containsProperty(props, p) {
				return nil, relmap.NewMappingError(m.Name, name, "duplicate "+what+" property")
			}
			props = append(props, p)
		}
		return props, nil
	}
	var props []*PropertyMapping
	for _, p := range m.Properties {
		if marked(s.markers[p.Name]) {
			props = append(props, p)
		}
	}
	return props, nil
}

// conventionalKey returns the property named Id, else {Type}Id, ignoring
// case and punctuation.
func (s *resolution) conventionalKey() *PropertyMapping {
	m := s.mapping
	for _, want := range []string{normalizeName("Id"), normalizeName(m.Name + "Id")} {
		for _, p := range m.Properties {
			if normalizeName(p.Name) == want {
				return p
			}
		}
	}
	return nil
}

func containsProperty(props []*PropertyMapping, p *PropertyMapping) bool {
	for _, q := range props {
		if q == p {
			return true
		}
	}
	return false
}
