package sql

import "database/sql"

// Params is an ordered set of named parameter values.
type Params struct {
	names  []string
	values map[string]any
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{values: make(map[string]any)}
}

// Add sets the value of name. A name keeps the position of its first Add.
func (p *Params) Add(name string, v any) *Params {
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = v
	return p
}

// Names returns the parameter names in insertion order.
func (p *Params) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Get returns the value of name.
func (p *Params) Get(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Args returns the parameters as sql.NamedArg values, for drivers that bind
// by name.
func (p *Params) Args() []any {
	if p == nil {
		return nil
	}
	args := make([]any, len(p.names))
	for i, name := range p.names {
		args[i] = sql.Named(name, p.values[name])
	}
	return args
}

// Merge adds every parameter of o, in order.
func (p *Params) Merge(o *Params) *Params {
	for _, name := range o.Names() {
		p.Add(name, o.values[name])
	}
	return p
}
