package schema

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/syssam/relmap"
)

// Option configures a Registry.
type Option func(*options)

type options struct {
	logger               *slog.Logger
	tableNaming          NamingFunc
	columnNaming         NamingFunc
	conventionalIdentity bool
}

// WithLogger sets the logger receiving build records. Default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTableNaming sets how table names are derived from type names when
// neither fluent configuration nor TableName provides one.
func WithTableNaming(fn NamingFunc) Option {
	return func(o *options) {
		o.tableNaming = fn
	}
}

// WithColumnNaming sets how column names are derived from property names
// when neither fluent configuration nor the tag provides one.
func WithColumnNaming(fn NamingFunc) Option {
	return func(o *options) {
		o.columnNaming = fn
	}
}

// WithConventionalIdentity sets whether a single integer key without an
// explicit generation marker is treated as an identity column. Default is
// true.
func WithConventionalIdentity(enabled bool) Option {
	return func(o *options) {
		o.conventionalIdentity = enabled
	}
}

// Registry builds and caches entity mappings. Each type is built once, on
// first use, and the result is shared by all callers.
type Registry struct {
	opts options

	mu       sync.RWMutex
	order    []reflect.Type
	configs  map[reflect.Type]*EntityConfig
	names    map[string]reflect.Type
	mappings map[reflect.Type]*EntityMapping
	group    singleflight.Group
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		opts: options{
			tableNaming:          TypeName,
			columnNaming:         TypeName,
			conventionalIdentity: true,
		},
		configs:  make(map[reflect.Type]*EntityConfig),
		names:    make(map[string]reflect.Type),
		mappings: make(map[reflect.Type]*EntityMapping),
	}
	for _, opt := range opts {
		opt(&r.opts)
	}
	if r.opts.logger == nil {
		r.opts.logger = slog.Default()
	}
	return r
}

// Register adds an entity type and returns its fluent configuration. v is a
// value or pointer of the entity type, or its reflect.Type. Registering a
// type twice returns the same configuration.
func (r *Registry) Register(v any) *EntityConfig {
	t := typeOf(v)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configLocked(t)
}

// Configure registers T and returns its fluent configuration.
func Configure[T any](r *Registry) *EntityConfig {
	return r.Register(reflect.TypeFor[T]())
}

func (r *Registry) configLocked(t reflect.Type) *EntityConfig {
	if c, ok := r.configs[t]; ok {
		return c
	}
	c := newEntityConfig(t)
	r.configs[t] = c
	r.order = append(r.order, t)
	if t.Name() != "" {
		r.names[t.Name()] = t
	}
	return c
}

// Mapping returns the mapping of t, building it on first use. Unregistered
// types are mapped from their markers alone.
func (r *Registry) Mapping(t reflect.Type) (*EntityMapping, error) {
	t = indirect(t)
	r.mu.RLock()
	m, ok := r.mappings[t]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}
	v, err, _ := r.group.Do(typeKey(t), func() (any, error) {
		// A concurrent flight may have finished between the read above and
		// joining this one.
		r.mu.RLock()
		m, ok := r.mappings[t]
		r.mu.RUnlock()
		if ok {
			return m, nil
		}
		m, err := r.build(t)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.mappings[t] = m
		r.mu.Unlock()
		r.opts.logger.Debug("relmap: mapping built",
			"entity", m.Name,
			"table", m.Table,
			"schema", m.Schema,
			"properties", len(m.Properties),
			"keys", propertyNames(m.KeyProperties()),
			"foreign_keys", len(m.ForeignKeys),
		)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*EntityMapping), nil
}

// MappingFor returns the mapping of the type of v.
func (r *Registry) MappingFor(v any) (*EntityMapping, error) {
	return r.Mapping(typeOf(v))
}

// MappingOf returns the mapping of T.
func MappingOf[T any](r *Registry) (*EntityMapping, error) {
	return r.Mapping(reflect.TypeFor[T]())
}

// Build builds every registered type and returns the mappings in
// registration order. It stops at the first error.
func (r *Registry) Build() ([]*EntityMapping, error) {
	r.mu.RLock()
	types := append([]reflect.Type{}, r.order...)
	r.mu.RUnlock()
	mappings := make([]*EntityMapping, 0, len(types))
	for _, t := range types {
		m, err := r.Mapping(t)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

// built reports whether the mapping of t exists.
func (r *Registry) built(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.mappings[t]
	return ok
}

// lookup returns the configuration of t, or nil.
func (r *Registry) lookup(t reflect.Type) *EntityConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.configs[t]
}

// typeByName returns the registered type with the given name.
func (r *Registry) typeByName(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.names[name]
	return t, ok
}

// build resolves the complete mapping of t.
func (r *Registry) build(t reflect.Type) (*EntityMapping, error) {
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return nil, relmap.NewMappingError(t.String(), "", "entity must be a named struct type")
	}
	s, err := r.resolve(t, r.lookup(t))
	if err != nil {
		return nil, err
	}
	if err := r.resolveForeignKeys(s); err != nil {
		return nil, err
	}
	return s.mapping, nil
}

func typeOf(v any) reflect.Type {
	if t, ok := v.(reflect.Type); ok {
		return indirect(t)
	}
	return indirect(reflect.TypeOf(v))
}

// typeKey identifies t within the singleflight group. Local types may share
// a qualified name, so the type descriptor address is part of the key.
func typeKey(t reflect.Type) string {
	return fmt.Sprintf("%s@%p", t, t)
}

func propertyNames(props []*PropertyMapping) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}
