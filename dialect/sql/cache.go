package sql

import (
	"reflect"
	"sync"

	"github.com/syssam/relmap/dialect"
	"github.com/syssam/relmap/schema"
)

// CacheKey identifies the statements of one entity type in one dialect.
type CacheKey struct {
	Dialect string
	Type    reflect.Type
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	if k.Type == nil {
		return k.Dialect + ":"
	}
	return k.Dialect + ":" + k.Type.String()
}

// StatementCache memoizes Statements per dialect and entity type. The zero
// value is ready to use.
type StatementCache struct {
	mu      sync.RWMutex
	entries map[CacheKey]*Statements
}

// NewStatementCache returns an empty cache.
func NewStatementCache() *StatementCache {
	return &StatementCache{entries: make(map[CacheKey]*Statements)}
}

// Get returns the statements of m in dialect d, generating them on first
// use.
func (c *StatementCache) Get(d dialect.Dialect, m *schema.EntityMapping) (*Statements, error) {
	if d == nil || m == nil {
		return NewStatements(d, m)
	}
	key := CacheKey{Dialect: d.Name(), Type: m.Type}
	c.mu.RLock()
	s, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.entries[key]; ok {
		return s, nil
	}
	s, err := NewStatements(d, m)
	if err != nil {
		return nil, err
	}
	if c.entries == nil {
		c.entries = make(map[CacheKey]*Statements)
	}
	c.entries[key] = s
	return s, nil
}

// Delete removes the statements of key.
func (c *StatementCache) Delete(key CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *StatementCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached entries.
func (c *StatementCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
