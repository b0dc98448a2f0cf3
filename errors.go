// Package relmap derives relational mapping metadata for Go entity types and
// turns it into dialect-correct, parameterized SQL.
//
// The engine is split across three packages:
//
//   - schema: the mapping model (EntityMapping, PropertyMapping,
//     ForeignKeyMapping) and the Registry that builds it from struct tags,
//     fluent configuration and YAML overrides.
//   - dialect: the Dialect capability interface and its adapters.
//   - dialect/sql: the statement generator, the predicate and ordering
//     compilers and a thin execution helper.
//
// This package holds the error taxonomy shared by all of them.
package relmap

import (
	"errors"
	"strings"
)

// Sentinel errors for the three failure classes. Every error returned by the
// engine matches exactly one of them with errors.Is.
var (
	// ErrMapping is matched by errors raised while building an entity mapping.
	ErrMapping = errors.New("relmap: mapping error")

	// ErrGeneration is matched by errors raised while synthesizing statements.
	ErrGeneration = errors.New("relmap: generation error")

	// ErrTranslation is matched by errors raised while compiling expressions.
	ErrTranslation = errors.New("relmap: translation error")
)

// MappingError reports an entity type that cannot be mapped.
type MappingError struct {
	Entity   string // Entity type name
	Property string // Property name (if applicable)
	Related  string // Related entity type name, for foreign keys
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	var b strings.Builder
	b.WriteString("relmap: mapping error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Property != "" {
		b.WriteString(" property ")
		b.WriteString(e.Property)
	}
	if e.Related != "" {
		b.WriteString(" (principal ")
		b.WriteString(e.Related)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *MappingError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrMapping.
func (e *MappingError) Is(target error) bool {
	return target == ErrMapping
}

// NewMappingError returns a new MappingError.
func NewMappingError(entity, property, message string) *MappingError {
	return &MappingError{
		Entity:   entity,
		Property: property,
		Message:  message,
	}
}

// GenerationError reports a statement that cannot be synthesized.
type GenerationError struct {
	Entity    string
	Statement string // "insert", "update", "delete", "select"
	Message   string
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("relmap: generation error")
	if e.Statement != "" {
		b.WriteString(" in ")
		b.WriteString(e.Statement)
	}
	if e.Entity != "" {
		b.WriteString(" for entity ")
		b.WriteString(e.Entity)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrGeneration.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// NewGenerationError returns a new GenerationError.
func NewGenerationError(entity, statement, message string) *GenerationError {
	return &GenerationError{
		Entity:    entity,
		Statement: statement,
		Message:   message,
	}
}

// TranslationError reports an expression that cannot be lowered to SQL.
type TranslationError struct {
	Entity  string
	Node    string // Expression node kind, e.g. "call", "binary"
	Name    string // Method, operator or property name
	Message string
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	var b strings.Builder
	b.WriteString("relmap: translation error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Node != "" {
		b.WriteString(" at ")
		b.WriteString(e.Node)
		if e.Name != "" {
			b.WriteString(" ")
			b.WriteString(e.Name)
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrTranslation.
func (e *TranslationError) Is(target error) bool {
	return target == ErrTranslation
}

// NewTranslationError returns a new TranslationError.
func NewTranslationError(entity, node, name, message string) *TranslationError {
	return &TranslationError{
		Entity:  entity,
		Node:    node,
		Name:    name,
		Message: message,
	}
}

// IsMappingError reports whether the error is a MappingError.
func IsMappingError(err error) bool {
	if err == nil {
		return false
	}
	var e *MappingError
	return errors.As(err, &e)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	if err == nil {
		return false
	}
	var e *GenerationError
	return errors.As(err, &e)
}

// IsTranslationError reports whether the error is a TranslationError.
func IsTranslationError(err error) bool {
	if err == nil {
		return false
	}
	var e *TranslationError
	return errors.As(err, &e)
}
