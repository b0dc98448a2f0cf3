// Package dialect defines the capability interface that isolates the SQL
// generator and the expression compilers from the syntactic differences
// between target databases.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL
//   - MySQL: MySQL/MariaDB
//   - SQLite: SQLite
//   - SQLServer: Microsoft SQL Server
//   - Oracle: Oracle Database
//
// A dialect is picked explicitly, either by value or by name:
//
//	d := dialect.Postgres
//	d, err := dialect.Lookup("mysql")
//
// Adding a database means adding an adapter; nothing in the generator or the
// compilers changes.
package dialect

import (
	"errors"
	"fmt"
	"strings"
)

// Dialect names.
const (
	NamePostgres  = "postgres"
	NameMySQL     = "mysql"
	NameSQLite    = "sqlite"
	NameSQLServer = "sqlserver"
	NameOracle    = "oracle"
)

// ErrUnknownDialect is returned by Lookup for unregistered names.
var ErrUnknownDialect = errors.New("relmap: unknown dialect")

// ParamStyle describes how a database driver expects bound parameters.
type ParamStyle int

const (
	// ParamNamed keeps the named placeholders produced by Placeholder.
	ParamNamed ParamStyle = iota
	// ParamDollar uses ordinal $1, $2, ... placeholders.
	ParamDollar
	// ParamQuestion uses positional ? placeholders.
	ParamQuestion
)

// Dialect is implemented by every database adapter.
type Dialect interface {
	// Name returns the dialect name, e.g. "postgres".
	Name() string

	// QuoteIdent quotes a single identifier (table, column or schema).
	QuoteIdent(name string) string

	// Placeholder returns the named parameter marker for name.
	Placeholder(name string) string

	// PlaceholderPrefix returns the character that introduces a named
	// placeholder in statement text.
	PlaceholderPrefix() byte

	// ParamStyle reports how the driver binds parameters.
	ParamStyle() ParamStyle

	// BoolLiteral returns the SQL literal for a boolean value.
	BoolLiteral(v bool) string

	// CaseInsensitive rewrites the comparison "left op right" into its
	// case-insensitive form. op is one of =, <>, <, <=, >, >= or LIKE.
	CaseInsensitive(left, op, right string) string

	// EscapeLike escapes the wildcard and escape characters of v so that it
	// matches literally inside a LIKE pattern.
	EscapeLike(v string) string

	// LikeEscape returns the quoted SQL literal used in the ESCAPE clause.
	LikeEscape() string

	// SequenceNext returns the expression yielding the next value of the
	// given sequence. ok is false if the database has no sequences.
	SequenceNext(sequence string) (expr string, ok bool)

	// InsertReturningKey returns an INSERT statement that also yields the
	// generated key columns. ok is false if the dialect cannot express it
	// in a single statement.
	InsertReturningKey(ins Insert, keys []string) (query string, ok bool)
}

// Insert holds the already quoted parts of an INSERT statement.
type Insert struct {
	Table   string
	Columns []string
	Values  []string
}

// String returns the plain INSERT statement.
func (i Insert) String() string {
	var b strings.Builder
	i.writeHead(&b)
	i.writeValues(&b)
	return b.String()
}

func (i Insert) writeHead(b *strings.Builder) {
	b.WriteString("INSERT INTO ")
	b.WriteString(i.Table)
	b.WriteString(" (")
	b.WriteString(strings.Join(i.Columns, ", "))
	b.WriteString(")")
}

func (i Insert) writeValues(b *strings.Builder) {
	b.WriteString(" VALUES (")
	b.WriteString(strings.Join(i.Values, ", "))
	b.WriteString(")")
}

// QuoteTable returns the quoted, optionally schema-qualified table name.
func QuoteTable(d Dialect, schema, table string) string {
	if schema == "" {
		return d.QuoteIdent(table)
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

// QuoteQualified quotes every dot-separated part of name.
func QuoteQualified(d Dialect, name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

// Lookup returns the dialect registered under name. A few common driver
// aliases are accepted.
func Lookup(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case NamePostgres, "postgresql", "pgx":
		return Postgres, nil
	case NameMySQL, "mariadb":
		return MySQL, nil
	case NameSQLite, "sqlite3":
		return SQLite, nil
	case NameSQLServer, "mssql":
		return SQLServer, nil
	case NameOracle:
		return Oracle, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}

// escapeLike prefixes every rune of s found in special with esc.
func escapeLike(s string, esc rune, special string) string {
	if !strings.ContainsAny(s, special) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			b.WriteRune(esc)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// quoteWith wraps name in left/right, doubling every embedded right quote.
func quoteWith(name, left, right string) string {
	return left + strings.ReplaceAll(name, right, right+right) + right
}

// lowerCompare is the portable case-insensitive rewrite.
func lowerCompare(left, op, right string) string {
	return "LOWER(" + left + ") " + op + " LOWER(" + right + ")"
}

// returningInsert appends a RETURNING clause listing keys.
func returningInsert(ins Insert, keys []string) string {
	return ins.String() + " RETURNING " + strings.Join(keys, ", ")
}
