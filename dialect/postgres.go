package dialect

import "github.com/lib/pq"

// Postgres is the PostgreSQL adapter. Placeholders are written as @name and
// rebound to $n for lib/pq.
var Postgres Dialect = postgres{}

type postgres struct{}

func (postgres) Name() string { return NamePostgres }

func (postgres) QuoteIdent(name string) string { return pq.QuoteIdentifier(name) }

func (postgres) Placeholder(name string) string { return "@" + name }

func (postgres) PlaceholderPrefix() byte { return '@' }

func (postgres) ParamStyle() ParamStyle { return ParamDollar }

func (postgres) BoolLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// CaseInsensitive uses ILIKE for pattern matches.
func (postgres) CaseInsensitive(left, op, right string) string {
	if op == "LIKE" {
		return left + " ILIKE " + right
	}
	return lowerCompare(left, op, right)
}

func (postgres) EscapeLike(v string) string { return escapeLike(v, '\\', `\%_`) }

func (postgres) LikeEscape() string { return `'\'` }

func (postgres) SequenceNext(sequence string) (string, bool) {
	return "nextval(" + pq.QuoteLiteral(sequence) + ")", true
}

func (postgres) InsertReturningKey(ins Insert, keys []string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	return returningInsert(ins, keys), true
}
