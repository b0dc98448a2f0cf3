package dialect

import "strings"

// SQLServer is the Microsoft SQL Server adapter.
var SQLServer Dialect = sqlserver{}

type sqlserver struct{}

func (sqlserver) Name() string { return NameSQLServer }

func (sqlserver) QuoteIdent(name string) string { return quoteWith(name, "[", "]") }

func (sqlserver) Placeholder(name string) string { return "@" + name }

func (sqlserver) PlaceholderPrefix() byte { return '@' }

func (sqlserver) ParamStyle() ParamStyle { return ParamNamed }

func (sqlserver) BoolLiteral(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (sqlserver) CaseInsensitive(left, op, right string) string {
	return lowerCompare(left, op, right)
}

// EscapeLike also escapes '[' which opens a character class in T-SQL.
func (sqlserver) EscapeLike(v string) string { return escapeLike(v, '\\', `\%_[`) }

func (sqlserver) LikeEscape() string { return `'\'` }

func (d sqlserver) SequenceNext(sequence string) (string, bool) {
	return "NEXT VALUE FOR " + QuoteQualified(d, sequence), true
}

// InsertReturningKey places an OUTPUT clause between the column list and
// VALUES.
func (sqlserver) InsertReturningKey(ins Insert, keys []string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = "INSERTED." + k
	}
	var b strings.Builder
	ins.writeHead(&b)
	b.WriteString(" OUTPUT ")
	b.WriteString(strings.Join(out, ", "))
	ins.writeValues(&b)
	return b.String(), true
}
