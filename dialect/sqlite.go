package dialect

// SQLite is the SQLite adapter (3.35+ for RETURNING).
var SQLite Dialect = sqlite{}

type sqlite struct{}

func (sqlite) Name() string { return NameSQLite }

func (sqlite) QuoteIdent(name string) string { return quoteWith(name, `"`, `"`) }

func (sqlite) Placeholder(name string) string { return "@" + name }

func (sqlite) PlaceholderPrefix() byte { return '@' }

func (sqlite) ParamStyle() ParamStyle { return ParamQuestion }

func (sqlite) BoolLiteral(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// CaseInsensitive relies on the NOCASE collation for comparisons. LIKE is
// folded explicitly since COLLATE does not apply to it.
func (sqlite) CaseInsensitive(left, op, right string) string {
	if op == "LIKE" {
		return lowerCompare(left, op, right)
	}
	return left + " " + op + " " + right + " COLLATE NOCASE"
}

func (sqlite) EscapeLike(v string) string { return escapeLike(v, '\\', `\%_`) }

func (sqlite) LikeEscape() string { return `'\'` }

func (sqlite) SequenceNext(string) (string, bool) { return "", false }

func (sqlite) InsertReturningKey(ins Insert, keys []string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	return returningInsert(ins, keys), true
}
