package dialect

// MySQL is the MySQL/MariaDB adapter. The driver binds positional ?
// parameters, and generated keys are read back via LastInsertId.
var MySQL Dialect = mysql{}

type mysql struct{}

func (mysql) Name() string { return NameMySQL }

func (mysql) QuoteIdent(name string) string { return quoteWith(name, "`", "`") }

func (mysql) Placeholder(name string) string { return "@" + name }

func (mysql) PlaceholderPrefix() byte { return '@' }

func (mysql) ParamStyle() ParamStyle { return ParamQuestion }

func (mysql) BoolLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func (mysql) CaseInsensitive(left, op, right string) string {
	return lowerCompare(left, op, right)
}

func (mysql) EscapeLike(v string) string { return escapeLike(v, '\\', `\%_`) }

// LikeEscape doubles the backslash; MySQL string literals treat it as an
// escape character.
func (mysql) LikeEscape() string { return `'\\'` }

func (mysql) SequenceNext(string) (string, bool) { return "", false }

func (mysql) InsertReturningKey(Insert, []string) (string, bool) { return "", false }
