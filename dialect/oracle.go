package dialect

// Oracle is the Oracle Database adapter. Returning generated keys needs
// output binds, which a plain statement text cannot carry.
var Oracle Dialect = oracle{}

type oracle struct{}

func (oracle) Name() string { return NameOracle }

func (oracle) QuoteIdent(name string) string { return quoteWith(name, `"`, `"`) }

func (oracle) Placeholder(name string) string { return ":" + name }

func (oracle) PlaceholderPrefix() byte { return ':' }

func (oracle) ParamStyle() ParamStyle { return ParamNamed }

func (oracle) BoolLiteral(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (oracle) CaseInsensitive(left, op, right string) string {
	return lowerCompare(left, op, right)
}

func (oracle) EscapeLike(v string) string { return escapeLike(v, '\\', `\%_`) }

func (oracle) LikeEscape() string { return `'\'` }

func (d oracle) SequenceNext(sequence string) (string, bool) {
	return QuoteQualified(d, sequence) + ".NEXTVAL", true
}

func (oracle) InsertReturningKey(Insert, []string) (string, bool) { return "", false }
