package sql

import (
	"database/sql"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/syssam/relmap/dialect"
)

// Bind rewrites the named placeholders of query into the style of d and
// returns the driver arguments in placeholder order.
//
//   - ParamDollar (lib/pq): @name becomes $n; a repeated name reuses its n.
//   - ParamQuestion (MySQL, SQLite): @name becomes ?; a repeated name
//     repeats its value.
//   - ParamNamed (SQL Server, Oracle): the text is kept and every
//     referenced parameter is passed once as sql.NamedArg.
//
// Only placeholders naming a member of params are touched. Quoted strings
// and quoted identifiers are skipped.
func Bind(d dialect.Dialect, query string, params *Params) (string, []any) {
	if params.Len() == 0 {
		return query, nil
	}
	var (
		b       strings.Builder
		args    []any
		ordinal = make(map[string]int)
		prefix  = d.PlaceholderPrefix()
		style   = d.ParamStyle()
		closers = quoteClosers(d)
	)
	b.Grow(len(query))
	for i := 0; i < len(query); {
		c := query[i]
		if end, ok := closers[c]; ok {
			j := skipQuoted(query, i, end)
			b.WriteString(query[i:j])
			i = j
			continue
		}
		if c != prefix {
			b.WriteByte(c)
			i++
			continue
		}
		j := identEnd(query, i+1)
		if j == i+1 {
			b.WriteByte(c)
			i++
			continue
		}
		name := query[i+1 : j]
		v, ok := params.Get(name)
		if !ok {
			b.WriteString(query[i:j])
			i = j
			continue
		}
		switch style {
		case dialect.ParamDollar:
			n, seen := ordinal[name]
			if !seen {
				args = append(args, v)
				n = len(args)
				ordinal[name] = n
			}
			b.WriteString("$" + strconv.Itoa(n))
		case dialect.ParamQuestion:
			args = append(args, v)
			b.WriteByte('?')
		default:
			if _, seen := ordinal[name]; !seen {
				ordinal[name] = len(args)
				args = append(args, sql.Named(name, v))
			}
			b.WriteString(query[i:j])
		}
		i = j
	}
	return b.String(), args
}

// quoteClosers maps the opening quote characters of d to their closers.
func quoteClosers(d dialect.Dialect) map[byte]byte {
	closers := map[byte]byte{'\'': '\'', '"': '"'}
	switch d.Name() {
	case dialect.NameMySQL:
		closers['`'] = '`'
	case dialect.NameSQLServer:
		closers['['] = ']'
	}
	return closers
}

// skipQuoted returns the index just past the quoted section opened at i.
// A doubled closer inside the section is an escaped one.
func skipQuoted(s string, i int, end byte) int {
	for j := i + 1; j < len(s); j++ {
		if s[j] != end {
			continue
		}
		if j+1 < len(s) && s[j+1] == end {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

// identEnd returns the index just past the Go identifier starting at i, or
// i if there is none. Letters are any Unicode letter, as in field names.
func identEnd(s string, i int) int {
	j := i
	for j < len(s) {
		r, size := utf8.DecodeRuneInString(s[j:])
		if r != '_' && !unicode.IsLetter(r) && (j == i || !unicode.IsDigit(r)) {
			break
		}
		j += size
	}
	return j
}
