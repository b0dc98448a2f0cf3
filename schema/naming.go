package schema

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
)

// NamingFunc derives a table or column name from a Go identifier.
type NamingFunc func(name string) string

// TypeName keeps the Go identifier as is. It is the default for both tables
// and columns.
func TypeName(name string) string { return name }

// SnakeCase converts OrderLine to order_line and CustomerID to customer_id.
func SnakeCase(name string) string { return snake(name) }

// PluralSnakeCase converts OrderLine to order_lines.
func PluralSnakeCase(name string) string { return snake(inflect.Pluralize(name)) }

// snake lower-cases s and separates words with underscores. A run of
// capitals is one word, so HTTPCode becomes http_code and UserIDs user_ids.
func snake(s string) string {
	var (
		b     strings.Builder
		runes = []rune(s)
	)
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 && runes[i-1] != '_' {
			prev := runes[i-1]
			next := i+1 < len(runes) && unicode.IsLower(runes[i+1]) &&
				!(runes[i+1] == 's' && i+2 == len(runes))
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || next {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// normalizeName folds case and drops punctuation, so that "ID", "Id",
// "order_id" and "OrderID" compare as the same key name.
func normalizeName(name string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, name)
	return cases.Fold().String(stripped)
}
