package sql

import (
	"github.com/syssam/relmap"
	"github.com/syssam/relmap/dialect"
	"github.com/syssam/relmap/schema"
)

// OrderCompiler lowers property selectors into ORDER BY terms.
type OrderCompiler struct {
	dialect dialect.Dialect
	mapping *schema.EntityMapping
}

// NewOrderCompiler returns an ordering compiler for m in dialect d.
func NewOrderCompiler(d dialect.Dialect, m *schema.EntityMapping) *OrderCompiler {
	return &OrderCompiler{dialect: d, mapping: m}
}

// Translate returns the ORDER BY term of selector, which must be a Member.
func (c *OrderCompiler) Translate(selector Expr, descending bool) (string, error) {
	m, ok := deref(selector).(Member)
	if !ok {
		return "", relmap.NewTranslationError(c.mapping.Name, nodeKind(selector), "", "only entity properties can be ordered by")
	}
	p, ok := c.mapping.Property(m.Name)
	if !ok {
		return "", relmap.NewTranslationError(c.mapping.Name, "member", m.Name, "property is not mapped")
	}
	term := c.dialect.QuoteIdent(p.Column)
	if descending {
		term += " DESC"
	}
	return term, nil
}

// ThenBy appends the term of selector to the ORDER BY list sql.
func (c *OrderCompiler) ThenBy(sql string, selector Expr, descending bool) (string, error) {
	term, err := c.Translate(selector, descending)
	if err != nil {
		return "", err
	}
	if sql == "" {
		return term, nil
	}
	return sql + ", " + term, nil
}
