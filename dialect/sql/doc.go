// Package sql turns entity mappings into parameterized SQL.
//
// # Statements
//
// NewStatements generates the CRUD statements of one mapping in one
// dialect, once. Placeholders are named after the properties they bind:
//
//	s, err := sql.NewStatements(dialect.Postgres, m)
//	s.SelectAll()     // SELECT "ID" AS "ID", "Name" AS "Name" FROM "Customer"
//	s.SelectByKey()   // ... WHERE "ID" = @ID
//	s.Insert()        // INSERT INTO "Customer" ("Name") VALUES (@Name)
//
// StatementCache shares Statements per dialect and entity type.
//
// # Predicates
//
// Expressions are trees of Expr nodes built with combinators:
//
//	c := sql.NewPredicateCompiler(dialect.Postgres, m)
//	p, err := c.Translate(sql.And(
//	    sql.P("Active"),
//	    sql.Contains(sql.P("Name"), "a%b"),
//	))
//	// p.SQL:    ("Active" = TRUE AND "Name" LIKE @p0 ESCAPE '\')
//	// p.Params: p0 = "%a\%b%"
//
// Literals and captured values always become parameters; the text of the
// fragment depends only on the shape of the tree. Format prints a tree in
// Go-like notation for logs.
//
// # Ordering
//
//	o := sql.NewOrderCompiler(dialect.Postgres, m)
//	ob, _ := o.Translate(sql.P("Name"), false)
//	ob, _ = o.ThenBy(ob, sql.P("ID"), true)   // "Name", "ID" DESC
//
// # Execution
//
// Driver is a thin helper over database/sql. It rebinds named placeholders
// to the driver's style with Bind, logs failures through log/slog and can
// collect QueryStats.
package sql
