package sql

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relmap/dialect"
)

func TestBind(t *testing.T) {
	params := NewParams().Add("x", 1).Add("y", "two")
	tests := []struct {
		name    string
		dialect dialect.Dialect
		query   string
		want    string
		args    []any
	}{
		{
			name:    "Dollar",
			dialect: dialect.Postgres,
			query:   `SELECT * FROM "t" WHERE "a" = @x OR "b" = @x AND "c" = @y`,
			want:    `SELECT * FROM "t" WHERE "a" = $1 OR "b" = $1 AND "c" = $2`,
			args:    []any{1, "two"},
		},
		{
			name:    "DollarOrderOfAppearance",
			dialect: dialect.Postgres,
			query:   `@y, @x`,
			want:    `$1, $2`,
			args:    []any{"two", 1},
		},
		{
			name:    "Question",
			dialect: dialect.MySQL,
			query:   "SELECT * FROM `t` WHERE `a` = @x OR `b` = @x AND `c` = @y",
			want:    "SELECT * FROM `t` WHERE `a` = ? OR `b` = ? AND `c` = ?",
			args:    []any{1, 1, "two"},
		},
		{
			name:    "QuestionSQLite",
			dialect: dialect.SQLite,
			query:   `UPDATE "t" SET "y" = @y WHERE "x" = @x`,
			want:    `UPDATE "t" SET "y" = ? WHERE "x" = ?`,
			args:    []any{"two", 1},
		},
		{
			name:    "Named",
			dialect: dialect.SQLServer,
			query:   `SELECT * FROM [t] WHERE [a] = @x OR [b] = @x AND [c] = @y`,
			want:    `SELECT * FROM [t] WHERE [a] = @x OR [b] = @x AND [c] = @y`,
			args:    []any{sql.Named("x", 1), sql.Named("y", "two")},
		},
		{
			name:    "NamedOracle",
			dialect: dialect.Oracle,
			query:   `SELECT * FROM "t" WHERE "a" = :y`,
			want:    `SELECT * FROM "t" WHERE "a" = :y`,
			args:    []any{sql.Named("y", "two")},
		},
		{
			name:    "QuotedSections",
			dialect: dialect.Postgres,
			query:   `SELECT '@x', "@x", 'it''s @y', @x`,
			want:    `SELECT '@x', "@x", 'it''s @y', $1`,
			args:    []any{1},
		},
		{
			name:    "BacktickIdentifier",
			dialect: dialect.MySQL,
			query:   "SELECT `@x` FROM `t` WHERE `a` = @x",
			want:    "SELECT `@x` FROM `t` WHERE `a` = ?",
			args:    []any{1},
		},
		{
			name:    "BracketIdentifier",
			dialect: dialect.SQLServer,
			query:   `SELECT [@y]]] FROM [t] WHERE [a] = @x`,
			want:    `SELECT [@y]]] FROM [t] WHERE [a] = @x`,
			args:    []any{sql.Named("x", 1)},
		},
		{
			name:    "UnknownPlaceholders",
			dialect: dialect.Postgres,
			query:   `SELECT @@version, @z, @x1, @x`,
			want:    `SELECT @@version, @z, @x1, $1`,
			args:    []any{1},
		},
		{
			name:    "Unterminated",
			dialect: dialect.Postgres,
			query:   `@x '@y`,
			want:    `$1 '@y`,
			args:    []any{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := Bind(tt.dialect, tt.query, params)
			assert.Equal(t, tt.want, q)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBindUnicodeNames(t *testing.T) {
	params := NewParams().Add("Größe", 3).Add("id", 1).Add("名前", "x")
	tests := []struct {
		name    string
		dialect dialect.Dialect
		query   string
		want    string
		args    []any
	}{
		{
			name:    "Question",
			dialect: dialect.SQLite,
			query:   `UPDATE "t" SET "Größe" = @Größe WHERE "id" = @id`,
			want:    `UPDATE "t" SET "Größe" = ? WHERE "id" = ?`,
			args:    []any{3, 1},
		},
		{
			name:    "Dollar",
			dialect: dialect.Postgres,
			query:   `SELECT * FROM "t" WHERE "名前" = @名前 OR "Größe" = @Größe`,
			want:    `SELECT * FROM "t" WHERE "名前" = $1 OR "Größe" = $2`,
			args:    []any{"x", 3},
		},
		{
			name:    "Named",
			dialect: dialect.SQLServer,
			query:   `SELECT * FROM [t] WHERE [Größe] = @Größe`,
			want:    `SELECT * FROM [t] WHERE [Größe] = @Größe`,
			args:    []any{sql.Named("Größe", 3)},
		},
		{
			name:    "LongerName",
			dialect: dialect.Postgres,
			query:   `SELECT @Größe2, @Größe`,
			want:    `SELECT @Größe2, $1`,
			args:    []any{3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := Bind(tt.dialect, tt.query, params)
			assert.Equal(t, tt.want, q)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBindEmpty(t *testing.T) {
	q, args := Bind(dialect.Postgres, `SELECT @x`, nil)
	assert.Equal(t, `SELECT @x`, q)
	assert.Nil(t, args)
	q, args = Bind(dialect.MySQL, `SELECT @x`, NewParams())
	assert.Equal(t, `SELECT @x`, q)
	assert.Nil(t, args)
}

func TestBindStatements(t *testing.T) {
	m := mustMapping[OrderLine](t, nil)
	s, err := NewStatements(dialect.Postgres, m)
	require.NoError(t, err)
	q, err := s.Update()
	require.NoError(t, err)
	params, err := s.UpdateValues(&OrderLine{OrderID: 7, Line: 2, Qty: 5})
	require.NoError(t, err)
	q, args := Bind(dialect.Postgres, q, params)
	assert.Equal(t, `UPDATE "OrderLine" SET "Qty" = $1 WHERE "OrderID" = $2 AND "Line" = $3`, q)
	assert.Equal(t, []any{5, int64(7), 2}, args)
}

func TestParams(t *testing.T) {
	var nilParams *Params
	assert.Zero(t, nilParams.Len())
	assert.Nil(t, nilParams.Names())
	assert.Nil(t, nilParams.Args())
	_, ok := nilParams.Get("x")
	assert.False(t, ok)

	p := NewParams().Add("b", 1).Add("a", 2).Add("b", 3)
	assert.Equal(t, []string{"b", "a"}, p.Names())
	v, ok := p.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, []any{sql.Named("b", 3), sql.Named("a", 2)}, p.Args())

	names := p.Names()
	names[0] = "z"
	assert.Equal(t, []string{"b", "a"}, p.Names(), "Names returns a copy")

	p.Merge(NewParams().Add("c", 4).Add("a", 5))
	assert.Equal(t, []string{"b", "a", "c"}, p.Names())
	v, _ = p.Get("a")
	assert.Equal(t, 5, v)
}
