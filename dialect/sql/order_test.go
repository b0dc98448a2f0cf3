package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relmap"
	"github.com/syssam/relmap/dialect"
)

func TestOrderCompiler(t *testing.T) {
	m := mustMapping[Product](t, nil)
	c := NewOrderCompiler(dialect.Postgres, m)

	ob, err := c.Translate(P("Name"), false)
	require.NoError(t, err)
	assert.Equal(t, `"name"`, ob)
	ob, err = c.ThenBy(ob, P("ID"), true)
	require.NoError(t, err)
	assert.Equal(t, `"name", "ID" DESC`, ob)
	ob, err = c.ThenBy(ob, &Member{Name: "Created"}, false)
	require.NoError(t, err)
	assert.Equal(t, `"name", "ID" DESC, "created_at"`, ob)

	ob, err = c.ThenBy("", P("Price"), true)
	require.NoError(t, err)
	assert.Equal(t, `"Price" DESC`, ob)

	ob, err = NewOrderCompiler(dialect.MySQL, m).Translate(P("Name"), true)
	require.NoError(t, err)
	assert.Equal(t, "`name` DESC", ob)
}

func TestOrderCompilerErrors(t *testing.T) {
	c := NewOrderCompiler(dialect.SQLServer, mustMapping[Product](t, nil))

	_, err := c.Translate(V(1), false)
	require.ErrorIs(t, err, relmap.ErrTranslation)
	assert.EqualError(t, err, "relmap: translation error on entity Product at constant: only entity properties can be ordered by")

	_, err = c.Translate(Gt(P("Price"), 1), false)
	require.ErrorIs(t, err, relmap.ErrTranslation)

	_, err = c.Translate(P("Weight"), false)
	assert.EqualError(t, err, "relmap: translation error on entity Product at member Weight: property is not mapped")

	ob, err := c.ThenBy("[ID]", P("Weight"), false)
	assert.Empty(t, ob)
	assert.True(t, relmap.IsTranslationError(err))
}
