package pgtable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"composer/internal/config"
	"composer/internal/source"
)

func readTable(t *testing.T, content string) *source.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	table, err := source.ReadCSV(path, ',')
	require.NoError(t, err)
	return table
}

func TestGenerateColumnTypes(t *testing.T) {
	table := readTable(t,
		"id,big_id,score,active,joined,seen_at,name\n"+
			"1,3000000000,98.6,true,2021-06-15,2021-06-15 10:30:00,John\n"+
			"2,3000000001,72.1,false,2021-07-01,2021-07-01 09:00:00,Jane\n")

	stmt, err := Generate(table, config.Default())
	require.NoError(t, err)
	require.Len(t, stmt.Columns, len(table.Headers),
		"column count must equal header count")

	types := make(map[string]string)
	for _, c := range stmt.Columns {
		types[c.Name] = c.SQLType
	}
	assert.Equal(t, "INT", types["id"])
	assert.Equal(t, "BIGINT", types["big_id"])
	assert.Equal(t, "NUMERIC", types["score"])
	assert.Equal(t, "BOOLEAN", types["active"])
	assert.Equal(t, "DATE", types["joined"])
	assert.Equal(t, "TIMESTAMP", types["seen_at"])
	assert.Equal(t, "TEXT", types["name"])
}

func TestGenerateDemotion(t *testing.T) {
	t.Run("one bad value demotes integer column to TEXT", func(t *testing.T) {
		table := readTable(t, "code\n123\n12a3\n456\n")
		stmt, err := Generate(table, config.Default())
		require.NoError(t, err)
		assert.Equal(t, "TEXT", stmt.Columns[0].SQLType)
	})

	t.Run("mixed int and float elects NUMERIC", func(t *testing.T) {
		table := readTable(t, "amount\n1\n2.5\n")
		stmt, err := Generate(table, config.Default())
		require.NoError(t, err)
		assert.Equal(t, "NUMERIC", stmt.Columns[0].SQLType)
	})

	t.Run("empty cells do not demote", func(t *testing.T) {
		table := readTable(t, "n\n1\n\n3\n")
		stmt, err := Generate(table, config.Default())
		require.NoError(t, err)
		assert.Equal(t, "INT", stmt.Columns[0].SQLType)
	})

	t.Run("fully empty column is TEXT", func(t *testing.T) {
		table := readTable(t, "a,b\n1,\n2,\n")
		stmt, err := Generate(table, config.Default())
		require.NoError(t, err)
		assert.Equal(t, "TEXT", stmt.Columns[1].SQLType)
	})
}

func TestGenerateSensitiveColumn(t *testing.T) {
	table := readTable(t, "api_key\n12345\n67890\n")
	stmt, err := Generate(table, config.Default())
	require.NoError(t, err)
	assert.Equal(t, "TEXT", stmt.Columns[0].SQLType)
}

func TestSampleLimit(t *testing.T) {
	// Row 101 is non-numeric but outside the sample window, so it cannot
	// demote the column.
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < SampleLimit; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	b.WriteString("oops\n")

	stmt, err := Generate(readTable(t, b.String()), config.Default())
	require.NoError(t, err)
	assert.Equal(t, "INT", stmt.Columns[0].SQLType)
}

func TestRender(t *testing.T) {
	cfg := config.Default()
	cfg.Table.Name = "donors"
	table := readTable(t, "id,name\n1,John\n")

	stmt, err := Generate(table, cfg)
	require.NoError(t, err)

	sql := stmt.Render()
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS \"donors\" (\n"+
		"    \"id\" INT,\n"+
		"    \"name\" TEXT\n"+
		");\n", sql)
}
