package lexical_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2can/api2can/internal/lexical"
)

const paramsTSV = "name\trequired\tis_auth_param\tlocation\ttype\tpattern\texample\tdesc\tcount\n" +
	"userId\ttrue\tfalse\tpath\tinteger\t\t42\tuser identifier\t3\n" +
	"userId\ttrue\tfalse\tpath\tinteger\t\t7\tuser identifier\t1\n" +
	"token\ttrue\ttrue\tquery\tstring\t\tabc\tauth token\t9\n" +
	"zip\tfalse\tfalse\tquery\tstring\t^\\d{5}$\t10115\tpostal code\t2\n" +
	"empty\tfalse\tfalse\tquery\tstring\t\tNone\tno example\t5\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParamTable(t *testing.T) {
	assert := assert.New(t)
	svc := lexical.NewService()

	params := writeFile(t, "parameters.tsv", paramsTSV)
	entities := writeFile(t, "entities.txt", "city\ncountry\n\n")

	table, err := lexical.LoadParamTable(svc, params, entities)
	require.NoError(t, err)

	// most frequent example first
	assert.Equal([]string{"42", "7"}, table.Examples("userId", "integer", 10))
	assert.Equal([]string{"42"}, table.Examples("user_id", "integer", 1))

	// auth rows and empty examples are skipped at load time
	assert.Empty(table.Examples("token", "string", 10))
	assert.Empty(table.Examples("empty", "string", 10))

	assert.Equal([]string{"10115"}, table.ExamplesByPattern(`^\d{5}$`, 10))

	assert.True(table.IsNamedEntity("cities"))
	assert.True(table.IsNamedEntity("homeCountry"))
	assert.False(table.IsNamedEntity("userId"))
}

func TestLoadParamTable_MissingColumn(t *testing.T) {
	svc := lexical.NewService()
	params := writeFile(t, "bad.tsv", "name\texample\nuserId\t42\n")

	_, err := lexical.LoadParamTable(svc, params, "")
	assert.ErrorContains(t, err, "count")
}

func TestNewParamTable_Empty(t *testing.T) {
	assert := assert.New(t)
	table := lexical.NewParamTable(lexical.NewService())

	assert.Empty(table.Examples("userId", "integer", 10))
	assert.False(table.IsNamedEntity("city"))
}
