package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlpilot/sqlpilot/types"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCases(t *testing.T) {
	path := writeCSV(t, "Question,Answer\n"+
		"How many orders were shipped to Brazil?,\"SELECT COUNT(*) FROM orders WHERE ship_country = 'Brazil'\"\n"+
		"List customer names,\"SELECT name, country FROM customers\"\n")

	cases, err := LoadCases(path)
	require.NoError(t, err)
	assert.Equal(t, []types.EvalCase{
		{Question: "How many orders were shipped to Brazil?", Answer: "SELECT COUNT(*) FROM orders WHERE ship_country = 'Brazil'"},
		{Question: "List customer names", Answer: "SELECT name, country FROM customers"},
	}, cases)
}

func TestLoadCasesExtraColumnsIgnored(t *testing.T) {
	path := writeCSV(t, "ID,Question,Answer\n1,Count orders,SELECT COUNT(*) FROM orders\n")

	cases, err := LoadCases(path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "Count orders", cases[0].Question)
	assert.Equal(t, "SELECT COUNT(*) FROM orders", cases[0].Answer)
}

func TestLoadCasesMissingColumns(t *testing.T) {
	path := writeCSV(t, "Prompt,SQL\nCount orders,SELECT COUNT(*) FROM orders\n")

	_, err := LoadCases(path)
	require.Error(t, err)
}

func TestLoadCasesMissingFile(t *testing.T) {
	_, err := LoadCases(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
