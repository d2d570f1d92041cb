package types

import (
	"fmt"
	"strings"
)

type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// QueryResult holds rows in the order the database returned them, with
// cells aligned to the Columns header.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type EvalCase struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FormatSchema renders tables as plain text for prompts and tool results.
// Column order follows the declared ordinal position.
func FormatSchema(tables []Table) string {
	var b strings.Builder
	for _, table := range tables {
		fmt.Fprintf(&b, "table %s:\n", table.Name)
		for _, col := range table.Columns {
			fmt.Fprintf(&b, "  %s %s", col.Name, col.Type)
			if col.Nullable {
				b.WriteString(" nullable")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
