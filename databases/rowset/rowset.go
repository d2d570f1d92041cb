package rowset

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sqlpilot/sqlpilot/types"
)

// Collect drains rows into a QueryResult, keeping the column order the
// database reported and the row order it returned.
func Collect(rows *sqlx.Rows) (*types.QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read column names: %w", err)
	}

	result := &types.QueryResult{Columns: columns}
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("unable to scan row: %w", err)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return result, nil
}
