package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sqlpilot/sqlpilot/databases/rowset"
	"github.com/sqlpilot/sqlpilot/types"
)

// SQLiteConnector queries directly on the pool; the sqlite3 driver does
// not support read-only transactions, and this surface never issues
// writes of its own.
type SQLiteConnector struct {
	db *sqlx.DB
}

func NewSQLiteConnector(connectionString string) (*SQLiteConnector, error) {
	db, err := sqlx.Open("sqlite3", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	connector := &SQLiteConnector{
		db: db,
	}

	// Test the connection
	if err := connector.Ping(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return connector, nil
}

func (c *SQLiteConnector) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Scan lists user tables with their columns in declared order. It reads
// the live catalog on every call, nothing is cached.
func (c *SQLiteConnector) Scan(ctx context.Context, tableList []string) ([]types.Table, error) {
	names, err := c.listTables(ctx, tableList)
	if err != nil {
		return nil, err
	}

	var tables []types.Table
	for _, name := range names {
		columns, err := c.loadColumns(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load columns for table %s: %w", name, err)
		}
		tables = append(tables, types.Table{
			Name:    name,
			Columns: columns,
		})
	}

	return tables, nil
}

func (c *SQLiteConnector) ListTables(ctx context.Context) ([]string, error) {
	return c.listTables(ctx, nil)
}

// Query executes the SQL text verbatim, no sanitization.
func (c *SQLiteConnector) Query(ctx context.Context, sqlQuery string) (*types.QueryResult, error) {
	rows, err := c.db.QueryxContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to query db: %w", err)
	}
	defer rows.Close()

	return rowset.Collect(rows)
}

func (c *SQLiteConnector) Sample(ctx context.Context, table string, limit int) (*types.QueryResult, error) {
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, limit)
	return c.Query(ctx, query)
}

func (c *SQLiteConnector) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *SQLiteConnector) listTables(ctx context.Context, tableList []string) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type='table'
		AND name NOT LIKE 'sqlite_%'
	`
	var args []interface{}

	if len(tableList) > 0 {
		placeholders := make([]string, len(tableList))
		args = make([]interface{}, len(tableList))
		for i, table := range tableList {
			placeholders[i] = "?"
			args[i] = table
		}
		query += fmt.Sprintf(" AND name IN (%s)", strings.Join(placeholders, ","))
	}
	query += " ORDER BY name"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (c *SQLiteConnector) loadColumns(ctx context.Context, tableName string) ([]types.Column, error) {
	query := fmt.Sprintf("PRAGMA table_info('%s')", tableName)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []types.Column
	for rows.Next() {
		var cid int
		var name, dataType string
		var notNull int
		var defaultValue *string
		var pk int

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}

		columns = append(columns, types.Column{
			Name:     name,
			Type:     dataType,
			Nullable: notNull == 0,
		})
	}

	return columns, rows.Err()
}
