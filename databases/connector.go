package databases

import (
	"context"
	"fmt"

	"github.com/sqlpilot/sqlpilot/databases/mysql"
	"github.com/sqlpilot/sqlpilot/databases/postgres"
	"github.com/sqlpilot/sqlpilot/databases/sqlite"
	"github.com/sqlpilot/sqlpilot/types"
)

// Database is the read-only surface the orchestrators and tool handlers
// work against. Scan reflects the live database on every call; Query runs
// model-authored SQL verbatim.
type Database interface {
	Ping(ctx context.Context) error
	Scan(ctx context.Context, tableList []string) ([]types.Table, error)
	ListTables(ctx context.Context) ([]string, error)
	Query(ctx context.Context, sql string) (*types.QueryResult, error)
	Sample(ctx context.Context, table string, limit int) (*types.QueryResult, error)
	Close() error
}

func NewConnector(dbType, connectionString string) (Database, error) {
	switch dbType {
	case "sqlite":
		return sqlite.NewSQLiteConnector(connectionString)
	case "mysql":
		return mysql.NewMySQLConnector(connectionString)
	case "postgres":
		return postgres.NewPostgresConnector(connectionString)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}
