package mcp

import (
	goMCP "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sqlpilot/sqlpilot/databases"
	"github.com/sqlpilot/sqlpilot/handlers"
	"github.com/sqlpilot/sqlpilot/tools"
)

// RegisterTools mounts the same tools the orchestrators advertise over
// chat completions, plus a sample tool, on an MCP stdio server.
func RegisterTools(s *server.MCPServer, db databases.Database) {
	schemaTool := goMCP.NewTool(tools.GetSchema,
		goMCP.WithDescription("Get the database schema: every table with its columns in order"),
	)

	queryTool := goMCP.NewTool(tools.ReadData,
		goMCP.WithDescription("Execute a SQL query against the database and return the resulting rows"),
		goMCP.WithString("query",
			goMCP.Required(),
			goMCP.Description("SQL query to execute"),
		),
	)

	sampleTool := goMCP.NewTool("sample_table",
		goMCP.WithDescription("Get sample data from a specific table"),
		goMCP.WithString("table",
			goMCP.Required(),
			goMCP.Description("Name of the table to sample"),
		),
		goMCP.WithNumber("limit",
			goMCP.Description("Number of rows to return (default: 10)"),
		),
	)

	s.AddTool(schemaTool, handlers.SchemaHandler(db))
	s.AddTool(queryTool, handlers.QueryHandler(db))
	s.AddTool(sampleTool, handlers.SampleHandler(db))
}
