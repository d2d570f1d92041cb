package tools

import (
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

// Tool names advertised to the model. Dispatch switches over this finite
// set, never open-ended reflection.
const (
	GetSchema = "get_schema"
	ReadData  = "read_data"
)

// GetSchemaSpec describes the schema-retrieval tool. It takes no
// parameters and returns the schema as text.
func GetSchemaSpec() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: shared.FunctionDefinitionParam{
			Name:        GetSchema,
			Description: openai.String("Get the database schema: every table with its columns in order."),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// ReadDataSpec describes the query-execution tool.
func ReadDataSpec() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: shared.FunctionDefinitionParam{
			Name:        ReadData,
			Description: openai.String("Execute a SQL query against the database and return the resulting rows."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "SQL query to execute",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

type readDataArgs struct {
	Query string `json:"query"`
}

// DecodeReadDataArgs parses the JSON argument blob of a read_data call.
// Invalid JSON or a missing query field surfaces as a parse error.
func DecodeReadDataArgs(raw string) (string, error) {
	var args readDataArgs
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return "", fmt.Errorf("failed to parse %s arguments: %w", ReadData, err)
	}
	if args.Query == "" {
		return "", fmt.Errorf("%s arguments missing required query field", ReadData)
	}
	return args.Query, nil
}
