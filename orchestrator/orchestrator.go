package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/sqlpilot/sqlpilot/databases"
	"github.com/sqlpilot/sqlpilot/tools"
	"github.com/sqlpilot/sqlpilot/types"
)

// Completer is the model boundary: conversation and tool list in, one
// assistant message out. The model decides which tool to call; the
// orchestrators only handle whatever comes back.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, tools []openai.ChatCompletionToolParam) (*openai.ChatCompletionMessage, error)
}

// Outcome pairs the SQL the model produced with its execution result.
type Outcome struct {
	SQL    string             `json:"sql"`
	Result *types.QueryResult `json:"result"`
}

// Orchestrator drives the model calls and tool invocations for one
// question. A run either completes or fails, there are no retries.
type Orchestrator interface {
	Run(ctx context.Context, question string) (*Outcome, error)
}

var (
	ErrNoToolCall     = errors.New("model response contained no tool call")
	ErrUnexpectedTool = errors.New("model requested an unexpected tool")
)

// firstToolCall returns the first tool-invocation request in the message.
// Additional requests are ignored.
func firstToolCall(msg *openai.ChatCompletionMessage) (openai.ChatCompletionMessageToolCall, bool) {
	if len(msg.ToolCalls) == 0 {
		return openai.ChatCompletionMessageToolCall{}, false
	}
	return msg.ToolCalls[0], true
}

// executeReadData parses a read_data invocation and runs its SQL verbatim.
func executeReadData(ctx context.Context, db databases.Database, call openai.ChatCompletionMessageToolCall) (*Outcome, error) {
	sqlText, err := tools.DecodeReadDataArgs(call.Function.Arguments)
	if err != nil {
		return nil, err
	}

	result, err := db.Query(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	return &Outcome{SQL: sqlText, Result: result}, nil
}
