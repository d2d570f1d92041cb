package orchestrator

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/sqlpilot/sqlpilot/databases"
	"github.com/sqlpilot/sqlpilot/tools"
	"github.com/sqlpilot/sqlpilot/types"
)

const twoPassPrompt = `You translate natural language questions into SQL.
You do not know the database schema yet. If the question needs data from
the database, first call the %s tool to see the tables and columns,
then call the %s tool with a single SQL query that answers the question.`

// TwoPass withholds the schema from the initial instruction and lets the
// model request it. A model that asks for data straight away skips the
// schema round-trip entirely; that early exit is the point of the design.
type TwoPass struct {
	llm Completer
	db  databases.Database
}

func NewTwoPass(llm Completer, db databases.Database) *TwoPass {
	return &TwoPass{llm: llm, db: db}
}

func (o *TwoPass) Run(ctx context.Context, question string) (*Outcome, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(fmt.Sprintf(twoPassPrompt, tools.GetSchema, tools.ReadData)),
		openai.UserMessage(question),
	}
	toolSpecs := []openai.ChatCompletionToolParam{
		tools.GetSchemaSpec(),
		tools.ReadDataSpec(),
	}

	msg, err := o.llm.Complete(ctx, messages, toolSpecs)
	if err != nil {
		return nil, err
	}

	call, ok := firstToolCall(msg)
	if !ok {
		return nil, ErrNoToolCall
	}

	switch call.Function.Name {
	case tools.ReadData:
		// Early terminal path: the model skipped the schema step.
		return executeReadData(ctx, o.db, call)
	case tools.GetSchema:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedTool, call.Function.Name)
	}

	tables, err := o.db.Scan(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	messages = append(messages,
		msg.ToParam(),
		openai.ToolMessage(types.FormatSchema(tables), call.ID),
	)

	msg, err = o.llm.Complete(ctx, messages, toolSpecs)
	if err != nil {
		return nil, err
	}

	call, ok = firstToolCall(msg)
	if !ok {
		return nil, ErrNoToolCall
	}
	if call.Function.Name != tools.ReadData {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedTool, call.Function.Name)
	}

	return executeReadData(ctx, o.db, call)
}
