package orchestrator

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/sqlpilot/sqlpilot/databases"
	"github.com/sqlpilot/sqlpilot/tools"
	"github.com/sqlpilot/sqlpilot/types"
)

const singlePassPrompt = `You translate natural language questions into SQL.
The database schema is:

%s
Answer the user's question by calling the %s tool with a single SQL query.`

// SinglePass embeds the full schema in the system instruction and offers
// the model only the query-execution tool, so one round-trip settles the
// question.
type SinglePass struct {
	llm Completer
	db  databases.Database
}

func NewSinglePass(llm Completer, db databases.Database) *SinglePass {
	return &SinglePass{llm: llm, db: db}
}

func (o *SinglePass) Run(ctx context.Context, question string) (*Outcome, error) {
	tables, err := o.db.Scan(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(fmt.Sprintf(singlePassPrompt, types.FormatSchema(tables), tools.ReadData)),
		openai.UserMessage(question),
	}

	msg, err := o.llm.Complete(ctx, messages, []openai.ChatCompletionToolParam{tools.ReadDataSpec()})
	if err != nil {
		return nil, err
	}

	call, ok := firstToolCall(msg)
	if !ok {
		return nil, ErrNoToolCall
	}
	if call.Function.Name != tools.ReadData {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedTool, call.Function.Name)
	}

	return executeReadData(ctx, o.db, call)
}
