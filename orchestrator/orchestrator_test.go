package orchestrator

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlpilot/sqlpilot/databases/sqlite"
	"github.com/sqlpilot/sqlpilot/tools"
)

// scripted plays back canned assistant messages, standing in for the
// model's decision making.
type scripted struct {
	responses []*openai.ChatCompletionMessage
	calls     int
	toolNames [][]string
}

func (s *scripted) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, specs []openai.ChatCompletionToolParam) (*openai.ChatCompletionMessage, error) {
	var names []string
	for _, spec := range specs {
		names = append(names, spec.Function.Name)
	}
	s.toolNames = append(s.toolNames, names)

	if s.calls >= len(s.responses) {
		return nil, fmt.Errorf("unexpected model call %d", s.calls+1)
	}
	msg := s.responses[s.calls]
	s.calls++
	return msg, nil
}

func toolCallMsg(name, args string) *openai.ChatCompletionMessage {
	return &openai.ChatCompletionMessage{
		ToolCalls: []openai.ChatCompletionMessageToolCall{
			{
				ID: "call_1",
				Function: openai.ChatCompletionMessageToolCallFunction{
					Name:      name,
					Arguments: args,
				},
			},
		},
	}
}

func textMsg(content string) *openai.ChatCompletionMessage {
	return &openai.ChatCompletionMessage{Content: content}
}

func newTestDB(t *testing.T) *sqlite.SQLiteConnector {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	statements := []string{
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, customer_id INTEGER NOT NULL, ship_country TEXT)`,
		`INSERT INTO orders (id, customer_id, ship_country) VALUES
			(1, 2, 'Brazil'), (2, 1, 'Germany'), (3, 2, 'Brazil'), (4, 2, 'Brazil'), (5, 1, 'Mexico')`,
	}
	for _, stmt := range statements {
		_, err := raw.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, raw.Close())

	db, err := sqlite.NewSQLiteConnector(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const brazilSQL = `SELECT COUNT(*) FROM orders WHERE ship_country = 'Brazil'`

func TestSinglePassExecutesRequestedQuery(t *testing.T) {
	db := newTestDB(t)
	llm := &scripted{responses: []*openai.ChatCompletionMessage{
		toolCallMsg(tools.ReadData, fmt.Sprintf(`{"query": %q}`, brazilSQL)),
	}}

	outcome, err := NewSinglePass(llm, db).Run(context.Background(), "How many orders were shipped to Brazil?")
	require.NoError(t, err)
	assert.Equal(t, brazilSQL, outcome.SQL)
	require.Len(t, outcome.Result.Rows, 1)
	assert.Equal(t, []any{int64(3)}, outcome.Result.Rows[0])

	// Single pass advertises only the query tool.
	require.Len(t, llm.toolNames, 1)
	assert.Equal(t, []string{tools.ReadData}, llm.toolNames[0])
}

func TestSinglePassFailsWithoutToolCall(t *testing.T) {
	db := newTestDB(t)
	llm := &scripted{responses: []*openai.ChatCompletionMessage{
		textMsg("I would need to see the data first."),
	}}

	_, err := NewSinglePass(llm, db).Run(context.Background(), "How many orders were shipped to Brazil?")
	require.ErrorIs(t, err, ErrNoToolCall)
}

func TestSinglePassRejectsUnexpectedTool(t *testing.T) {
	db := newTestDB(t)
	llm := &scripted{responses: []*openai.ChatCompletionMessage{
		toolCallMsg(tools.GetSchema, `{}`),
	}}

	_, err := NewSinglePass(llm, db).Run(context.Background(), "How many orders were shipped to Brazil?")
	require.ErrorIs(t, err, ErrUnexpectedTool)
}

func TestSinglePassPropagatesMalformedArguments(t *testing.T) {
	db := newTestDB(t)
	llm := &scripted{responses: []*openai.ChatCompletionMessage{
		toolCallMsg(tools.ReadData, `{"query": `),
	}}

	_, err := NewSinglePass(llm, db).Run(context.Background(), "How many orders were shipped to Brazil?")
	require.Error(t, err)
}

func TestSinglePassPropagatesQueryError(t *testing.T) {
	db := newTestDB(t)
	llm := &scripted{responses: []*openai.ChatCompletionMessage{
		toolCallMsg(tools.ReadData, `{"query": "SELECT * FROM no_such_table"}`),
	}}

	_, err := NewSinglePass(llm, db).Run(context.Background(), "How many orders were shipped to Brazil?")
	require.Error(t, err)
}

func TestTwoPassSchemaThenQuery(t *testing.T) {
	db := newTestDB(t)
	llm := &scripted{responses: []*openai.ChatCompletionMessage{
		toolCallMsg(tools.GetSchema, `{}`),
		toolCallMsg(tools.ReadData, fmt.Sprintf(`{"query": %q}`, brazilSQL)),
	}}

	outcome, err := NewTwoPass(llm, db).Run(context.Background(), "How many orders were shipped to Brazil?")
	require.NoError(t, err)
	assert.Equal(t, 2, llm.calls)
	assert.Equal(t, []any{int64(3)}, outcome.Result.Rows[0])

	// Both tools stay on offer for both round-trips.
	require.Len(t, llm.toolNames, 2)
	assert.Equal(t, []string{tools.GetSchema, tools.ReadData}, llm.toolNames[0])
	assert.Equal(t, []string{tools.GetSchema, tools.ReadData}, llm.toolNames[1])
}

func TestTwoPassEarlyTerminalSkipsSecondCall(t *testing.T) {
	db := newTestDB(t)
	llm := &scripted{responses: []*openai.ChatCompletionMessage{
		toolCallMsg(tools.ReadData, fmt.Sprintf(`{"query": %q}`, brazilSQL)),
	}}

	outcome, err := NewTwoPass(llm, db).Run(context.Background(), "How many orders were shipped to Brazil?")
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, brazilSQL, outcome.SQL)
	assert.Equal(t, []any{int64(3)}, outcome.Result.Rows[0])
}

func TestTwoPassRejectsUnknownFirstTool(t *testing.T) {
	db := newTestDB(t)
	llm := &scripted{responses: []*openai.ChatCompletionMessage{
		toolCallMsg("drop_everything", `{}`),
	}}

	_, err := NewTwoPass(llm, db).Run(context.Background(), "How many orders were shipped to Brazil?")
	require.ErrorIs(t, err, ErrUnexpectedTool)
}

func TestTwoPassSecondCallMustRequestQuery(t *testing.T) {
	db := newTestDB(t)
	llm := &scripted{responses: []*openai.ChatCompletionMessage{
		toolCallMsg(tools.GetSchema, `{}`),
		toolCallMsg(tools.GetSchema, `{}`),
	}}

	_, err := NewTwoPass(llm, db).Run(context.Background(), "How many orders were shipped to Brazil?")
	require.ErrorIs(t, err, ErrUnexpectedTool)
}

func TestTwoPassFailsWhenSecondResponseHasNoToolCall(t *testing.T) {
	db := newTestDB(t)
	llm := &scripted{responses: []*openai.ChatCompletionMessage{
		toolCallMsg(tools.GetSchema, `{}`),
		textMsg("Here is the schema you asked for."),
	}}

	_, err := NewTwoPass(llm, db).Run(context.Background(), "How many orders were shipped to Brazil?")
	require.ErrorIs(t, err, ErrNoToolCall)
}
