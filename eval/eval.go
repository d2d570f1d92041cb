package eval

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/sqlpilot/sqlpilot/databases"
	"github.com/sqlpilot/sqlpilot/orchestrator"
	"github.com/sqlpilot/sqlpilot/types"
)

type Report struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Run scores an orchestrator against reference SQL. Each case executes the
// reference query for ground truth, runs the orchestrator on the case's
// question, and compares the two result grids. Any failure anywhere in a
// case downgrades it to a miss; the batch always finishes.
func Run(ctx context.Context, orch orchestrator.Orchestrator, db databases.Database, cases []types.EvalCase) Report {
	report := Report{Total: len(cases)}

	for _, c := range cases {
		groundTruth, err := db.Query(ctx, c.Answer)
		if err != nil {
			slog.Debug("reference query failed", "question", c.Question, "error", err)
			continue
		}

		outcome, err := orch.Run(ctx, c.Question)
		if err != nil {
			slog.Debug("orchestration failed", "question", c.Question, "error", err)
			continue
		}

		if ResultsEqual(groundTruth, outcome.Result) {
			report.Correct++
		}
	}

	return report
}

// ResultsEqual compares two results cell by cell, in order, ignoring the
// column header text. Drivers disagree on scalar representations, so cells
// are normalized before comparison.
func ResultsEqual(a, b *types.QueryResult) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Rows) != len(b.Rows) {
		return false
	}
	for i := range a.Rows {
		if len(a.Rows[i]) != len(b.Rows[i]) {
			return false
		}
		for j := range a.Rows[i] {
			if !reflect.DeepEqual(normalize(a.Rows[i][j]), normalize(b.Rows[i][j])) {
				return false
			}
		}
	}
	return true
}

func normalize(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
