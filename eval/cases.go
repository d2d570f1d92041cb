package eval

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sqlpilot/sqlpilot/types"
)

// LoadCases reads evaluation cases from a CSV file with a header row
// containing Question and Answer columns. Answer holds the reference SQL.
func LoadCases(path string) ([]types.EvalCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cases file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse cases file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("cases file %s is empty", path)
	}

	questionIdx, answerIdx := -1, -1
	for i, name := range records[0] {
		switch name {
		case "Question":
			questionIdx = i
		case "Answer":
			answerIdx = i
		}
	}
	if questionIdx < 0 || answerIdx < 0 {
		return nil, fmt.Errorf("cases file %s missing Question or Answer column", path)
	}

	var cases []types.EvalCase
	for _, record := range records[1:] {
		cases = append(cases, types.EvalCase{
			Question: record[questionIdx],
			Answer:   record[answerIdx],
		})
	}

	return cases, nil
}
