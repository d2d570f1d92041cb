package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/sqlpilot/sqlpilot/config"
	"github.com/sqlpilot/sqlpilot/databases"
	"github.com/sqlpilot/sqlpilot/eval"
	"github.com/sqlpilot/sqlpilot/llm"
	"github.com/sqlpilot/sqlpilot/mcp"
	"github.com/sqlpilot/sqlpilot/orchestrator"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mode := flag.String("mode", "ask", "ask, eval, or mcp")
	question := flag.String("question", "", "natural language question (ask mode)")
	strategy := flag.String("strategy", "single", "single or two (ask mode)")
	casesPath := flag.String("cases", "cases.csv", "path to evaluation CSV (eval mode)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	connStr, err := cfg.Database.GetConnectionString()
	if err != nil {
		slog.Error("connection string error", "error", err)
		os.Exit(1)
	}

	db, err := databases.NewConnector(cfg.Database.DBType, connStr)
	if err != nil {
		slog.Error("failed to create connector", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	switch *mode {
	case "ask":
		if err := runAsk(ctx, cfg, db, *strategy, *question); err != nil {
			slog.Error("ask failed", "error", err)
			os.Exit(1)
		}
	case "eval":
		if err := runEval(ctx, cfg, db, *casesPath); err != nil {
			slog.Error("eval failed", "error", err)
			os.Exit(1)
		}
	case "mcp":
		s := server.NewMCPServer(
			"sqlpilot",
			"0.0.1",
			server.WithToolCapabilities(false),
			server.WithLogging(),
		)
		mcp.RegisterTools(s, db)
		if err := server.ServeStdio(s); err != nil {
			fmt.Printf("Server error: %v\n", err)
		}
	default:
		slog.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}
}

func newOrchestrator(cfg *config.Config, db databases.Database, strategy string) (orchestrator.Orchestrator, error) {
	client, err := llm.NewClient(llm.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
	})
	if err != nil {
		return nil, err
	}

	switch strategy {
	case "single":
		return orchestrator.NewSinglePass(client, db), nil
	case "two":
		return orchestrator.NewTwoPass(client, db), nil
	default:
		return nil, fmt.Errorf("unknown strategy: %s", strategy)
	}
}

func runAsk(ctx context.Context, cfg *config.Config, db databases.Database, strategy, question string) error {
	if question == "" {
		return fmt.Errorf("question is required in ask mode")
	}

	orch, err := newOrchestrator(cfg, db, strategy)
	if err != nil {
		return err
	}

	outcome, err := orch.Run(ctx, question)
	if err != nil {
		return err
	}

	fmt.Printf("SQL: %s\n", outcome.SQL)
	jsonData, err := json.MarshalIndent(outcome.Result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

func runEval(ctx context.Context, cfg *config.Config, db databases.Database, casesPath string) error {
	cases, err := eval.LoadCases(casesPath)
	if err != nil {
		return err
	}

	for _, strategy := range []string{"single", "two"} {
		orch, err := newOrchestrator(cfg, db, strategy)
		if err != nil {
			return err
		}

		report := eval.Run(ctx, orch, db, cases)
		fmt.Printf("%s: %d/%d correct\n", strategy, report.Correct, report.Total)
	}
	return nil
}
