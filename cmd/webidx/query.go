package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wizenheimer/webidx/internal/config"
	qeval "github.com/wizenheimer/webidx/internal/query"
)

var queryCmd = &cobra.Command{
	Use:   "query [terms...]",
	Short: "Run one query against a built index and print ranked results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	eval, err := qeval.NewEvaluator(cfg.ShardDir, cfg.DocIDPath)
	if err != nil {
		return fmt.Errorf("loading evaluator: %w", err)
	}
	defer eval.Close()

	results, err := eval.Search(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
