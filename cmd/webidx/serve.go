package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wizenheimer/webidx/internal/config"
	"github.com/wizenheimer/webidx/internal/httpapi"
	qeval "github.com/wizenheimer/webidx/internal/query"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search endpoint over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	eval, err := qeval.NewEvaluator(cfg.ShardDir, cfg.DocIDPath)
	if err != nil {
		return fmt.Errorf("loading evaluator: %w", err)
	}
	defer eval.Close()

	addr, _ := cmd.Flags().GetString("addr")
	srv := httpapi.New(eval, logger)
	return srv.ListenAndServe(addr)
}
