// Command webidx builds and serves the static inverted-index search
// engine described by the indexing pipeline (packages index/shard/query):
// "webidx build" ingests a corpus, "webidx query" runs one query from the
// command line, and "webidx serve" exposes the query evaluator over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logFormat string
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "webidx",
	Short: "webidx — a static, disk-resident inverted-index search engine",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(logFormat)
		slog.SetDefault(logger)
	},
}

// Execute is the CLI entrypoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format: text or json")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger mirrors the teacher convention of gating handler format behind
// a flag rather than hardcoding it: JSON for production, text for local runs.
func newLogger(format string) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
