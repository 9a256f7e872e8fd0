package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wizenheimer/webidx/internal/config"
	"github.com/wizenheimer/webidx/internal/corpus"
	"github.com/wizenheimer/webidx/internal/index"
	"github.com/wizenheimer/webidx/internal/shard"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Ingest a corpus directory into a sharded, scored index",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("corpus", "", "corpus root directory (overrides config)")
	buildCmd.Flags().String("out", "", "output directory for partial/shard/final index files (overrides config)")
	buildCmd.Flags().Int64("threshold-bytes", 0, "partial index flush threshold in bytes, 0 = auto from system memory")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if v, _ := cmd.Flags().GetString("corpus"); v != "" {
		cfg.CorpusRoot = v
	}
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		cfg.PartialDir = v + "/partial"
		cfg.ShardDir = v + "/shards"
		cfg.FinalIndexPath = v + "/final.jsonl"
		cfg.DocIDPath = v + "/docid.jsonl"
	}
	if cmd.Flags().Changed("threshold-bytes") {
		v, _ := cmd.Flags().GetInt64("threshold-bytes")
		cfg.ThresholdBytes = v
	}

	for _, dir := range []string{cfg.PartialDir, cfg.ShardDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	b := index.NewBuilder(cfg, logger)

	logger.Info("starting build", "corpus_root", cfg.CorpusRoot)
	if err := corpus.Walk(cfg.CorpusRoot, b.Process); err != nil {
		return fmt.Errorf("walking corpus: %w", err)
	}

	if err := b.Finalize(); err != nil {
		return fmt.Errorf("finalizing index: %w", err)
	}
	logger.Info("finalized index", "documents", b.DocCount())

	if err := shard.Split(cfg.FinalIndexPath, cfg.ShardDir, b.DocCount()); err != nil {
		return fmt.Errorf("sharding index: %w", err)
	}
	logger.Info("sharded index", "shard_dir", cfg.ShardDir)

	return nil
}
