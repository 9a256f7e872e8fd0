// Package config binds the indexer's directory layout and tunables to a
// single struct, loadable from flags, environment variables (WEBIDX_*), or
// a YAML file via viper.
package config

import (
	"strings"

	"github.com/pbnjay/memory"
	"github.com/spf13/viper"
)

// autoThresholdFraction is the share of total system RAM the builder will
// accumulate into one partial index before flushing, when ThresholdBytes
// is configured as 0 ("auto").
const autoThresholdFraction = 0.05

// defaultThresholdBytes mirrors the reference THRESHOLD_SIZE default (20MB)
// for callers that configure neither an explicit value nor auto mode.
const defaultThresholdBytes = 20_000_000

// IndexConfig is the indexer context object spec.md §9 asks for in place
// of the teacher's process-wide globals: every directory and tunable the
// pipeline needs, constructed once at job start.
type IndexConfig struct {
	CorpusRoot     string `mapstructure:"corpus_root"`
	PartialDir     string `mapstructure:"partial_dir"`
	ShardDir       string `mapstructure:"shard_dir"`
	FinalIndexPath string `mapstructure:"final_index_path"`
	DocIDPath      string `mapstructure:"doc_id_path"`

	// ThresholdBytes is the in-memory partial-index size, in bytes, above
	// which the builder flushes. 0 means "auto": derive it from a fraction
	// of total system memory instead of a fixed constant.
	ThresholdBytes int64 `mapstructure:"threshold_bytes"`

	DuplicateSimilarityThreshold float64 `mapstructure:"duplicate_similarity_threshold"`
	DuplicateMinTokens           int     `mapstructure:"duplicate_min_tokens"`
}

// ResolvedThresholdBytes returns ThresholdBytes, or — if it is 0 — an
// estimate derived from a fraction of the system's total RAM via
// github.com/pbnjay/memory. This is the "monotone overestimate" memory
// model spec.md §5 permits: the real partial index is never larger than
// this budget allows before a flush is triggered.
func (c IndexConfig) ResolvedThresholdBytes() int64 {
	if c.ThresholdBytes > 0 {
		return c.ThresholdBytes
	}
	total := memory.TotalMemory()
	if total == 0 {
		return defaultThresholdBytes
	}
	return int64(float64(total) * autoThresholdFraction)
}

// Defaults populates v with the package's default values before flags,
// env vars, or a config file are layered on top.
func Defaults(v *viper.Viper) {
	v.SetDefault("corpus_root", "corpus")
	v.SetDefault("partial_dir", "partial")
	v.SetDefault("shard_dir", "shards")
	v.SetDefault("final_index_path", "final.jsonl")
	v.SetDefault("doc_id_path", "docid.jsonl")
	v.SetDefault("threshold_bytes", defaultThresholdBytes)
	v.SetDefault("duplicate_similarity_threshold", 0.85)
	v.SetDefault("duplicate_min_tokens", 10)
}

// Load builds a viper instance bound to the WEBIDX_ env prefix and an
// optional config file, applies Defaults, and decodes into an IndexConfig.
func Load(configFile string) (IndexConfig, error) {
	v := viper.New()
	Defaults(v)

	v.SetEnvPrefix("WEBIDX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return IndexConfig{}, err
		}
	}

	var cfg IndexConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return IndexConfig{}, err
	}
	return cfg, nil
}
