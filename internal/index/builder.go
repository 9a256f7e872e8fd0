// Package index: Builder implements the Index Builder (C4) — the part of
// the pipeline that walks accepted documents into an in-memory partial
// index, flushes it to disk under memory pressure, and merges every
// partial into one sorted final index.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHY AN EXPLICIT CONTEXT OBJECT
// ═══════════════════════════════════════════════════════════════════════════════
// spec.md §9 calls out the source's process-wide DOC_ID_COUNT and output
// directory globals for replacement: Builder is the "indexer context
// object" it asks for, constructed once at job start and carrying the
// directory layout and tunables as config.IndexConfig rather than package
// state.
// ═══════════════════════════════════════════════════════════════════════════════
package index

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/wizenheimer/webidx/internal/analyze"
	"github.com/wizenheimer/webidx/internal/config"
	"github.com/wizenheimer/webidx/internal/corpus"
	"github.com/wizenheimer/webidx/internal/dedup"
	"github.com/wizenheimer/webidx/internal/fields"
	"github.com/wizenheimer/webidx/internal/htmlparse"
)

// estimatedPostingOverhead is a rough, intentionally conservative per-
// posting byte cost (docid + tf + a small field set, plus map/slice
// bookkeeping) used to build a monotone overestimate of the partial
// index's live size. spec.md §5 only requires the estimate be a monotone
// overestimate, not exact.
const estimatedPostingOverhead = 64

// Builder accumulates an in-memory partial index, flushing to disk when
// the estimated size crosses the configured threshold, and merges all
// flushed partials into a final sorted index at Finalize.
type Builder struct {
	cfg    config.IndexConfig
	logger *slog.Logger

	docs *DocMap

	partial       partialIndex
	estimateBytes int64

	partialPaths []string
	flushCount   int

	dup *dedup.Filter
}

// NewBuilder constructs a Builder over cfg. logger may be nil, in which
// case slog.Default() is used.
func NewBuilder(cfg config.IndexConfig, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		cfg:     cfg,
		logger:  logger,
		docs:    NewDocMap(),
		partial: make(partialIndex),
		dup:     dedup.NewFilter(cfg.DuplicateSimilarityThreshold, cfg.DuplicateMinTokens),
	}
}

// Process reads one corpus file, and — unless it fails to parse or is
// classified as a near-duplicate — assigns it a docid and folds its
// postings into the current partial index. Both failure modes are
// logged and skipped, never fatal to the run (spec.md §7).
func (b *Builder) Process(path string) error {
	page, err := corpus.ReadPage(path)
	if err != nil {
		b.logger.Warn("skipping unreadable corpus file", "path", path, "error", err)
		return nil
	}

	doc, err := htmlparse.Parse(page.Content)
	if err != nil {
		b.logger.Warn("skipping unparseable document", "url", page.URL, "error", err)
		return nil
	}

	tokens := analyze.Index(doc.Plaintext)
	if b.dup.IsDuplicate(tokens) {
		b.logger.Info("skipping near-duplicate document", "url", page.URL)
		return nil
	}

	url := corpus.Defragment(page.URL)
	docid := b.docs.Assign(url)

	tf := termFrequencies(tokens)
	termFields := fields.Extract(doc)

	for term, freq := range tf {
		posting := Posting{
			DocID:  docid,
			TF:     freq,
			Fields: fields.FieldsFor(termFields, term),
		}
		b.partial[term] = append(b.partial[term], posting)
		b.estimateBytes += int64(len(term)) + estimatedPostingOverhead
	}

	return b.MaybeFlush()
}

// MaybeFlush flushes the current partial index to disk if its estimated
// in-memory size exceeds the configured threshold.
func (b *Builder) MaybeFlush() error {
	if b.estimateBytes <= b.cfg.ResolvedThresholdBytes() {
		return nil
	}
	return b.flush()
}

func (b *Builder) flush() error {
	if len(b.partial) == 0 {
		return nil
	}

	path := filepath.Join(b.cfg.PartialDir, fmt.Sprintf("%d.jsonl", b.flushCount))
	if err := b.partial.flushTo(path); err != nil {
		return err
	}
	b.logger.Info("flushed partial index", "path", path, "terms", len(b.partial), "estimated_bytes", b.estimateBytes)

	b.partialPaths = append(b.partialPaths, path)
	b.flushCount++
	b.partial = make(partialIndex)
	b.estimateBytes = 0
	b.dup.Reset()
	return nil
}

// Finalize flushes any residual partial index, merges every partial into
// the configured final index path, and persists the docid -> url mapping.
func (b *Builder) Finalize() error {
	if err := b.flush(); err != nil {
		return err
	}

	if err := mergePartials(b.partialPaths, b.cfg.FinalIndexPath); err != nil {
		return err
	}
	b.logger.Info("merged partial indexes", "count", len(b.partialPaths), "final_index", b.cfg.FinalIndexPath)

	if err := b.docs.WriteTo(b.cfg.DocIDPath); err != nil {
		return fmt.Errorf("%w: writing doc-id map: %v", ErrPartialIOFailure, err)
	}
	b.logger.Info("wrote doc-id map", "path", b.cfg.DocIDPath, "documents", b.docs.Len())

	return nil
}

// DocCount returns the number of documents accepted so far.
func (b *Builder) DocCount() int {
	return b.docs.Len()
}

func termFrequencies(tokens []string) map[string]int {
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}
	return freq
}
