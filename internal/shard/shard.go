// Package shard implements the Shard & Score stage (C5): splitting the
// merged final index into per-leading-character bucket files and
// annotating every posting with a field-boosted tf-idf score.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHY STREAMING, NOT A MAP OF BUCKETS
// ═══════════════════════════════════════════════════════════════════════════════
// Every term is lowercase [a-z0-9]+ by construction (package analyze), so
// ASCII ordering puts every digit-led term ('0'-'9' < 'a') before every
// letter-led term, and letter-led terms sort a..z. That means the final
// index's term-ascending order already groups same-bucket records into one
// contiguous run: "other" first, then a.jsonl..z.jsonl in turn. Accumulating
// into a single "current bucket" buffer and flushing it exactly when the
// key changes preserves per-shard lexicographic order in one streaming
// pass, with memory bounded by one bucket's worth of records rather than
// the whole index (spec.md §4.5).
// ═══════════════════════════════════════════════════════════════════════════════
package shard

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/wizenheimer/webidx/internal/fields"
	"github.com/wizenheimer/webidx/internal/index"
	"github.com/wizenheimer/webidx/internal/jsonl"
)

const (
	titleBoost  = 2.0
	headerBoost = 1.5
	strongBoost = 1.3
)

// Score computes the field-boosted tf-idf for one posting, given the
// term's document frequency df (= number of postings for that term after
// merge) and the total document count n.
func Score(tf int, df int, n int, fs fields.Set) float64 {
	tfPrime := 1 + math.Log(float64(tf))
	idf := math.Log(float64(n) / float64(1+df))

	boost := 1.0
	if fs.Has(fields.Title) {
		boost *= titleBoost
	}
	if fs.Has(fields.Header) {
		boost *= headerBoost
	}
	if fs.Has(fields.Strong) {
		boost *= strongBoost
	}

	return tfPrime * idf * boost
}

// Split reads finalIndexPath, scores every posting against n (the total
// document count), and writes one file under shardDir for each bucket
// that has at least one term (a.jsonl..z.jsonl, other.jsonl). A bucket
// with no terms gets no file.
func Split(finalIndexPath, shardDir string, n int) error {
	var (
		currentBucket string
		haveBucket    bool
		buffer        []index.TermRecord
	)

	flush := func() error {
		if !haveBucket {
			return nil
		}
		path := filepath.Join(shardDir, currentBucket+".jsonl")
		w, err := jsonl.Create(path)
		if err != nil {
			return fmt.Errorf("creating shard %s: %w", path, err)
		}
		for _, rec := range buffer {
			if err := w.WriteValue(rec); err != nil {
				w.Close()
				return fmt.Errorf("writing shard %s: %w", path, err)
			}
		}
		return w.Close()
	}

	err := jsonl.DecodeEach(finalIndexPath, func(rec index.TermRecord) error {
		df := len(rec.Postings)
		scored := make([]index.Posting, len(rec.Postings))
		for i, p := range rec.Postings {
			s := Score(p.TF, df, n, p.Fields)
			scored[i] = index.Posting{DocID: p.DocID, TF: p.TF, Fields: p.Fields, TFIDF: &s}
		}
		rec.Postings = scored

		bucket := index.Bucket(rec.Token)
		if !haveBucket || bucket != currentBucket {
			if err := flush(); err != nil {
				return err
			}
			currentBucket = bucket
			haveBucket = true
			buffer = buffer[:0]
		}
		buffer = append(buffer, rec)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reading final index %s: %w", finalIndexPath, err)
	}

	return flush()
}
