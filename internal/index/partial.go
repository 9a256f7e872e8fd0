package index

import (
	"fmt"
	"sort"

	"github.com/wizenheimer/webidx/internal/jsonl"
)

// partialIndex is one in-memory batch: term -> postings, accumulated in
// docid order as documents are processed (each document contributes at
// most one posting per term, and docids are strictly increasing, so a
// term's posting slice is already docid-ascending without any sorting).
type partialIndex map[string][]Posting

// flushTo writes p to path as JSON-lines, one record per term in ascending
// term order, matching spec.md §4.4's flush contract.
func (p partialIndex) flushTo(path string) error {
	terms := make([]string, 0, len(p))
	for t := range p {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	w, err := jsonl.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating partial index %s: %v", ErrPartialIOFailure, path, err)
	}
	defer w.Close()

	for _, t := range terms {
		rec := TermRecord{Token: t, Postings: p[t]}
		if err := w.WriteValue(rec); err != nil {
			return fmt.Errorf("%w: writing partial index %s: %v", ErrPartialIOFailure, path, err)
		}
	}
	return w.Close()
}
