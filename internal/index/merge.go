package index

import (
	"container/heap"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/wizenheimer/webidx/internal/jsonl"
)

// mergeEntry is one heap element: the term read from one partial file,
// that file's postings for the term, and which partial file it came from.
// Comparison is purely by term; sourceIndex only breaks ties
// deterministically, and — critically — is also what refill uses to read
// the entry's *own* file back, never the heap's current loop variable.
// spec.md §4.4 calls out a historical revision that refilled from a stale
// outer-loop index instead; mergeHeap avoids that class of bug entirely by
// having refill always act on entry.sourceIndex.
type mergeEntry struct {
	term        string
	sourceIndex int
	postings    []Posting
}

// mergeHeap implements container/heap.Interface over mergeEntry values,
// the same shape as a multi-source k-way merge heap: ordered by key, with
// the source index as tie-break for determinism.
type mergeHeap []mergeEntry

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if h[i].term != h[j].term {
		return h[i].term < h[j].term
	}
	return h[i].sourceIndex < h[j].sourceIndex
}
func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) {
	*h = append(*h, x.(mergeEntry))
}

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// mergePartials performs the k-way merge (C4's "Merge" step): it opens
// every partial file in partialPaths simultaneously, merges them into one
// term-ascending, docid-ascending stream, and writes that stream to
// outPath.
func mergePartials(partialPaths []string, outPath string) error {
	readers := make([]*jsonl.Reader, len(partialPaths))
	for i, p := range partialPaths {
		r, err := jsonl.Open(p)
		if err != nil {
			return fmt.Errorf("%w: opening partial %s: %v", ErrPartialIOFailure, p, err)
		}
		readers[i] = r
		defer r.Close()
	}

	out, err := jsonl.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: creating final index %s: %v", ErrPartialIOFailure, outPath, err)
	}
	defer out.Close()

	h := make(mergeHeap, 0, len(readers))
	for i, r := range readers {
		entry, ok, err := readTermRecord(r)
		if err != nil {
			return err
		}
		if ok {
			h = append(h, mergeEntry{term: entry.Token, sourceIndex: i, postings: entry.Postings})
		}
	}
	heap.Init(&h)

	var currentTerm string
	var accumulated []Posting // docid-ascending, for the term currently accumulating
	var accumulatedHasTerm bool

	flush := func() error {
		if !accumulatedHasTerm {
			return nil
		}
		return out.WriteValue(TermRecord{Token: currentTerm, Postings: accumulated})
	}

	for h.Len() > 0 {
		entry := heap.Pop(&h).(mergeEntry)

		if !accumulatedHasTerm || entry.term != currentTerm {
			if err := flush(); err != nil {
				return fmt.Errorf("%w: writing merged term: %v", ErrPartialIOFailure, err)
			}
			currentTerm = entry.term
			accumulated = accumulated[:0]
			accumulatedHasTerm = true
		}

		// A docid belongs to exactly one partial (spec.md §4.4), and each
		// partial's own postings for a term already arrive docid-ascending
		// (the builder appends them in processing order). The heap pops
		// same-term entries in ascending sourceIndex order, and partial
		// file index tracks docid range, so appending each popped entry's
		// postings in pop order — no merge-side sort — reproduces the
		// fully docid-ascending list directly. A malformed partial that
		// repeats a docid for the same term within a single entry would
		// otherwise slip through silently, so that is checked here.
		for i, p := range entry.postings {
			if i > 0 && p.DocID <= entry.postings[i-1].DocID {
				return fmt.Errorf("%w: duplicate or unsorted (term=%q, docid=%d) within one partial",
					ErrMergeInvariant, entry.term, p.DocID)
			}
		}
		accumulated = append(accumulated, entry.postings...)

		// Refill strictly from the popped entry's own source file — never
		// from the surrounding loop's index variable.
		next, ok, err := readTermRecord(readers[entry.sourceIndex])
		if err != nil {
			return err
		}
		if ok {
			if next.Token <= entry.term {
				return fmt.Errorf("%w: non-ascending term %q after %q within one partial",
					ErrMergeInvariant, next.Token, entry.term)
			}
			heap.Push(&h, mergeEntry{term: next.Token, sourceIndex: entry.sourceIndex, postings: next.Postings})
		}
	}

	if err := flush(); err != nil {
		return fmt.Errorf("%w: writing final merged term: %v", ErrPartialIOFailure, err)
	}

	return out.Close()
}

// readTermRecord reads and decodes the next line of r. ok is false (with a
// nil error) at end of file.
func readTermRecord(r *jsonl.Reader) (TermRecord, bool, error) {
	line, err := r.ReadLine()
	if errors.Is(err, io.EOF) {
		return TermRecord{}, false, nil
	}
	if err != nil {
		return TermRecord{}, false, fmt.Errorf("%w: reading partial: %v", ErrPartialIOFailure, err)
	}
	if len(line) == 0 {
		return TermRecord{}, false, nil
	}

	var rec TermRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return TermRecord{}, false, fmt.Errorf("%w: decoding partial record: %v", ErrPartialIOFailure, err)
	}
	return rec, true, nil
}
