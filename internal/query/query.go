// Package query implements the Query Evaluator (C6): tokenizing a query,
// locating postings via sharded binary search, intersecting per-term
// document sets, and ranking surviving documents by summed tf-idf.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHY ROARING BITMAPS FOR THE INTERSECTION
// ═══════════════════════════════════════════════════════════════════════════════
// The teacher (index.go/query.go) already represents a term's document set
// as a *roaring.Bitmap for exactly this purpose: cheap set membership and
// fast AND. Reusing that representation here turns "sort posting sets by
// ascending size, intersect smallest-first" (spec.md §4.6.3) into a
// sequence of roaring.And calls ordered by GetCardinality() — the same
// algorithm the spec describes, with compressed-bitmap performance instead
// of Go's built-in map[int]struct{}.
// ═══════════════════════════════════════════════════════════════════════════════
package query

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/wizenheimer/webidx/internal/analyze"
	"github.com/wizenheimer/webidx/internal/index"
)

// ErrEmptyQuery carries the client-visible message for a blank query
// string. The HTTP handler answers a blank query with that same message
// itself, before the evaluator is invoked, without using this value
// (spec.md S6). The evaluator never returns it either: a query that
// tokenizes to zero terms (every token a stop-word) is a normal empty
// result, not an error (spec.md §8 Boundaries).
var ErrEmptyQuery = errors.New("query: please provide a valid query")

// Result is one ranked hit: a document URL and its summed tf-idf score.
type Result struct {
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// Evaluator answers queries against a sharded, scored index plus a
// docid -> url mapping, both already on disk (produced by packages index
// and shard).
type Evaluator struct {
	shardDir string
	docs     map[int]string

	shards map[string]*ShardReader
}

// NewEvaluator loads the doc-id map at docIDPath and prepares to serve
// queries against the shards under shardDir. Shard files are opened
// lazily, the first time a query needs them.
func NewEvaluator(shardDir, docIDPath string) (*Evaluator, error) {
	docs, err := index.LoadDocMap(docIDPath)
	if err != nil {
		return nil, fmt.Errorf("loading doc-id map: %w", err)
	}
	return &Evaluator{
		shardDir: shardDir,
		docs:     docs,
		shards:   make(map[string]*ShardReader),
	}, nil
}

// Close releases every shard file handle opened during the evaluator's
// lifetime.
func (e *Evaluator) Close() error {
	var firstErr error
	for _, r := range e.shards {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Search tokenizes query with C1's query-time rules, looks up each
// token's postings, intersects their docid sets smallest-first, scores
// surviving documents by summed tf-idf, de-duplicates by URL, and returns
// results ranked by descending score (ties broken by ascending docid).
func (e *Evaluator) Search(query string) ([]Result, error) {
	tokens := analyze.Query(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	postingsByToken := make(map[string][]index.Posting, len(tokens))
	for _, tok := range tokens {
		postings, err := e.lookup(tok)
		if err != nil {
			return nil, fmt.Errorf("looking up token %q: %w", tok, err)
		}
		postingsByToken[tok] = postings
	}

	docids, ok := intersect(tokens, postingsByToken)
	if !ok || len(docids) == 0 {
		return nil, nil
	}

	type scored struct {
		docid int
		score float64
	}
	hits := make([]scored, 0, len(docids))
	for _, d := range docids {
		var score float64
		for _, tok := range tokens {
			if p, ok := findPosting(postingsByToken[tok], d); ok && p.TFIDF != nil {
				score += *p.TFIDF
			}
		}
		hits = append(hits, scored{docid: d, score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].docid < hits[j].docid
	})

	results := make([]Result, 0, len(hits))
	seenURLs := make(map[string]bool, len(hits))
	for _, h := range hits {
		url := e.docs[h.docid]
		if seenURLs[url] {
			continue
		}
		seenURLs[url] = true
		results = append(results, Result{URL: url, Score: h.score})
	}

	return results, nil
}

// lookup routes token to its shard by leading character and binary-searches
// that shard. A missing shard file behaves identically to an empty posting
// list (spec.md §4.6 Failure modes).
func (e *Evaluator) lookup(token string) ([]index.Posting, error) {
	bucket := index.Bucket(token)

	r, ok := e.shards[bucket]
	if !ok {
		opened, err := OpenShard(e.shardPath(bucket))
		if err != nil {
			// Missing/unreadable shard: no postings for this token, not a
			// query-aborting error.
			e.shards[bucket] = nil
			return nil, nil
		}
		e.shards[bucket] = opened
		r = opened
	}
	if r == nil {
		return nil, nil
	}

	return r.Lookup(token)
}

func (e *Evaluator) shardPath(bucket string) string {
	return e.shardDir + "/" + bucket + ".jsonl"
}

// intersect builds a roaring.Bitmap of docids per token, sorts by
// ascending cardinality, and ANDs them together smallest-first. ok is
// false if any token has no postings (the boolean AND is then empty by
// definition, per spec.md §4.6.3).
func intersect(tokens []string, postingsByToken map[string][]index.Posting) ([]int, bool) {
	bitmaps := make([]*roaring.Bitmap, 0, len(tokens))
	for _, tok := range tokens {
		postings := postingsByToken[tok]
		if len(postings) == 0 {
			return nil, false
		}
		bm := roaring.NewBitmap()
		for _, p := range postings {
			bm.Add(uint32(p.DocID))
		}
		bitmaps = append(bitmaps, bm)
	}

	sort.Slice(bitmaps, func(i, j int) bool {
		return bitmaps[i].GetCardinality() < bitmaps[j].GetCardinality()
	})

	result := bitmaps[0]
	for _, bm := range bitmaps[1:] {
		result = roaring.And(result, bm)
	}

	docids := make([]int, 0, result.GetCardinality())
	it := result.Iterator()
	for it.HasNext() {
		docids = append(docids, int(it.Next()))
	}
	return docids, true
}

// findPosting binary-searches postings (docid-ascending, per the final and
// sharded index invariants) for docid.
func findPosting(postings []index.Posting, docid int) (index.Posting, bool) {
	lo, hi := 0, len(postings)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		switch {
		case postings[mid].DocID == docid:
			return postings[mid], true
		case postings[mid].DocID < docid:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return index.Posting{}, false
}
