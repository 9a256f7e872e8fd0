// Package index defines the on-disk record types shared by the index
// builder (C4), the sharder/scorer (C5), and the query evaluator (C6), plus
// the builder and k-way merge that produce the final index.
package index

import "github.com/wizenheimer/webidx/internal/fields"

// Posting associates one term with one document: the raw term frequency,
// the fields it occurred in, and — once C5 has run — its tf-idf score.
// TFIDF is a pointer so the final (unscored) index omits the key entirely
// while the sharded (scored) index always carries it.
type Posting struct {
	DocID  int        `json:"docid"`
	TF     int        `json:"tf"`
	Fields fields.Set `json:"fields"`
	TFIDF  *float64   `json:"tfidf,omitempty"`
}

// TermRecord is one line of a partial, final, or sharded index file: a term
// and its ordered posting list.
type TermRecord struct {
	Token    string    `json:"token"`
	Postings []Posting `json:"postings"`
}

// Bucket returns the shard bucket key for a term: its lowercase first byte
// if it falls in a-z, otherwise "other". Terms are already lowercase ASCII
// by construction (package analyze), but Bucket does not assume that for
// defensive reuse from arbitrary callers (e.g. query-time routing on raw
// user tokens, which are tokenized through the same pipeline before this
// is ever called).
func Bucket(term string) string {
	if len(term) == 0 {
		return "other"
	}
	c := term[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	if c >= 'a' && c <= 'z' {
		return string(c)
	}
	return "other"
}
