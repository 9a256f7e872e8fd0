package index

import (
	"fmt"

	"github.com/wizenheimer/webidx/internal/jsonl"
)

// DocRecord is one line of the docid -> url mapping file.
type DocRecord struct {
	DocID int    `json:"docid"`
	URL   string `json:"url"`
}

// DocMap is the in-memory docid -> url mapping built during ingestion and
// persisted once, at finalize time. The url -> docid direction is
// intentionally not kept: per the data model, it's regenerated fresh on
// every indexing run rather than persisted.
type DocMap struct {
	urls []string // urls[docid-1] == url for docid
}

// NewDocMap returns an empty mapping.
func NewDocMap() *DocMap {
	return &DocMap{}
}

// Assign appends url as the next dense docid (starting at 1) and returns it.
func (m *DocMap) Assign(url string) int {
	m.urls = append(m.urls, url)
	return len(m.urls)
}

// Len returns the number of documents assigned so far (== N, the document
// count C5's tf-idf formula needs).
func (m *DocMap) Len() int {
	return len(m.urls)
}

// URL returns the url for docid, or "" if docid is out of range.
func (m *DocMap) URL(docid int) string {
	if docid < 1 || docid > len(m.urls) {
		return ""
	}
	return m.urls[docid-1]
}

// WriteTo persists the mapping as JSON-lines, one record per docid in
// ascending order, to path.
func (m *DocMap) WriteTo(path string) error {
	w, err := jsonl.Create(path)
	if err != nil {
		return fmt.Errorf("creating doc-id map %s: %w", path, err)
	}
	defer w.Close()

	for i, url := range m.urls {
		rec := DocRecord{DocID: i + 1, URL: url}
		if err := w.WriteValue(rec); err != nil {
			return fmt.Errorf("writing doc-id map record: %w", err)
		}
	}
	return w.Close()
}

// CountDocs reads a doc-id map file once and returns the number of lines
// (N, the total document count), without materializing the full mapping.
// shard.Split does not call it: it takes N as an argument, and
// cmd/webidx passes Builder.DocCount.
func CountDocs(path string) (int, error) {
	n := 0
	err := jsonl.DecodeEach(path, func(DocRecord) error {
		n++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting doc-id map %s: %w", path, err)
	}
	return n, nil
}

// LoadDocMap reads a doc-id map file fully into memory, for use by the
// query evaluator (which needs random-access docid -> url lookups).
func LoadDocMap(path string) (map[int]string, error) {
	out := make(map[int]string)
	err := jsonl.DecodeEach(path, func(rec DocRecord) error {
		out[rec.DocID] = rec.URL
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading doc-id map %s: %w", path, err)
	}
	return out, nil
}
