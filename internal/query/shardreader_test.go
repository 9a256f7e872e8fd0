package query

import (
	"path/filepath"
	"testing"

	"github.com/wizenheimer/webidx/internal/index"
	"github.com/wizenheimer/webidx/internal/jsonl"
)

func TestShardReader_FindsEveryTerm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jsonl")

	terms := []string{"ant", "apple", "arc", "axe"}
	w, err := jsonl.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for i, term := range terms {
		rec := index.TermRecord{Token: term, Postings: []index.Posting{{DocID: i + 1, TF: 1}}}
		if err := w.WriteValue(rec); err != nil {
			t.Fatalf("WriteValue() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := OpenShard(path)
	if err != nil {
		t.Fatalf("OpenShard() error = %v", err)
	}
	defer r.Close()

	if r.LineCount() != len(terms) {
		t.Fatalf("LineCount() = %d, want %d", r.LineCount(), len(terms))
	}

	for i, term := range terms {
		postings, err := r.Lookup(term)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", term, err)
		}
		if len(postings) != 1 || postings[0].DocID != i+1 {
			t.Errorf("Lookup(%q) = %v, want docid %d", term, postings, i+1)
		}
	}
}

func TestShardReader_MissingTermReturnsNil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jsonl")

	w, _ := jsonl.Create(path)
	w.WriteValue(index.TermRecord{Token: "apple", Postings: []index.Posting{{DocID: 1, TF: 1}}})
	w.Close()

	r, err := OpenShard(path)
	if err != nil {
		t.Fatalf("OpenShard() error = %v", err)
	}
	defer r.Close()

	postings, err := r.Lookup("zebra")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if postings != nil {
		t.Errorf("Lookup(missing) = %v, want nil", postings)
	}
}
