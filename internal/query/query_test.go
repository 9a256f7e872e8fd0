package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wizenheimer/webidx/internal/index"
	"github.com/wizenheimer/webidx/internal/jsonl"
)

func writeShard(t *testing.T, dir, bucket string, records []index.TermRecord) {
	t.Helper()
	w, err := jsonl.Create(filepath.Join(dir, bucket+".jsonl"))
	if err != nil {
		t.Fatalf("creating shard: %v", err)
	}
	for _, rec := range records {
		if err := w.WriteValue(rec); err != nil {
			t.Fatalf("writing shard record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing shard: %v", err)
	}
}

func writeDocMap(t *testing.T, path string, urls map[int]string) {
	t.Helper()
	w, err := jsonl.Create(path)
	if err != nil {
		t.Fatalf("creating doc-id map: %v", err)
	}
	for docid := 1; docid <= len(urls); docid++ {
		if err := w.WriteValue(index.DocRecord{DocID: docid, URL: urls[docid]}); err != nil {
			t.Fatalf("writing doc-id record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing doc-id map: %v", err)
	}
}

func ptr(f float64) *float64 { return &f }

func TestSearch_BooleanANDAndScoring(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(dir, 0o755)

	// cat: docs 1 and 2. dog: doc 2 only.
	writeShard(t, dir, "c", []index.TermRecord{
		{Token: "cat", Postings: []index.Posting{
			{DocID: 1, TF: 2, TFIDF: ptr(0.5)},
			{DocID: 2, TF: 1, TFIDF: ptr(0.2)},
		}},
	})
	writeShard(t, dir, "d", []index.TermRecord{
		{Token: "dog", Postings: []index.Posting{
			{DocID: 2, TF: 1, TFIDF: ptr(0.3)},
		}},
	})

	docMapPath := filepath.Join(dir, "docid.jsonl")
	writeDocMap(t, docMapPath, map[int]string{1: "http://a.test/", 2: "http://b.test/"})

	eval, err := NewEvaluator(dir, docMapPath)
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}
	defer eval.Close()

	results, err := eval.Search("cat dog")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search(\"cat dog\") = %v, want exactly doc 2", results)
	}
	if results[0].URL != "http://b.test/" {
		t.Errorf("URL = %q, want http://b.test/", results[0].URL)
	}
	wantScore := 0.2 + 0.3
	if diff := results[0].Score - wantScore; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Score = %v, want %v", results[0].Score, wantScore)
	}
}

func TestSearch_TokenWithNoPostingsYieldsEmptyResult(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "c", []index.TermRecord{
		{Token: "cat", Postings: []index.Posting{{DocID: 1, TF: 1, TFIDF: ptr(0.1)}}},
	})
	docMapPath := filepath.Join(dir, "docid.jsonl")
	writeDocMap(t, docMapPath, map[int]string{1: "http://a.test/"})

	eval, err := NewEvaluator(dir, docMapPath)
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}
	defer eval.Close()

	results, err := eval.Search("cat nonexistentterm")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() = %v, want empty (nonexistentterm has no postings)", results)
	}
}

func TestSearch_AllStopwordsReturnsEmptyNotError(t *testing.T) {
	dir := t.TempDir()
	docMapPath := filepath.Join(dir, "docid.jsonl")
	writeDocMap(t, docMapPath, map[int]string{})

	eval, err := NewEvaluator(dir, docMapPath)
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}
	defer eval.Close()

	results, err := eval.Search("the a an of")
	if err != nil {
		t.Fatalf("Search() error = %v, want nil (stop-word-only query is not an error)", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() = %v, want empty", results)
	}
}

func TestSearch_StableUnderDuplicateQueryTokens(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "f", []index.TermRecord{
		{Token: "fox", Postings: []index.Posting{{DocID: 1, TF: 3, TFIDF: ptr(0.7)}}},
	})
	docMapPath := filepath.Join(dir, "docid.jsonl")
	writeDocMap(t, docMapPath, map[int]string{1: "http://a.test/"})

	eval, err := NewEvaluator(dir, docMapPath)
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}
	defer eval.Close()

	a, err := eval.Search("fox fox")
	if err != nil {
		t.Fatalf("Search(\"fox fox\") error = %v", err)
	}
	b, err := eval.Search("fox")
	if err != nil {
		t.Fatalf("Search(\"fox\") error = %v", err)
	}
	if len(a) != len(b) || (len(a) > 0 && a[0].Score != b[0].Score) {
		t.Errorf("Search(\"fox fox\") = %v, Search(\"fox\") = %v, want equal", a, b)
	}
}
