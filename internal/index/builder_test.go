package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/wizenheimer/webidx/internal/config"
	"github.com/wizenheimer/webidx/internal/corpus"
	"github.com/wizenheimer/webidx/internal/jsonl"
)

func newTestConfig(t *testing.T, threshold int64) config.IndexConfig {
	t.Helper()
	root := t.TempDir()
	corpusDir := filepath.Join(root, "corpus")
	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	partialDir := filepath.Join(root, "partial")
	if err := os.MkdirAll(partialDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	return config.IndexConfig{
		CorpusRoot:                   corpusDir,
		PartialDir:                   partialDir,
		ShardDir:                     filepath.Join(root, "shards"),
		FinalIndexPath:               filepath.Join(root, "final.jsonl"),
		DocIDPath:                    filepath.Join(root, "docid.jsonl"),
		ThresholdBytes:               threshold,
		DuplicateSimilarityThreshold: 0.85,
		DuplicateMinTokens:           10,
	}
}

func writePage(t *testing.T, dir, host, name, url, content string) {
	t.Helper()
	hostDir := filepath.Join(dir, host)
	if err := os.MkdirAll(hostDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	data, err := json.Marshal(corpus.Page{URL: url, Content: content, Encoding: "utf-8"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(hostDir, name+".json"), data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func readFinalIndex(t *testing.T, path string) map[string]TermRecord {
	t.Helper()
	out := make(map[string]TermRecord)
	err := jsonl.DecodeEach(path, func(rec TermRecord) error {
		out[rec.Token] = rec
		return nil
	})
	if err != nil {
		t.Fatalf("reading final index: %v", err)
	}
	return out
}

func TestBuilder_SingleDocument(t *testing.T) {
	cfg := newTestConfig(t, 20_000_000)
	writePage(t, cfg.CorpusRoot, "host1", "page1", "http://host1.test/page1",
		"<html><body><p>hello hello world</p></body></html>")

	b := NewBuilder(cfg, nil)
	if err := corpus.Walk(cfg.CorpusRoot, b.Process); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if b.DocCount() != 1 {
		t.Fatalf("DocCount() = %d, want 1", b.DocCount())
	}

	terms := readFinalIndex(t, cfg.FinalIndexPath)

	hello, ok := terms["hello"]
	if !ok {
		t.Fatal("expected term 'hello' in final index")
	}
	if len(hello.Postings) != 1 || hello.Postings[0].TF != 2 || hello.Postings[0].DocID != 1 {
		t.Errorf("hello postings = %+v, want one posting docid=1 tf=2", hello.Postings)
	}

	world, ok := terms["world"]
	if !ok {
		t.Fatal("expected term 'world' in final index")
	}
	if len(world.Postings) != 1 || world.Postings[0].TF != 1 {
		t.Errorf("world postings = %+v, want one posting tf=1", world.Postings)
	}
}

func TestBuilder_FieldBoostedTermsCarryTitle(t *testing.T) {
	cfg := newTestConfig(t, 20_000_000)
	writePage(t, cfg.CorpusRoot, "host1", "page1", "http://host1.test/p1",
		"<html><head><title>Cat</title></head><body><p>cat dog</p></body></html>")
	writePage(t, cfg.CorpusRoot, "host1", "page2", "http://host1.test/p2",
		"<html><body><p>dog</p></body></html>")

	b := NewBuilder(cfg, nil)
	if err := corpus.Walk(cfg.CorpusRoot, b.Process); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	terms := readFinalIndex(t, cfg.FinalIndexPath)

	cat, ok := terms["cat"]
	if !ok || len(cat.Postings) != 1 {
		t.Fatalf("expected exactly one posting for 'cat', got %+v", cat)
	}
	if !cat.Postings[0].Fields.Has("title") {
		t.Errorf("expected 'cat' posting to carry the title field: %+v", cat.Postings[0].Fields)
	}

	dog, ok := terms["dog"]
	if !ok || len(dog.Postings) != 2 {
		t.Fatalf("expected two postings for 'dog' (one per document), got %+v", dog)
	}
}

func TestBuilder_SuppressesNearDuplicates(t *testing.T) {
	cfg := newTestConfig(t, 20_000_000)
	longBody := "<p>the quick brown fox jumps over the lazy dog again and again today</p>"
	writePage(t, cfg.CorpusRoot, "host1", "page1", "http://host1.test/p1", "<html><body>"+longBody+"</body></html>")
	writePage(t, cfg.CorpusRoot, "host1", "page2", "http://host1.test/p2", "<html><body>"+longBody+"</body></html>")
	writePage(t, cfg.CorpusRoot, "host1", "page3", "http://host1.test/p3", "<html><body>"+longBody+"</body></html>")

	b := NewBuilder(cfg, nil)
	if err := corpus.Walk(cfg.CorpusRoot, b.Process); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if b.DocCount() != 1 {
		t.Fatalf("DocCount() = %d, want 1 (other two are near-duplicates)", b.DocCount())
	}
}

func TestBuilder_ForcedFlushesProduceSameIndexAsUnbounded(t *testing.T) {
	pages := []string{
		"<html><body><p>alpha beta gamma delta epsilon zeta eta theta iota kappa</p></body></html>",
		"<html><body><p>lambda mu nu xi omicron pi rho sigma tau upsilon</p></body></html>",
		"<html><body><p>phi chi psi omega alpha beta gamma delta epsilon zeta</p></body></html>",
	}

	build := func(threshold int64) map[string]TermRecord {
		cfg := newTestConfig(t, threshold)
		for i, content := range pages {
			name := fmt.Sprintf("page%d", i)
			url := fmt.Sprintf("http://host1.test/%s", name)
			writePage(t, cfg.CorpusRoot, "host1", name, url, content)
		}
		b := NewBuilder(cfg, nil)
		if err := corpus.Walk(cfg.CorpusRoot, b.Process); err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if err := b.Finalize(); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		return readFinalIndex(t, cfg.FinalIndexPath)
	}

	unbounded := build(20_000_000)
	forced := build(1) // flush after every document

	if len(unbounded) != len(forced) {
		t.Fatalf("term count differs: unbounded=%d forced=%d", len(unbounded), len(forced))
	}
	for term, rec := range unbounded {
		other, ok := forced[term]
		if !ok {
			t.Fatalf("term %q missing from forced-flush index", term)
		}
		if len(rec.Postings) != len(other.Postings) {
			t.Fatalf("term %q posting count differs: unbounded=%d forced=%d", term, len(rec.Postings), len(other.Postings))
		}
		for i := range rec.Postings {
			if rec.Postings[i].DocID != other.Postings[i].DocID || rec.Postings[i].TF != other.Postings[i].TF {
				t.Fatalf("term %q posting %d differs: unbounded=%+v forced=%+v", term, i, rec.Postings[i], other.Postings[i])
			}
		}
	}
}
