// Package corpus walks the crawled-page corpus directory and decodes one
// page record at a time.
//
// ═══════════════════════════════════════════════════════════════════════════════
// LAYOUT
// ═══════════════════════════════════════════════════════════════════════════════
// The corpus root contains one subdirectory per crawled host; each
// subdirectory contains one JSON file per captured page, with at least
// "url", "content" and "encoding" string fields. "encoding" is advisory
// only — this package never acts on it, since the HTML parser (package
// htmlparse) operates on the content string already decoded to UTF-8 by
// whatever produced the corpus file.
// ═══════════════════════════════════════════════════════════════════════════════
package corpus

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Page is one decoded corpus file.
type Page struct {
	URL      string `json:"url"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// ReadPage decodes one corpus file at path.
func ReadPage(path string) (Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("reading corpus file %s: %w", path, err)
	}
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return Page{}, fmt.Errorf("decoding corpus file %s: %w", path, err)
	}
	if p.URL == "" || p.Content == "" {
		return Page{}, fmt.Errorf("corpus file %s missing url or content", path)
	}
	return p, nil
}

// Walk visits every page file under root (one subdirectory per host, one
// file per page) in a deterministic order — hosts and files are each
// sorted lexicographically by filepath.WalkDir's own traversal order — and
// calls fn with each file's path. Walk itself does not open or parse the
// files; that is left to the caller via ReadPage, so a caller that wants to
// skip a file on a read error can do so without Walk aborting the whole run.
func Walk(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}
		return fn(path)
	})
}

// Defragment strips any "#..." fragment from rawURL, returning the
// canonical form used as the docid's identity.
func Defragment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
