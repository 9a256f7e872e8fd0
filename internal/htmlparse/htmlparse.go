// Package htmlparse extracts plaintext and field regions from raw HTML.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHY THIS EXISTS
// ═══════════════════════════════════════════════════════════════════════════════
// The indexing pipeline treats HTML parsing as an external collaborator: it
// only ever consumes a function "parse(raw) -> (plaintext, field regions)".
// This package is that collaborator's concrete implementation, built on
// golang.org/x/net/html the same way the reference HTML-to-structured-data
// parsers in this codebase's sibling projects walk an *html.Node tree rather
// than regexing tags out of a byte slice.
// ═══════════════════════════════════════════════════════════════════════════════
package htmlparse

import (
	"strings"

	"golang.org/x/net/html"
)

// Document is the parsed form the field extractor and indexer consume.
type Document struct {
	// Plaintext is the full-page text content, in document order.
	Plaintext string

	// Title, Header, Strong and Body are the raw text content of,
	// respectively: title elements; h1/h2/h3 elements; strong elements;
	// and p/span/div elements. Nesting is not excluded — a <strong>
	// inside a <p> contributes its text to both Strong and Body.
	Title  string
	Header string
	Strong string
	Body   string
}

var headerTags = map[string]bool{"h1": true, "h2": true, "h3": true}
var bodyTags = map[string]bool{"p": true, "span": true, "div": true}

// Parse parses raw HTML and returns the plaintext and the four field
// regions used by the field extractor (package fields).
func Parse(raw string) (Document, error) {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return Document{}, err
	}

	var doc Document
	var all strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			all.WriteString(n.Data)
			all.WriteByte(' ')
		}
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "title":
				doc.Title += " " + textContent(n)
			case headerTags[n.Data]:
				doc.Header += " " + textContent(n)
			case n.Data == "strong":
				doc.Strong += " " + textContent(n)
			case bodyTags[n.Data]:
				doc.Body += " " + textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	doc.Plaintext = strings.TrimSpace(all.String())
	doc.Title = strings.TrimSpace(doc.Title)
	doc.Header = strings.TrimSpace(doc.Header)
	doc.Strong = strings.TrimSpace(doc.Strong)
	doc.Body = strings.TrimSpace(doc.Body)
	return doc, nil
}

// textContent concatenates all descendant text nodes of n, including text
// under nested elements (a <strong> inside a <p> still contributes its own
// text when textContent is called on the <p>, and separately when called
// on the <strong> itself).
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
