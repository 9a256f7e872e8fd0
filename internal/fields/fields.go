// Package fields implements the field extractor (C2): deciding, for each
// term in a parsed document, which of {title, header, strong, body} it
// occurred in.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHY SET-VALUED, NOT FIRST-MATCH
// ═══════════════════════════════════════════════════════════════════════════════
// A term can legitimately belong to more than one field at once — a word
// that appears in both the title and the body is boosted for both. Nesting
// is ignored entirely: a <strong> inside a <p> contributes its text to both
// the strong region and the body region, so the two regions are tokenized
// independently rather than one excluding the other's text.
// ═══════════════════════════════════════════════════════════════════════════════
package fields

import (
	"github.com/wizenheimer/webidx/internal/analyze"
	"github.com/wizenheimer/webidx/internal/htmlparse"
)

// Extract tokenizes each of doc's four field regions and returns, for every
// term that occurs in at least one of them, the set of regions it occurs
// in. A term absent from the returned map occurs in none of the four
// regions (it may still occur in the plaintext at large, e.g. inside an
// <a> or <li> that maps to no tracked field).
func Extract(doc htmlparse.Document) map[string]Set {
	out := make(map[string]Set)

	tag := func(text string, field Field) {
		for _, term := range uniqueTerms(text) {
			s, ok := out[term]
			if !ok {
				s = Set{}
				out[term] = s
			}
			s.Add(field)
		}
	}

	tag(doc.Title, Title)
	tag(doc.Header, Header)
	tag(doc.Strong, Strong)
	tag(doc.Body, Body)

	return out
}

// FieldsFor looks up the field set for a single term against a map already
// built by Extract, returning an empty (non-nil) set if the term occurs in
// none of the tracked regions.
func FieldsFor(termFields map[string]Set, term string) Set {
	if s, ok := termFields[term]; ok {
		return s
	}
	return Set{}
}

func uniqueTerms(text string) []string {
	if text == "" {
		return nil
	}
	tokens := analyze.Index(text)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
