// Package analyze implements the tokenizer shared by indexing and querying.
//
// ═══════════════════════════════════════════════════════════════════════════════
// TEXT ANALYSIS OVERVIEW
// ═══════════════════════════════════════════════════════════════════════════════
// Index-time analysis is deliberately thin: lowercase, split into maximal runs
// of [a-z0-9], stem anything that isn't pure digits. No stopword removal, no
// length filtering, no deduplication — every occurrence is kept so term
// frequency stays meaningful.
//
// Query-time analysis runs the same extraction and then narrows the token
// list: duplicates collapse to one occurrence and stopwords drop out, since a
// query is a set of terms to intersect on, not a frequency-bearing document.
// ═══════════════════════════════════════════════════════════════════════════════
package analyze

import (
	"regexp"
	"strings"

	snowballeng "github.com/kljensen/snowball/english"
)

// tokenPattern matches maximal runs of lowercase ASCII letters and digits.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Index tokenizes document text for indexing: lowercase, extract, stem.
// Order is preserved and repeats are kept — callers that need term
// frequency rely on that.
func Index(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	terms := make([]string, len(matches))
	for i, m := range matches {
		terms[i] = stemOrPass(m)
	}
	return terms
}

// Query tokenizes query text: same extraction and stemming as Index, then
// deduplicated and stripped of stopwords. Token order in the result is the
// first-occurrence order of the input, which keeps Query deterministic for
// testing without implying any significance to result ranking.
func Query(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)

	seen := make(map[string]struct{}, len(matches))
	terms := make([]string, 0, len(matches))
	for _, m := range matches {
		term := stemOrPass(m)
		if isStopword(term) {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

// stemOrPass stems an alphanumeric token unless it is purely digits, in
// which case it passes through unchanged. A run that mixes letters and
// digits (e.g. "mp3") is not "purely digits" and is stemmed like any other
// token — the stemmer is a no-op on tokens it doesn't recognize as English
// word forms, which is the behavior spec.md's fixture expects.
func stemOrPass(token string) string {
	if isAllDigits(token) {
		return token
	}
	return snowballeng.Stem(token, false)
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
