package index

import "errors"

// Sentinel errors, declared package-level exactly as the teacher's
// index.go declares ErrNoPostingList and friends, so callers can compare
// with errors.Is across a package boundary.
var (
	// ErrMergeInvariant signals that the k-way merge observed a violation
	// of its own preconditions: a non-monotone term ordering out of a
	// partial, or a duplicate (term, docid) pair inside one partial. Per
	// spec.md §7 this is fatal, never papered over.
	ErrMergeInvariant = errors.New("index: merge invariant violated")

	// ErrPartialIOFailure wraps any I/O failure while flushing or reading
	// a partial index file. Fatal to the run per spec.md §7.
	ErrPartialIOFailure = errors.New("index: partial index I/O failure")
)
