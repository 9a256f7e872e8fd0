package query

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/wizenheimer/webidx/internal/index"
)

// ShardReader binary-searches one shard file by term without loading its
// postings into memory up front. spec.md §9's design notes offer two
// conformant strategies for "binary search over a text file" — a sparse
// offset table built at load time plus seek+readline, or mmap. This is the
// offset-table variant: ShardReader scans the shard once on open to record
// each line's starting byte offset, then every probe seeks directly to a
// candidate line instead of re-reading the whole file.
type ShardReader struct {
	f       *os.File
	offsets []int64 // offsets[i] is the start of line i; len(offsets) == number of lines
}

// OpenShard opens path and builds its line-offset table.
func OpenShard(path string) (*ShardReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	offsets := []int64{0}
	br := bufio.NewReader(f)
	var pos int64
	for {
		line, err := br.ReadString('\n')
		pos += int64(len(line))
		if err != nil {
			break
		}
		offsets = append(offsets, pos)
	}
	// The scan leaves a trailing offset past the last line if the file
	// ends with a newline; drop it so offsets always indexes real lines.
	if n := len(offsets); n > 0 && offsets[n-1] >= fileSize(f) {
		offsets = offsets[:n-1]
	}

	if _, err := f.Seek(0, os.SEEK_SET); err != nil {
		f.Close()
		return nil, err
	}

	return &ShardReader{f: f, offsets: offsets}, nil
}

func fileSize(f *os.File) int64 {
	info, err := f.Stat()
	if err != nil {
		return -1
	}
	return info.Size()
}

// Close closes the underlying file.
func (s *ShardReader) Close() error {
	return s.f.Close()
}

// Lookup binary-searches the shard for term and returns its postings, or
// nil if the term is absent. A malformed JSON line encountered during the
// search is a hard error: per spec.md §4.6, a corrupt line aborts the
// query rather than being silently skipped, since skipping would violate
// the sorted invariant the binary search depends on.
func (s *ShardReader) Lookup(term string) ([]index.Posting, error) {
	lo, hi := 0, len(s.offsets)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2

		rec, err := s.readAt(mid)
		if err != nil {
			return nil, fmt.Errorf("reading shard line %d: %w", mid, err)
		}

		switch {
		case rec.Token == term:
			return rec.Postings, nil
		case rec.Token < term:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return nil, nil
}

func (s *ShardReader) readAt(line int) (index.TermRecord, error) {
	if _, err := s.f.Seek(s.offsets[line], os.SEEK_SET); err != nil {
		return index.TermRecord{}, err
	}

	br := bufio.NewReader(s.f)
	raw, err := br.ReadString('\n')
	if err != nil && raw == "" {
		return index.TermRecord{}, err
	}

	var rec index.TermRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return index.TermRecord{}, fmt.Errorf("corrupt shard line: %w", err)
	}
	return rec, nil
}

// LineCount reports how many lines (terms) the shard's offset table holds.
func (s *ShardReader) LineCount() int {
	return len(s.offsets)
}
