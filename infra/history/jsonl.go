package history

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"slices"
	"sync"

	corehistory "github.com/kilianp07/pitwall/core/history"
)

// maxLine bounds a single JSONL record.
const maxLine = 1 << 20

// JSONLStore stores records in a JSONL file.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONLStore creates the file at path if needed.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

func (s *JSONLStore) Append(_ context.Context, rec corehistory.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(rec)
}

func (s *JSONLStore) Query(ctx context.Context, q corehistory.Query) ([]corehistory.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	res, err := scanRecords(ctx, f, q, nil)
	if err != nil {
		return nil, err
	}
	sortByTime(res)
	return res, nil
}

func (s *JSONLStore) Close() error { return nil }

// scanRecords appends the records of r matching q to res. Lines that do not
// decode are skipped.
func scanRecords(ctx context.Context, r io.Reader, q corehistory.Query, res []corehistory.Record) ([]corehistory.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var rec corehistory.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if q.Matches(rec) {
			res = append(res, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func sortByTime(recs []corehistory.Record) {
	slices.SortStableFunc(recs, func(a, b corehistory.Record) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}
