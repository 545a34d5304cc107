package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	corehistory "github.com/kilianp07/pitwall/core/history"
)

// RotatingJSONLStore stores records in a JSONL file with automatic rotation.
type RotatingJSONLStore struct {
	logger *lumberjack.Logger
	path   string
}

// NewRotatingJSONLStore creates a store with rotation options in megabytes and days.
func NewRotatingJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*RotatingJSONLStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   false,
	}
	return &RotatingJSONLStore{logger: lj, path: path}, nil
}

// Append writes the record and triggers rotation if needed.
func (s *RotatingJSONLStore) Append(_ context.Context, rec corehistory.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.logger.Write(append(b, '\n'))
	return err
}

// Query reads the active file and every rotated backup.
func (s *RotatingJSONLStore) Query(ctx context.Context, q corehistory.Query) ([]corehistory.Record, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}
	var res []corehistory.Record
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			continue
		}
		res, err = scanRecords(ctx, f, q, res)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}
	sortByTime(res)
	return res, nil
}

// files lists the active file and the backups lumberjack names
// <name>-<timestamp><ext>.
func (s *RotatingJSONLStore) files() ([]string, error) {
	ext := filepath.Ext(s.path)
	prefix := strings.TrimSuffix(s.path, ext)
	backups, err := filepath.Glob(prefix + "-*" + ext)
	if err != nil {
		return nil, err
	}
	files := backups
	if _, err := os.Stat(s.path); err == nil {
		files = append(files, s.path)
	}
	return files, nil
}

// Close closes the underlying writer.
func (s *RotatingJSONLStore) Close() error {
	return s.logger.Close()
}
