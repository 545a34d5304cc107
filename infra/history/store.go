package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	corehistory "github.com/kilianp07/pitwall/core/history"
)

// NopStore discards records and returns empty query results.
type NopStore struct{}

func (NopStore) Append(context.Context, corehistory.Record) error { return nil }
func (NopStore) Query(context.Context, corehistory.Query) ([]corehistory.Record, error) {
	return nil, nil
}
func (NopStore) Close() error { return nil }

// NewStore opens the store selected by cfg.Backend.
func NewStore(cfg corehistory.Config) (corehistory.Store, error) {
	switch cfg.Backend {
	case corehistory.BackendNone:
		return NopStore{}, nil
	case corehistory.BackendJSONL:
		return NewJSONLStore(cfg.Path)
	case corehistory.BackendRotating:
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case corehistory.BackendSQLite:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown history backend %s", cfg.Backend)
	}
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
