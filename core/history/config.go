package history

import "fmt"

// Store backends.
const (
	BackendNone     = "none"
	BackendJSONL    = "jsonl"
	BackendRotating = "rotating"
	BackendSQLite   = "sqlite"
)

// Config defines settings for prediction history storage and rotation.
type Config struct {
	// Backend selects the store type: "jsonl", "rotating", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "predictions.db"
		default:
			c.Path = "predictions.jsonl"
		}
	}
	if c.Backend == BackendRotating && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone:
		return nil
	case BackendJSONL, BackendRotating, BackendSQLite:
	default:
		return fmt.Errorf("unknown history backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("history path is required")
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("history rotation settings must not be negative")
	}
	return nil
}
