// Package history implements prediction history stores backed by JSONL files
// (optionally rotated with lumberjack) or SQLite, and the recorder that feeds
// them from the strategy event bus.
package history
