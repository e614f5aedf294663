package store

import (
	"fmt"
	"log/slog"

	"tracker/internal/store/jsonfile"
	"tracker/internal/store/memory"
	"tracker/internal/store/sqlite"
)

// BackendType selects a document store implementation.
type BackendType string

const (
	JSONBackend   BackendType = "json"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer.
func (bt BackendType) String() string { return string(bt) }

// IsValid returns true if the backend type is known.
func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds what backend creation needs.
type Config struct {
	Type BackendType

	// JSON backend
	UsersFile string

	// SQLite backend
	SQLiteDBPath string
}

// Open creates the configured document store.
func Open(cfg Config, logger *slog.Logger) (DocumentStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Type {
	case JSONBackend:
		logger.Info("Initialized JSON document store", "path", cfg.UsersFile)
		return jsonfile.New(cfg.UsersFile, logger), nil
	case SQLiteBackend:
		st, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized SQLite document store", "db_path", cfg.SQLiteDBPath)
		return st, nil
	case MemoryBackend:
		logger.Info("Initialized in-memory document store")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
