// Package jsonfile persists the account document as a single JSON file in
// the legacy users.json shape.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"tracker/internal/core"
)

type Store struct {
	path   string
	logger *slog.Logger
}

func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Load reads the document file if it exists. Read or parse failures are
// swallowed into an empty document: the file legitimately does not exist on
// first run, and a corrupt file must not keep the app from starting. Loaded
// accounts are migrated so every predefined category and defaulted field is
// present.
func (s *Store) Load(_ context.Context) (*core.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Users file unreadable, starting empty", "path", s.path, "error", err)
		}
		return core.NewDocument(), nil
	}

	doc := core.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		s.logger.Warn("Users file unparseable, starting empty", "path", s.path, "error", err)
		return core.NewDocument(), nil
	}
	doc.Normalize()
	return doc, nil
}

// Save overwrites the document file. It writes to a temp file and renames
// into place so a crash mid-write cannot leave a truncated document.
func (s *Store) Save(_ context.Context, doc *core.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
