// Package memory is a map-backed document store for tests and throwaway
// runs. Load and Save exchange deep copies so callers never alias the
// stored state.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"tracker/internal/core"
)

type Store struct {
	mu  sync.Mutex
	doc *core.Document
}

func New() *Store {
	return &Store{doc: core.NewDocument()}
}

// Seed replaces the stored document, for test setup.
func (s *Store) Seed(doc *core.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = clone(doc)
}

func (s *Store) Load(_ context.Context) (*core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := clone(s.doc)
	doc.Normalize()
	return doc, nil
}

func (s *Store) Save(_ context.Context, doc *core.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = clone(doc)
	return nil
}

func (s *Store) Close() error { return nil }

func clone(d *core.Document) *core.Document {
	if d == nil {
		return core.NewDocument()
	}
	data, err := json.Marshal(d)
	if err != nil {
		return core.NewDocument()
	}
	out := core.NewDocument()
	if err := json.Unmarshal(data, out); err != nil {
		return core.NewDocument()
	}
	return out
}
