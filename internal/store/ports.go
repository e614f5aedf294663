// Package store defines the whole-document persistence port and the backend
// factory that selects an implementation at startup.
package store

import (
	"context"

	"tracker/internal/core"
)

// DocumentStore persists the complete account document as a unit. This is a
// single-process, single-writer model: no locking, no versioning, no merge.
//
// Load returns a normalized document; the json backend swallows read and
// parse failures into an empty document, since file absence is the normal
// first-run state. Save overwrites previous state entirely; callers treat a
// Save failure as "changes not saved" and keep going.
type DocumentStore interface {
	Load(ctx context.Context) (*core.Document, error)
	Save(ctx context.Context, doc *core.Document) error
	Close() error
}
