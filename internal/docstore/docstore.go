// Package docstore defines the key/document collection abstraction the
// back-office commands run against. Backends live in this package
// (Firestore) and in internal/store (local SQLite).
package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyExists is returned by Create when the id is taken.
	ErrAlreadyExists = errors.New("document already exists")
)

// Document is a stored document and its id within the collection.
type Document struct {
	ID   string
	Data map[string]any
}

// Query selects documents whose Field equals Value.
type Query struct {
	Field string
	Value any
	Limit int // 0 = unlimited
}

// Store is the document database consumed by the domain services.
// Field paths use dot notation to address nested maps, e.g.
// "answer_stats.correct".
type Store interface {
	// Query returns the documents in collection matching q.
	Query(ctx context.Context, collection string, q Query) ([]Document, error)

	// Get returns a single document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Set creates or overwrites the document.
	Set(ctx context.Context, collection, id string, data map[string]any) error

	// Create writes the document only if id is unused, otherwise it
	// returns ErrAlreadyExists.
	Create(ctx context.Context, collection, id string, data map[string]any) error

	// Add writes a new document under a generated id and returns the id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)

	// Update sets the given field paths on an existing document.
	// Returns ErrNotFound when the document is missing.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Increment atomically adds delta to the integer at path.
	// Returns ErrNotFound when the document is missing.
	Increment(ctx context.Context, collection, id, path string, delta int) error

	// Close releases the backend connection.
	Close() error
}

var fieldPathRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidatePath rejects field paths that are not dot-separated identifiers.
func ValidatePath(path string) error {
	if !fieldPathRe.MatchString(path) {
		return fmt.Errorf("invalid field path %q", path)
	}
	return nil
}
