package core

import "context"

// Repository defines the contract for storing and retrieving catalog documents.
// Adhering to this interface keeps the catalog independent of the
// underlying storage mechanism (Filesystem, SQLite).
type Repository interface {
	// Get retrieves a document by its ID.
	Get(ctx context.Context, id string) (Document, error)

	// List returns all available documents in a stable order.
	List(ctx context.Context) ([]Document, error)

	// Save persists the raw content of a document.
	Save(ctx context.Context, doc Document) error

	// Initialize ensures the underlying storage is ready (e.g. root exists, schema migrated).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for repositories that can report changes.
type Watchable interface {
	// Watch emits an event for every document matching pattern that changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
