package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const defaultEventBuffer = 100

// snapshot pairs the documents of one load with the catalog built from them.
type snapshot struct {
	docs    []Document
	catalog *Catalog
}

// Service owns the current catalog snapshot of a repository.
type Service struct {
	repo   Repository
	logger *slog.Logger

	// loadMu serialises loads so an older listing never replaces a newer snapshot.
	loadMu sync.Mutex

	mu              sync.RWMutex
	current         *snapshot
	loads           int
	lastLoad        time.Time
	eventBufferSize int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used for reload diagnostics.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithEventBuffer sets the buffer size of the channel returned by Watch.
func WithEventBuffer(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewService creates a new Service. Call Load before reading the catalog.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		eventBufferSize: defaultEventBuffer,
		current:         &snapshot{catalog: NewCatalog()},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every document from the repository and swaps in a new snapshot.
// Readers holding the previous catalog keep a consistent view.
func (s *Service) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	docs, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	snap := &snapshot{docs: docs, catalog: NewCatalog(docs...)}

	s.mu.Lock()
	s.current = snap
	s.loads++
	s.lastLoad = time.Now()
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("catalog loaded", "documents", len(docs), "entries", snap.catalog.Len())
	}
	return nil
}

// Catalog returns the current snapshot.
func (s *Service) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.catalog
}

// Documents returns the documents of the current snapshot.
func (s *Service) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, len(s.current.docs))
	for i, doc := range s.current.docs {
		docs[i] = cloneDocument(doc)
	}
	return docs
}

// Document returns a document of the current snapshot by ID.
func (s *Service) Document(id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.current.docs {
		if doc.ID == id {
			return cloneDocument(doc), nil
		}
	}
	return Document{}, fmt.Errorf("document %q: %w", id, ErrNotFound)
}

// ListCategories is a shortcut for Catalog().ListCategories().
func (s *Service) ListCategories() []string {
	return s.Catalog().ListCategories()
}

// ListEntries is a shortcut for Catalog().ListEntries().
func (s *Service) ListEntries(category string) []Entry {
	return s.Catalog().ListEntries(category)
}

// GetEntry is a shortcut for Catalog().GetEntry().
func (s *Service) GetEntry(category, title string) (Entry, error) {
	return s.Catalog().GetEntry(category, title)
}

// SaveDocument persists the document content and reloads the snapshot.
func (s *Service) SaveDocument(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID cannot be empty")
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return err
	}
	return s.Load(ctx)
}

// Watch observes the repository, reloading the snapshot before forwarding
// each change. The returned channel is closed when ctx is done.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}

	in, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make(chan Event, s.eventBufferSize)
	s.mu.RUnlock()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-in:
				if !ok {
					return
				}
				if err := s.Load(ctx); err != nil && s.logger != nil {
					s.logger.Error("reload failed", "event", e.String(), "error", err)
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
