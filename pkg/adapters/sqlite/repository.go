// Package sqlite stores catalog documents in a SQLite database.
//
// The raw Markdown is the source of truth: documents are re-parsed on read,
// while entries, snippets and references are denormalised into their own
// tables so the snapshot can be queried with plain SQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aretw0/snipcat/pkg/core"
	"github.com/aretw0/snipcat/pkg/markdown"
)

// Config holds the configuration for the SQLite repository.
type Config struct {
	Path        string // database file, or ":memory:"
	ReadOnly    bool
	TOCHeadings []string
	Logger      *slog.Logger
}

// Repository implements core.Repository over a SQLite database.
type Repository struct {
	config Config
	db     *sql.DB

	mu       sync.RWMutex
	saves    int
	lastSave *time.Time
}

// NewRepository creates a repository; the database is opened by Initialize.
func NewRepository(config Config) *Repository {
	return &Repository{config: config}
}

// Initialize opens the database and applies the schema.
// A read-only repository requires an existing database and never migrates.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.Path == "" {
		return fmt.Errorf("database path is empty")
	}

	dsn := r.config.Path
	if r.config.ReadOnly {
		if _, err := os.Stat(r.config.Path); err != nil {
			return fmt.Errorf("database not found: %w", err)
		}
		dsn = "file:" + r.config.Path + "?mode=ro"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("open database: %w", err)
	}
	if !r.config.ReadOnly {
		if err := migrate(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("migrate: %w", err)
		}
	}

	r.db = db
	r.debug("database opened", "path", r.config.Path, "read_only", r.config.ReadOnly)
	return nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Get loads and parses a single document.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	if r.db == nil {
		return core.Document{}, fmt.Errorf("repository not initialized")
	}

	var path, content string
	err := r.db.QueryRowContext(ctx,
		`SELECT path, content FROM documents WHERE id = ?`, id,
	).Scan(&path, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Document{}, fmt.Errorf("document %q: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Document{}, fmt.Errorf("query document: %w", err)
	}
	return r.parse(id, path, content)
}

// List returns every stored document ordered by path.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, path, content FROM documents ORDER BY path, id`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var id, path, content string
		if err := rows.Scan(&id, &path, &content); err != nil {
			return nil, err
		}
		doc, err := r.parse(id, path, content)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Save replaces a document and its denormalised rows in one transaction.
// The content is re-parsed so the rows always match what List returns.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	if doc.ID == "" {
		return fmt.Errorf("document has no ID")
	}
	if doc.Path == "" {
		doc.Path = doc.ID + ".md"
	}

	parsed, err := r.parse(doc.ID, doc.Path, doc.Content)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteDocument(ctx, tx, doc.ID); err != nil {
		return err
	}
	if err := insertDocument(ctx, tx, parsed); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.mu.Lock()
	now := time.Now()
	r.saves++
	r.lastSave = &now
	r.mu.Unlock()

	r.debug("document saved", "id", doc.ID, "categories", len(parsed.Categories))
	return nil
}

// Import copies every document of src into the database.
func (r *Repository) Import(ctx context.Context, src core.Repository) (int, error) {
	docs, err := src.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list source documents: %w", err)
	}
	for i, doc := range docs {
		if err := r.Save(ctx, doc); err != nil {
			return i, fmt.Errorf("failed to import %s: %w", doc.ID, err)
		}
	}
	return len(docs), nil
}

func (r *Repository) parse(id, path, content string) (core.Document, error) {
	doc, err := markdown.ParseString(id, content, markdown.Options{TOCHeadings: r.config.TOCHeadings})
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse document %s: %w", id, err)
	}
	doc.Path = path
	return *doc, nil
}

func (r *Repository) debug(msg string, args ...any) {
	if r.config.Logger != nil {
		r.config.Logger.Debug(msg, args...)
	}
}

func deleteDocument(ctx context.Context, db executor, id string) error {
	stmts := []string{
		`DELETE FROM references_ WHERE entry_id IN (SELECT id FROM entries WHERE document_id = ?)`,
		`DELETE FROM snippets WHERE entry_id IN (SELECT id FROM entries WHERE document_id = ?)`,
		`DELETE FROM entries WHERE document_id = ?`,
		`DELETE FROM documents WHERE id = ?`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s, id); err != nil {
			return fmt.Errorf("delete document %s: %w", id, err)
		}
	}
	return nil
}

func insertDocument(ctx context.Context, db executor, doc core.Document) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO documents (id, path, title, content, updated_at) VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.Path, doc.Title, doc.Content, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	position := 0
	for _, cat := range doc.Categories {
		for _, e := range cat.Entries {
			res, err := db.ExecContext(ctx,
				`INSERT INTO entries (document_id, category, title, anchor, position, body) VALUES (?, ?, ?, ?, ?, ?)`,
				doc.ID, e.Category, e.Title, e.Anchor, position, e.Body,
			)
			if err != nil {
				return fmt.Errorf("insert entry %s: %w", e.Key(), err)
			}
			position++

			entryID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for i, s := range e.Snippets {
				if _, err := db.ExecContext(ctx,
					`INSERT INTO snippets (entry_id, position, language, code) VALUES (?, ?, ?, ?)`,
					entryID, i, s.Language, s.Code,
				); err != nil {
					return fmt.Errorf("insert snippet: %w", err)
				}
			}
			for i, ref := range e.References {
				if _, err := db.ExecContext(ctx,
					`INSERT INTO references_ (entry_id, position, marker, label, url) VALUES (?, ?, ?, ?, ?)`,
					entryID, i, ref.Marker, ref.Label, ref.URL,
				); err != nil {
					return fmt.Errorf("insert reference: %w", err)
				}
			}
		}
	}
	return nil
}
