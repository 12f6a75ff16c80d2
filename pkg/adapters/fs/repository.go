package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/snipcat/pkg/core"
	"github.com/aretw0/snipcat/pkg/markdown"
)

const (
	// DefaultSystemDir holds the parse cache, relative to the root.
	DefaultSystemDir = ".snipcat"
	// DefaultInclude matches every Markdown file below the root.
	DefaultInclude = "**/*.md"
)

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path        string
	Include     []string // doublestar patterns relative to Path; DefaultInclude when empty
	Exclude     []string
	SystemDir   string // e.g. ".snipcat"
	MustExist   bool
	ReadOnly    bool
	NoCache     bool
	TOCHeadings []string
	Logger      *slog.Logger

	// ErrorHandler receives runtime watcher failures that are otherwise only logged.
	ErrorHandler func(error)
}

// Repository implements core.Repository over Markdown files on disk.
type Repository struct {
	Path   string
	config Config
	cache  *cache

	mu            sync.RWMutex
	watcherActive bool
	lastList      *time.Time
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if len(config.Include) == 0 {
		config.Include = []string{DefaultInclude}
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

// Initialize validates the patterns and makes sure the root directory exists.
func (r *Repository) Initialize(ctx context.Context) error {
	for _, p := range append(append([]string{}, r.config.Include...), r.config.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern: %q", p)
		}
	}

	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("catalog path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("catalog path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	return nil
}

// Get parses a single document.
// The ID is the slash-separated path relative to the root, without the ".md" extension.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	relPath := idToPath(id)
	doc, err := r.parseFile(filepath.Join(r.Path, filepath.FromSlash(relPath)), relPath)
	if os.IsNotExist(err) && filepath.Ext(id) != "" && relPath != filepath.ToSlash(id) {
		// IDs of files matched by non-.md include patterns keep their extension.
		relPath = filepath.ToSlash(id)
		doc, err = r.parseFile(filepath.Join(r.Path, filepath.FromSlash(relPath)), relPath)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return core.Document{}, fmt.Errorf("document %q: %w", id, core.ErrNotFound)
		}
		return core.Document{}, err
	}
	return doc, nil
}

// List scans the root for all catalog documents.
//
// Strategy:
//  1. Load the parse cache from disk.
//  2. Walk the directory tree (skipping .git and the system dir).
//  3. For each file matching Include and not Exclude:
//     a. Cache hit (same mtime): reuse the parsed document.
//     b. Cache miss: parse and update the cache.
//  4. Prune vanished files and save the cache (unless read-only).
//
// Documents come back in lexical path order.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	useCache := !r.config.NoCache
	if useCache {
		if err := r.cache.Load(); err != nil {
			r.debug("cache load failed, starting empty", "error", err)
		}
	}

	var docs []core.Document
	seen := make(map[string]bool)

	err := filepath.WalkDir(r.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != r.Path && (d.Name() == ".git" || d.Name() == r.config.SystemDir) {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if !r.matches(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()
		seen[relPath] = true

		if useCache {
			if entry, hit := r.cache.Get(relPath, mtime); hit {
				docs = append(docs, entry.Document)
				return nil
			}
		}

		doc, err := r.parseFile(path, relPath)
		if err != nil {
			r.debug("skipping unparseable document", "path", relPath, "error", err)
			return nil
		}

		if useCache {
			r.cache.Set(relPath, &indexEntry{Document: doc, LastModified: mtime})
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if useCache {
		r.cache.Prune(seen)
		if !r.config.ReadOnly {
			if err := r.cache.Save(); err != nil {
				r.debug("cache save failed", "error", err)
			}
		}
	}

	r.mu.Lock()
	now := time.Now()
	r.lastList = &now
	r.mu.Unlock()

	return docs, nil
}

// Save writes the raw content of a document atomically.
// Path wins over ID when both are set.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if doc.ID == "" && doc.Path == "" {
		return fmt.Errorf("document has no ID")
	}

	relPath := doc.Path
	if relPath == "" {
		relPath = idToPath(doc.ID)
	}
	fullPath := filepath.Join(r.Path, filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := writeFileAtomic(fullPath, []byte(doc.Content), 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	r.debug("document saved", "id", doc.ID, "path", relPath)
	return nil
}

func (r *Repository) parseFile(fullPath, relPath string) (core.Document, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return core.Document{}, err
	}
	defer f.Close()

	doc, err := markdown.Parse(pathToID(relPath), f, markdown.Options{TOCHeadings: r.config.TOCHeadings})
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse document %s: %w", relPath, err)
	}
	doc.Path = relPath
	return *doc, nil
}

// matches applies the Include/Exclude patterns to a slash-separated relative path.
func (r *Repository) matches(relPath string) bool {
	for _, p := range r.config.Exclude {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return false
		}
	}
	for _, p := range r.config.Include {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}

func (r *Repository) debug(msg string, args ...any) {
	if r.config.Logger != nil {
		r.config.Logger.Debug(msg, args...)
	}
}

// pathToID strips the ".md" extension (other extensions are kept).
func pathToID(relPath string) string {
	return strings.TrimSuffix(relPath, ".md")
}

// idToPath appends ".md" unless the ID already ends with it, so dotted IDs
// such as "README.ja" resolve to "README.ja.md".
func idToPath(id string) string {
	id = filepath.ToSlash(id)
	if strings.HasSuffix(id, ".md") {
		return id
	}
	return id + ".md"
}
