package snipcat

import (
	"context"
	"log/slog"

	"github.com/aretw0/snipcat/internal/platform"
	"github.com/aretw0/snipcat/pkg/adapters/sqlite"
	"github.com/aretw0/snipcat/pkg/core"
	"github.com/aretw0/snipcat/pkg/lint"
)

// --- Types ---

// Service is the catalog service.
type Service = core.Service

// Entry is one documented tip.
type Entry = core.Entry

// Document is a parsed catalog file.
type Document = core.Document

// Config is the on-disk configuration of a catalog root.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring snipcat.
type Option = platform.Option

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom source.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the source by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSystemDir sets the hidden directory holding the parse cache.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithInclude sets the doublestar patterns of catalog files.
func WithInclude(patterns ...string) Option {
	return platform.WithInclude(patterns...)
}

// WithExclude sets doublestar patterns that are never loaded.
func WithExclude(patterns ...string) Option {
	return platform.WithExclude(patterns...)
}

// WithTOCHeading sets the H2 titles treated as the table of contents.
func WithTOCHeading(titles ...string) Option {
	return platform.WithTOCHeading(titles...)
}

// WithCache enables or disables the on-disk parse cache.
func WithCache(enabled bool) Option {
	return platform.WithCache(enabled)
}

// WithMustExist fails when the catalog directory is missing.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly forbids every write, including the cache.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithEventBuffer sets the size of the service event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a catalog service. Call Load before reading.
func New(uri string, opts ...Option) (*core.Service, error) {
	return platform.New(uri, opts...)
}

// Open creates a catalog service and loads it.
func Open(ctx context.Context, uri string, opts ...Option) (*core.Service, error) {
	svc, err := platform.New(uri, opts...)
	if err != nil {
		return nil, err
	}
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// Init initializes a source explicitly.
func Init(uri string, opts ...Option) (core.Repository, error) {
	return platform.Init(uri, opts...)
}

// --- Operations ---

// Lint checks every document of the service's current snapshot.
func Lint(ctx context.Context, svc *core.Service, opts lint.Options) (lint.Report, error) {
	l, err := lint.New(opts)
	if err != nil {
		return lint.Report{}, err
	}
	return l.Lint(ctx, svc.Documents()...)
}

// Export writes every document of src into a SQLite snapshot.
func Export(ctx context.Context, src core.Repository, dbPath string, opts ...Option) (sqlite.Stats, error) {
	return platform.Export(ctx, src, dbPath, opts...)
}

// --- Utils ---

// FindRoot looks upwards for a catalog root (config file, .snipcat or .git).
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// LoadConfig reads the config file of a catalog root, if any.
func LoadConfig(root string) (Config, error) {
	return platform.LoadRootConfig(root)
}

// LoadConfigFile reads an explicit config file.
func LoadConfigFile(path string) (Config, error) {
	return platform.LoadConfig(path)
}
